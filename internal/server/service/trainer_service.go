package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrAlreadyTrainer = errors.New("user already has a trainer profile")

type TrainerInput struct {
	Bio             string
	Experience      int
	HourlyRate      float64
	Specializations []string
	Certifications  []model.Certification
}

type ReviewInput struct {
	Rating  int
	Comment string
}

type TrainerService interface {
	List(ctx context.Context, specialization string) ([]model.Trainer, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Trainer, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*model.Trainer, error)
	Become(ctx context.Context, userID primitive.ObjectID, in TrainerInput) (*model.Trainer, error)
	Update(ctx context.Context, actorID, id primitive.ObjectID, in TrainerInput) (*model.Trainer, error)
	Delete(ctx context.Context, actorID, id primitive.ObjectID) error
	AddReview(ctx context.Context, actorID, id primitive.ObjectID, in ReviewInput) (*model.Trainer, error)
	AddWorkout(ctx context.Context, actorID, id, workoutID primitive.ObjectID) (*model.Trainer, error)
}

type trainerService struct {
	trainerRepo repository.TrainerRepository
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
}

func NewTrainerService(
	trainerRepo repository.TrainerRepository,
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
) TrainerService {
	return &trainerService{
		trainerRepo: trainerRepo,
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
	}
}

// List filters by specialization when one is given.
func (s *trainerService) List(ctx context.Context, specialization string) ([]model.Trainer, error) {
	trainers, err := s.trainerRepo.List(ctx)
	if err != nil || specialization == "" {
		return trainers, err
	}
	out := make([]model.Trainer, 0, len(trainers))
	for _, t := range trainers {
		for _, sp := range t.Specializations {
			if sp == specialization {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (s *trainerService) Get(ctx context.Context, id primitive.ObjectID) (*model.Trainer, error) {
	t, err := s.trainerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *trainerService) GetByUser(ctx context.Context, userID primitive.ObjectID) (*model.Trainer, error) {
	t, err := s.trainerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// Become creates the caller's trainer profile and flags the account.
func (s *trainerService) Become(ctx context.Context, userID primitive.ObjectID, in TrainerInput) (*model.Trainer, error) {
	if err := validateTrainerInput(in); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	t := &model.Trainer{UserID: userID, Reviews: []model.Review{}, Workouts: []primitive.ObjectID{}}
	applyTrainerInput(t, in)
	if _, err := s.trainerRepo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyTrainer
		}
		return nil, err
	}
	user.IsTrainer = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *trainerService) Update(ctx context.Context, actorID, id primitive.ObjectID, in TrainerInput) (*model.Trainer, error) {
	if err := validateTrainerInput(in); err != nil {
		return nil, err
	}
	t, err := s.owned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	applyTrainerInput(t, in)
	if err := s.trainerRepo.Update(ctx, t); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// Delete removes the profile and clears the account's trainer flag.
func (s *trainerService) Delete(ctx context.Context, actorID, id primitive.ObjectID) error {
	t, err := s.owned(ctx, actorID, id)
	if err != nil {
		return err
	}
	if err := s.trainerRepo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	user, err := s.userRepo.GetByID(ctx, t.UserID)
	if err != nil {
		return nil
	}
	user.IsTrainer = false
	return notFound(s.userRepo.Update(ctx, user))
}

// AddReview stores one review per user, replacing an earlier one, and
// recomputes the average rating.
func (s *trainerService) AddReview(ctx context.Context, actorID, id primitive.ObjectID, in ReviewInput) (*model.Trainer, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID == actorID {
		return nil, fmt.Errorf("%w: trainers cannot review themselves", ErrInvalidInput)
	}
	review := model.Review{
		ID:        primitive.NewObjectID(),
		Rating:    in.Rating,
		Comment:   in.Comment,
		UserID:    actorID,
		CreatedAt: time.Now().UTC(),
	}
	reviews := make([]model.Review, 0, len(t.Reviews)+1)
	for _, r := range t.Reviews {
		if r.UserID != actorID {
			reviews = append(reviews, r)
		}
	}
	t.Reviews = append(reviews, review)
	t.AverageRating = averageRating(t.Reviews)
	if err := s.trainerRepo.Update(ctx, t); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// AddWorkout links an existing workout to the caller's profile.
func (s *trainerService) AddWorkout(ctx context.Context, actorID, id, workoutID primitive.ObjectID) (*model.Trainer, error) {
	t, err := s.owned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		return nil, notFound(err)
	}
	t.Workouts = model.AddID(t.Workouts, workoutID)
	if err := s.trainerRepo.Update(ctx, t); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *trainerService) owned(ctx context.Context, actorID, id primitive.ObjectID) (*model.Trainer, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != actorID {
		return nil, ErrForbidden
	}
	return t, nil
}

func validateTrainerInput(in TrainerInput) error {
	if in.HourlyRate <= 0 {
		return fmt.Errorf("%w: hourlyRate must be positive", ErrInvalidInput)
	}
	if in.Experience < 0 {
		return fmt.Errorf("%w: experience cannot be negative", ErrInvalidInput)
	}
	if len(in.Specializations) == 0 {
		return fmt.Errorf("%w: at least one specialization is required", ErrInvalidInput)
	}
	return nil
}

func applyTrainerInput(t *model.Trainer, in TrainerInput) {
	t.Bio = in.Bio
	t.Experience = in.Experience
	t.HourlyRate = in.HourlyRate
	t.Specializations = in.Specializations
	t.Certifications = in.Certifications
	if t.Certifications == nil {
		t.Certifications = []model.Certification{}
	}
}

// averageRating is rounded to one decimal.
func averageRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}
