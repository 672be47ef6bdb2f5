package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutInput uses the server's field names.
type WorkoutInput struct {
	Title           string
	Description     string
	Duration        int
	DifficultyLevel string
	Exercises       []json.RawMessage
	Calories        *int
	WorkoutType     string
}

type WorkoutService interface {
	List(ctx context.Context) ([]model.Workout, error)
	ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]model.Workout, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Workout, error)
	Create(ctx context.Context, creatorID primitive.ObjectID, in WorkoutInput) (*model.Workout, error)
	Update(ctx context.Context, actorID, id primitive.ObjectID, in WorkoutInput) (*model.Workout, error)
	Delete(ctx context.Context, actorID, id primitive.ObjectID) error
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo}
}

func (s *workoutService) List(ctx context.Context) ([]model.Workout, error) {
	return s.workoutRepo.List(ctx)
}

func (s *workoutService) ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]model.Workout, error) {
	return s.workoutRepo.GetByCreator(ctx, creatorID)
}

func (s *workoutService) Get(ctx context.Context, id primitive.ObjectID) (*model.Workout, error) {
	w, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return w, nil
}

func (s *workoutService) Create(ctx context.Context, creatorID primitive.ObjectID, in WorkoutInput) (*model.Workout, error) {
	if err := validateWorkoutInput(in); err != nil {
		return nil, err
	}
	w := &model.Workout{Creator: creatorID}
	applyWorkoutInput(w, in)
	if _, err := s.workoutRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Update is creator-only.
func (s *workoutService) Update(ctx context.Context, actorID, id primitive.ObjectID, in WorkoutInput) (*model.Workout, error) {
	if err := validateWorkoutInput(in); err != nil {
		return nil, err
	}
	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Creator != actorID {
		return nil, ErrForbidden
	}
	applyWorkoutInput(w, in)
	if err := s.workoutRepo.Update(ctx, w); err != nil {
		return nil, notFound(err)
	}
	return w, nil
}

func (s *workoutService) Delete(ctx context.Context, actorID, id primitive.ObjectID) error {
	w, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if w.Creator != actorID {
		return ErrForbidden
	}
	return notFound(s.workoutRepo.Delete(ctx, id))
}

func validateWorkoutInput(in WorkoutInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	switch in.DifficultyLevel {
	case "Easy", "Medium", "Hard":
	default:
		return fmt.Errorf("%w: difficultyLevel must be Easy, Medium or Hard", ErrInvalidInput)
	}
	return nil
}

func applyWorkoutInput(w *model.Workout, in WorkoutInput) {
	w.Title = strings.TrimSpace(in.Title)
	w.Description = in.Description
	w.Duration = in.Duration
	w.DifficultyLevel = in.DifficultyLevel
	w.Exercises = in.Exercises
	w.Calories = in.Calories
	w.WorkoutType = in.WorkoutType
}
