package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HireInput struct {
	TrainerID     primitive.ObjectID
	StartDate     time.Time
	EndDate       time.Time
	TotalSessions int
	Notes         string
}

// transitions lists the statuses reachable from each status.
var transitions = map[model.ContractStatus][]model.ContractStatus{
	model.ContractPending:  {model.ContractAccepted, model.ContractRejected, model.ContractCanceled},
	model.ContractAccepted: {model.ContractCompleted, model.ContractCanceled},
}

// CanTransition reports whether a contract may move from one status to another.
func CanTransition(from, to model.ContractStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type ContractService interface {
	Hire(ctx context.Context, clientID primitive.ObjectID, in HireInput) (*model.Contract, error)
	ClientContracts(ctx context.Context, clientID primitive.ObjectID) ([]model.Contract, error)
	TrainerContracts(ctx context.Context, userID primitive.ObjectID) ([]model.Contract, error)
	UpdateStatus(ctx context.Context, actorID, id primitive.ObjectID, status model.ContractStatus) (*model.Contract, error)
	AddWorkout(ctx context.Context, actorID, id, workoutID primitive.ObjectID) (*model.Contract, error)
}

type contractService struct {
	contractRepo repository.ContractRepository
	trainerRepo  repository.TrainerRepository
	workoutRepo  repository.WorkoutRepository
}

func NewContractService(
	contractRepo repository.ContractRepository,
	trainerRepo repository.TrainerRepository,
	workoutRepo repository.WorkoutRepository,
) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		trainerRepo:  trainerRepo,
		workoutRepo:  workoutRepo,
	}
}

// Hire opens a pending contract at the trainer's current hourly rate.
func (s *contractService) Hire(ctx context.Context, clientID primitive.ObjectID, in HireInput) (*model.Contract, error) {
	if in.TotalSessions <= 0 {
		return nil, fmt.Errorf("%w: totalSessions must be positive", ErrInvalidInput)
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, fmt.Errorf("%w: endDate must be after startDate", ErrInvalidInput)
	}
	trainer, err := s.trainerRepo.GetByID(ctx, in.TrainerID)
	if err != nil {
		return nil, notFound(err)
	}
	if trainer.UserID == clientID {
		return nil, fmt.Errorf("%w: trainers cannot hire themselves", ErrInvalidInput)
	}
	c := &model.Contract{
		ClientID:      clientID,
		TrainerID:     trainer.ID,
		Status:        model.ContractPending,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		TotalSessions: in.TotalSessions,
		HourlyRate:    trainer.HourlyRate,
		Notes:         in.Notes,
		Workouts:      []primitive.ObjectID{},
	}
	if _, err := s.contractRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contractService) ClientContracts(ctx context.Context, clientID primitive.ObjectID) ([]model.Contract, error) {
	return s.contractRepo.GetByClientID(ctx, clientID)
}

// TrainerContracts lists contracts for the caller's trainer profile. A
// user without a profile has none.
func (s *contractService) TrainerContracts(ctx context.Context, userID primitive.ObjectID) ([]model.Contract, error) {
	trainer, err := s.trainerRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return []model.Contract{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.contractRepo.GetByTrainerID(ctx, trainer.ID)
}

// UpdateStatus lets the trainer accept, reject or complete, and either
// party cancel.
func (s *contractService) UpdateStatus(ctx context.Context, actorID, id primitive.ObjectID, status model.ContractStatus) (*model.Contract, error) {
	c, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	isTrainer, err := s.isContractTrainer(ctx, actorID, c)
	if err != nil {
		return nil, err
	}
	isClient := c.ClientID == actorID
	if !isTrainer && !isClient {
		return nil, ErrForbidden
	}
	if status != model.ContractCanceled && !isTrainer {
		return nil, ErrForbidden
	}
	if !CanTransition(c.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, c.Status, status)
	}
	c.Status = status
	if status == model.ContractCompleted {
		c.CompletedSessions = c.TotalSessions
	}
	if err := s.contractRepo.Update(ctx, c); err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// AddWorkout is trainer-only.
func (s *contractService) AddWorkout(ctx context.Context, actorID, id, workoutID primitive.ObjectID) (*model.Contract, error) {
	c, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	isTrainer, err := s.isContractTrainer(ctx, actorID, c)
	if err != nil {
		return nil, err
	}
	if !isTrainer {
		return nil, ErrForbidden
	}
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		return nil, notFound(err)
	}
	c.Workouts = model.AddID(c.Workouts, workoutID)
	if err := s.contractRepo.Update(ctx, c); err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *contractService) isContractTrainer(ctx context.Context, userID primitive.ObjectID, c *model.Contract) (bool, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, c.TrainerID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return trainer.UserID == userID, nil
}
