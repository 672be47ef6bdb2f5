package service

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserPatch holds the fields a PATCH may change. Nil means untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	Password     *string
	SkillLevel   *string
	Availability *string
	Status       *string
}

type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	Create(ctx context.Context, reg Registration) (*model.User, error)
	Update(ctx context.Context, actorID, id primitive.ObjectID, patch UserPatch) (*model.User, error)
	Delete(ctx context.Context, actorID, id primitive.ObjectID) error
}

type userService struct {
	userRepo repository.UserRepository
	auth     AuthService
}

func NewUserService(userRepo repository.UserRepository, auth AuthService) UserService {
	return &userService{userRepo: userRepo, auth: auth}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) Get(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// Create is registration without a session.
func (s *userService) Create(ctx context.Context, reg Registration) (*model.User, error) {
	return s.auth.Register(ctx, reg)
}

// Update lets users edit only their own account.
func (s *userService) Update(ctx context.Context, actorID, id primitive.ObjectID, patch UserPatch) (*model.User, error) {
	if actorID != id {
		return nil, ErrForbidden
	}
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		if u.PasswordHash, err = hashPassword(*patch.Password); err != nil {
			return nil, err
		}
	}
	if patch.SkillLevel != nil {
		u.SkillLevel = *patch.SkillLevel
	}
	if patch.Availability != nil {
		u.Availability = *patch.Availability
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, notFound(err)
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *userService) Delete(ctx context.Context, actorID, id primitive.ObjectID) error {
	if actorID != id {
		return ErrForbidden
	}
	return notFound(s.userRepo.Delete(ctx, id))
}
