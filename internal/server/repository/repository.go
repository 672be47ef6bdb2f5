package repository

import (
	"alcyxob/fitness-client/internal/server/model" // Server-side records
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// GroupRepository defines the interface for interacting with group data.
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *model.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Workout, error)
	List(ctx context.Context) ([]model.Workout, error)
	GetByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]model.Workout, error)
	Update(ctx context.Context, workout *model.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TrainerRepository defines the interface for interacting with trainer profiles.
type TrainerRepository interface {
	Create(ctx context.Context, trainer *model.Trainer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Trainer, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*model.Trainer, error)
	List(ctx context.Context) ([]model.Trainer, error)
	Update(ctx context.Context, trainer *model.Trainer) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ContractRepository defines the interface for interacting with training contracts.
type ContractRepository interface {
	Create(ctx context.Context, contract *model.Contract) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Contract, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]model.Contract, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
}

// LocationRepository defines the interface for interacting with saved places.
type LocationRepository interface {
	Create(ctx context.Context, location *model.Location) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Location, error)
}
