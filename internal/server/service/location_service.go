package service

import (
	"context"

	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LocationService interface {
	Get(ctx context.Context, id primitive.ObjectID) (*model.Location, error)
	Add(ctx context.Context, loc model.Location) (*model.Location, error)
}

type locationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

func (s *locationService) Get(ctx context.Context, id primitive.ObjectID) (*model.Location, error) {
	l, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

// Add is used for seeding; there is no public create endpoint.
func (s *locationService) Add(ctx context.Context, loc model.Location) (*model.Location, error) {
	if _, err := s.locationRepo.Create(ctx, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}
