// Package server assembles the in-memory development backend.
package server

import (
	"context"
	"time"

	"alcyxob/fitness-client/internal/server/api"
	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/repository"
	"alcyxob/fitness-client/internal/server/service"

	"github.com/gin-gonic/gin"
)

// Server is a router plus the services behind it, exposed for seeding.
type Server struct {
	Router   *gin.Engine
	Services api.Services
	Store    *repository.Memory
}

// New builds an empty backend. gin's mode is left to the caller; extra
// middleware runs after recovery and before routing.
func New(jwtSecret string, jwtExpiration time.Duration, middleware ...gin.HandlerFunc) *Server {
	store := repository.NewMemory()

	authService := service.NewAuthService(store.Users(), jwtSecret, jwtExpiration)
	svc := api.Services{
		Auth:      authService,
		Users:     service.NewUserService(store.Users(), authService),
		Groups:    service.NewGroupService(store.Groups(), store.Users()),
		Workouts:  service.NewWorkoutService(store.Workouts()),
		Trainers:  service.NewTrainerService(store.Trainers(), store.Users(), store.Workouts()),
		Contracts: service.NewContractService(store.Contracts(), store.Trainers(), store.Workouts()),
		Locations: service.NewLocationService(store.Locations()),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	api.SetupRoutes(router, jwtSecret, svc)

	return &Server{Router: router, Services: svc, Store: store}
}

// SeedLocations adds a few well-known places and returns them.
func (s *Server) SeedLocations(ctx context.Context) ([]model.Location, error) {
	seed := []model.Location{
		{Name: "Central Park", Address: "5th Ave & E 72nd St", City: "New York", Lat: 40.7736, Lon: -73.9712},
		{Name: "Golden Gate Park", Address: "501 Stanyan St", City: "San Francisco", Lat: 37.7694, Lon: -122.4862},
		{Name: "Hyde Park", City: "London", Lat: 51.5073, Lon: -0.1657},
	}
	out := make([]model.Location, 0, len(seed))
	for _, l := range seed {
		added, err := s.Services.Locations.Add(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, *added)
	}
	return out, nil
}
