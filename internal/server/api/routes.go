package api

import (
	"net/http"

	"alcyxob/fitness-client/internal/server/service"

	"github.com/gin-gonic/gin"
)

// Services groups every service the routes depend on.
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Groups    service.GroupService
	Workouts  service.WorkoutService
	Trainers  service.TrainerService
	Contracts service.ContractService
	Locations service.LocationService
}

// SetupRoutes mounts the REST surface under /api. Everything except
// signup and login requires a bearer token.
func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	groupHandler := NewGroupHandler(svc.Groups)
	workoutHandler := NewWorkoutHandler(svc.Workouts)
	trainerHandler := NewTrainerHandler(svc.Trainers, svc.Users)
	contractHandler := NewContractHandler(svc.Contracts)
	locationHandler := NewLocationHandler(svc.Locations)

	router.Use(RequestIDMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := apiGroup.Group("")
	protected.Use(AuthMiddleware(jwtSecret))

	users := protected.Group("/users")
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/me", userHandler.Me)
		users.GET("/:id", userHandler.Get)
		users.PATCH("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	groups := protected.Group("/groups")
	{
		groups.GET("", groupHandler.List)
		groups.POST("", groupHandler.Create)
		groups.GET("/search", groupHandler.Search)
		groups.GET("/:id", groupHandler.Get)
		groups.PUT("/:id", groupHandler.Update)
		groups.DELETE("/:id", groupHandler.Delete)
		groups.POST("/:id/join", groupHandler.Join)
		groups.POST("/:id/leave", groupHandler.Leave)
		groups.POST("/:id/removeMember", groupHandler.RemoveMember)
		groups.GET("/:id/members", groupHandler.Members)
	}

	workouts := protected.Group("/workouts")
	{
		workouts.GET("", workoutHandler.List)
		workouts.POST("", workoutHandler.Create)
		workouts.GET("/my-workouts", workoutHandler.Mine)
		workouts.GET("/:id", workoutHandler.Get)
		workouts.PATCH("/:id", workoutHandler.Update)
		workouts.DELETE("/:id", workoutHandler.Delete)
	}

	trainers := protected.Group("/trainers")
	{
		trainers.GET("", trainerHandler.List)
		trainers.GET("/profile", trainerHandler.Profile)
		trainers.GET("/user/:userId", trainerHandler.GetByUser)
		trainers.POST("/become-trainer", trainerHandler.Become)
		trainers.GET("/:id", trainerHandler.Get)
		trainers.PATCH("/:id", trainerHandler.Update)
		trainers.DELETE("/:id", trainerHandler.Delete)
		trainers.POST("/:id/review", trainerHandler.AddReview)
		trainers.POST("/:id/workouts/:workoutId", trainerHandler.AddWorkout)
	}

	contracts := protected.Group("/training-contracts")
	{
		contracts.POST("/hire", contractHandler.Hire)
		contracts.GET("/client", contractHandler.ClientContracts)
		contracts.GET("/trainer", contractHandler.TrainerContracts)
		contracts.PATCH("/:id/status", contractHandler.UpdateStatus)
		contracts.POST("/:id/workouts/:workoutId", contractHandler.AddWorkout)
	}

	protected.GET("/locations/:id", locationHandler.Get)
}
