package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"alcyxob/fitness-client/internal/server/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type WorkoutRequest struct {
	Title           string            `json:"title" binding:"required"`
	Description     string            `json:"description"`
	Duration        int               `json:"duration" binding:"required,gt=0,lte=600"`
	DifficultyLevel string            `json:"difficultyLevel" binding:"required,oneof=Easy Medium Hard"`
	Exercises       []json.RawMessage `json:"exercises"`
	Calories        *int              `json:"calories" binding:"omitempty,gte=0"`
	WorkoutType     string            `json:"workoutType"`
}

func (r WorkoutRequest) toInput() service.WorkoutInput {
	return service.WorkoutInput{
		Title:           r.Title,
		Description:     r.Description,
		Duration:        r.Duration,
		DifficultyLevel: r.DifficultyLevel,
		Exercises:       r.Exercises,
		Calories:        r.Calories,
		WorkoutType:     r.WorkoutType,
	}
}

func (h *WorkoutHandler) List(c *gin.Context) {
	ws, err := h.workoutService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapWorkouts(ws))
}

// Mine lists workouts created by the caller.
func (h *WorkoutHandler) Mine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ws, err := h.workoutService.ListByCreator(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapWorkouts(ws))
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	w, err := h.workoutService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(w))
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	w, err := h.workoutService.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(w))
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	w, err := h.workoutService.Update(c.Request.Context(), userID, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(w))
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.workoutService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
