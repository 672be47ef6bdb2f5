package api

import (
	"fmt"
	"net/http"

	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/service"

	"github.com/gin-gonic/gin"
)

type TrainerHandler struct {
	trainerService service.TrainerService
	userService    service.UserService
}

func NewTrainerHandler(trainerService service.TrainerService, userService service.UserService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService, userService: userService}
}

type TrainerRequest struct {
	Bio             string                `json:"bio" binding:"max=2000"`
	Experience      int                   `json:"experience" binding:"gte=0,lte=80"`
	HourlyRate      float64               `json:"hourlyRate" binding:"required,gt=0"`
	Specializations []string              `json:"specializations" binding:"required,min=1"`
	Certifications  []model.Certification `json:"certifications" binding:"omitempty,dive"`
}

func (r TrainerRequest) toInput() service.TrainerInput {
	return service.TrainerInput{
		Bio:             r.Bio,
		Experience:      r.Experience,
		HourlyRate:      r.HourlyRate,
		Specializations: r.Specializations,
		Certifications:  r.Certifications,
	}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// List accepts an optional ?specialization= filter.
func (h *TrainerHandler) List(c *gin.Context) {
	ts, err := h.trainerService.List(c.Request.Context(), c.Query("specialization"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapTrainers(ts))
}

// Get expands the profile's user.
func (h *TrainerHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	t, err := h.trainerService.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := MapTrainerToResponse(t)
	if u, err := h.userService.Get(ctx, t.UserID); err == nil {
		resp.UserID = MapUserToResponse(u)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrainerHandler) GetByUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	t, err := h.trainerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(t))
}

// Profile returns the caller's own trainer profile, 404 if none.
func (h *TrainerHandler) Profile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	t, err := h.trainerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(t))
}

func (h *TrainerHandler) Become(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req TrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	t, err := h.trainerService.Become(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapTrainerToResponse(t))
}

func (h *TrainerHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req TrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	t, err := h.trainerService.Update(c.Request.Context(), userID, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(t))
}

func (h *TrainerHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.trainerService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrainerHandler) AddReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	t, err := h.trainerService.AddReview(c.Request.Context(), userID, id, service.ReviewInput{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(t))
}

func (h *TrainerHandler) AddWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	workoutID, ok := paramID(c, "workoutId")
	if !ok {
		return
	}
	t, err := h.trainerService.AddWorkout(c.Request.Context(), userID, id, workoutID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(t))
}
