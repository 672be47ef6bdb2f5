package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContractHandler struct {
	contractService service.ContractService
}

func NewContractHandler(contractService service.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

type HireRequest struct {
	TrainerID     string    `json:"trainerId" binding:"required"`
	StartDate     time.Time `json:"startDate" binding:"required"`
	EndDate       time.Time `json:"endDate" binding:"required"`
	TotalSessions int       `json:"totalSessions" binding:"required,gt=0"`
	Notes         string    `json:"notes" binding:"max=1000"`
}

type StatusRequest struct {
	Status model.ContractStatus `json:"status" binding:"required,oneof=pending accepted rejected completed canceled"`
}

func (h *ContractHandler) Hire(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req HireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainerId format")
		return
	}
	contract, err := h.contractService.Hire(c.Request.Context(), userID, service.HireInput{
		TrainerID:     trainerID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		TotalSessions: req.TotalSessions,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapContractToResponse(contract))
}

func (h *ContractHandler) ClientContracts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cs, err := h.contractService.ClientContracts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapContracts(cs))
}

func (h *ContractHandler) TrainerContracts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cs, err := h.contractService.TrainerContracts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapContracts(cs))
}

func (h *ContractHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	contract, err := h.contractService.UpdateStatus(c.Request.Context(), userID, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapContractToResponse(contract))
}

func (h *ContractHandler) AddWorkout(c *gin.Context) {
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
	contract, err := h.contractService.AddWorkout(c.Request.Context(), userID, id, workoutID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapContractToResponse(contract))
}
