package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GroupHandler struct {
	groupService service.GroupService
}

func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type GroupRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=1000"`
	Sport       string          `json:"sport" binding:"required"`
	Activity    string          `json:"activity"`
	Location    json.RawMessage `json:"location"`
	MaxMembers  int             `json:"maxMembers" binding:"gte=0"`
	Members     *[]string       `json:"members"`
	Admins      *[]string       `json:"admins"`
}

func (r GroupRequest) toInput() (service.GroupInput, error) {
	in := service.GroupInput{
		Name:        r.Name,
		Description: r.Description,
		Sport:       r.Sport,
		Activity:    r.Activity,
		MaxMembers:  r.MaxMembers,
	}
	if loc := bytes.TrimSpace(r.Location); len(loc) > 0 && !bytes.Equal(loc, []byte("null")) {
		in.Location = append(json.RawMessage(nil), loc...)
	}
	if r.Members != nil {
		ids, err := parseIDs(*r.Members)
		if err != nil {
			return in, fmt.Errorf("%w: malformed member id", service.ErrInvalidInput)
		}
		in.Members = &ids
	}
	if r.Admins != nil {
		ids, err := parseIDs(*r.Admins)
		if err != nil {
			return in, fmt.Errorf("%w: malformed admin id", service.ErrInvalidInput)
		}
		in.Admins = &ids
	}
	return in, nil
}

type RemoveMemberRequest struct {
	MemberID string `json:"memberId" binding:"required"`
}

func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapGroups(groups))
}

func (h *GroupHandler) Search(c *gin.Context) {
	groups, err := h.groupService.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapGroups(groups))
}

// Get expands members and organizer into user objects.
func (h *GroupHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	group, err := h.groupService.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	members, err := h.groupService.Members(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expandGroup(MapGroupToResponse(group), members))
}

func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	in, ok := bindGroup(c)
	if !ok {
		return
	}
	group, err := h.groupService.Create(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapGroupToResponse(group))
}

func (h *GroupHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	in, ok := bindGroup(c)
	if !ok {
		return
	}
	group, err := h.groupService.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGroupToResponse(group))
}

func (h *GroupHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.groupService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GroupHandler) Join(c *gin.Context) {
	h.membership(c, h.groupService.Join)
}

func (h *GroupHandler) Leave(c *gin.Context) {
	h.membership(c, h.groupService.Leave)
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req RemoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid memberId format")
		return
	}
	group, err := h.groupService.RemoveMember(c.Request.Context(), userID, id, memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGroupToResponse(group))
}

func (h *GroupHandler) Members(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	members, err := h.groupService.Members(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapUsers(members))
}

type membershipFunc = func(ctx context.Context, actorID, id primitive.ObjectID) (*model.Group, error)

func (h *GroupHandler) membership(c *gin.Context, fn membershipFunc) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	group, err := fn(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGroupToResponse(group))
}

func bindGroup(c *gin.Context) (service.GroupInput, bool) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return service.GroupInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return in, false
	}
	return in, true
}
