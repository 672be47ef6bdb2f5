package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupInput is a create or full-update payload. Nil Members/Admins keep
// the current lists.
type GroupInput struct {
	Name        string
	Description string
	Sport       string
	Activity    string
	Location    json.RawMessage
	MaxMembers  int
	Members     *[]primitive.ObjectID
	Admins      *[]primitive.ObjectID
}

type GroupService interface {
	List(ctx context.Context) ([]model.Group, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Group, error)
	Search(ctx context.Context, query string) ([]model.Group, error)
	Create(ctx context.Context, organizerID primitive.ObjectID, in GroupInput) (*model.Group, error)
	Update(ctx context.Context, actorID, id primitive.ObjectID, in GroupInput) (*model.Group, error)
	Delete(ctx context.Context, actorID, id primitive.ObjectID) error
	Join(ctx context.Context, actorID, id primitive.ObjectID) (*model.Group, error)
	Leave(ctx context.Context, actorID, id primitive.ObjectID) (*model.Group, error)
	RemoveMember(ctx context.Context, actorID, id, memberID primitive.ObjectID) (*model.Group, error)
	Members(ctx context.Context, id primitive.ObjectID) ([]model.User, error)
}

type groupService struct {
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository) GroupService {
	return &groupService{groupRepo: groupRepo, userRepo: userRepo}
}

func (s *groupService) List(ctx context.Context) ([]model.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *groupService) Get(ctx context.Context, id primitive.ObjectID) (*model.Group, error) {
	g, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

// Search matches query against name, description, sport and activity,
// ignoring case. An empty query matches everything.
func (s *groupService) Search(ctx context.Context, query string) ([]model.Group, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Group, 0, len(groups))
	for _, g := range groups {
		haystack := strings.ToLower(strings.Join([]string{g.Name, g.Description, g.Sport, g.Activity}, " "))
		if strings.Contains(haystack, q) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *groupService) Create(ctx context.Context, organizerID primitive.ObjectID, in GroupInput) (*model.Group, error) {
	if err := validateGroupInput(in); err != nil {
		return nil, err
	}
	g := &model.Group{Organizer: organizerID}
	applyGroupInput(g, in)
	if err := s.normalizeMembers(ctx, g); err != nil {
		return nil, err
	}
	if _, err := s.groupRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Update is admin-only and replaces every field.
func (s *groupService) Update(ctx context.Context, actorID, id primitive.ObjectID, in GroupInput) (*model.Group, error) {
	if err := validateGroupInput(in); err != nil {
		return nil, err
	}
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(actorID) {
		return nil, ErrForbidden
	}
	// Only the organizer hands out admin rights.
	if in.Admins != nil && g.Organizer != actorID && !sameIDs(*in.Admins, g.Admins) {
		return nil, ErrForbidden
	}
	applyGroupInput(g, in)
	if err := s.normalizeMembers(ctx, g); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Update(ctx, g); err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (s *groupService) Delete(ctx context.Context, actorID, id primitive.ObjectID) error {
	g, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if g.Organizer != actorID {
		return ErrForbidden
	}
	return notFound(s.groupRepo.Delete(ctx, id))
}

// Join is idempotent for existing members.
func (s *groupService) Join(ctx context.Context, actorID, id primitive.ObjectID) (*model.Group, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.HasMember(actorID) {
		return g, nil
	}
	if g.MaxMembers > 0 && len(g.Members) >= g.MaxMembers {
		return nil, ErrGroupFull
	}
	g.Members = model.AddID(g.Members, actorID)
	if err := s.groupRepo.Update(ctx, g); err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

// Leave is idempotent for non-members. The organizer cannot leave.
func (s *groupService) Leave(ctx context.Context, actorID, id primitive.ObjectID) (*model.Group, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Organizer == actorID {
		return nil, fmt.Errorf("%w: the organizer cannot leave the group", ErrInvalidInput)
	}
	if !g.HasMember(actorID) {
		return g, nil
	}
	g.Members = model.RemoveID(g.Members, actorID)
	g.Admins = model.RemoveID(g.Admins, actorID)
	if err := s.groupRepo.Update(ctx, g); err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (s *groupService) RemoveMember(ctx context.Context, actorID, id, memberID primitive.ObjectID) (*model.Group, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(actorID) {
		return nil, ErrForbidden
	}
	if g.Organizer == memberID {
		return nil, fmt.Errorf("%w: the organizer cannot be removed", ErrInvalidInput)
	}
	if !g.HasMember(memberID) {
		return nil, ErrNotFound
	}
	g.Members = model.RemoveID(g.Members, memberID)
	g.Admins = model.RemoveID(g.Admins, memberID)
	if err := s.groupRepo.Update(ctx, g); err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (s *groupService) Members(ctx context.Context, id primitive.ObjectID) ([]model.User, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDs(ctx, g.Members)
}

// normalizeMembers keeps the organizer in Members, drops admins who are
// not members, and rejects unknown users and overfull groups.
func (s *groupService) normalizeMembers(ctx context.Context, g *model.Group) error {
	members := []primitive.ObjectID{g.Organizer}
	for _, id := range g.Members {
		members = model.AddID(members, id)
	}
	known, err := s.userRepo.GetByIDs(ctx, members)
	if err != nil {
		return err
	}
	if len(known) != len(members) {
		return fmt.Errorf("%w: unknown member", ErrInvalidInput)
	}
	if g.MaxMembers > 0 && len(members) > g.MaxMembers {
		return fmt.Errorf("%w: group allows at most %d members", ErrInvalidInput, g.MaxMembers)
	}
	admins := make([]primitive.ObjectID, 0, len(g.Admins))
	for _, id := range g.Admins {
		if id != g.Organizer && containsObjectID(members, id) {
			admins = model.AddID(admins, id)
		}
	}
	g.Members, g.Admins = members, admins
	return nil
}

func validateGroupInput(in GroupInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Sport) == "" {
		return fmt.Errorf("%w: name and sport are required", ErrInvalidInput)
	}
	if in.MaxMembers < 0 {
		return fmt.Errorf("%w: maxMembers cannot be negative", ErrInvalidInput)
	}
	return nil
}

func applyGroupInput(g *model.Group, in GroupInput) {
	g.Name = strings.TrimSpace(in.Name)
	g.Description = in.Description
	g.Sport = in.Sport
	g.Activity = in.Activity
	g.Location = in.Location
	g.MaxMembers = in.MaxMembers
	if in.Members != nil {
		g.Members = *in.Members
	}
	if in.Admins != nil {
		g.Admins = *in.Admins
	}
}

func containsObjectID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// sameIDs compares as sets.
func sameIDs(a, b []primitive.ObjectID) bool {
	for _, id := range a {
		if !containsObjectID(b, id) {
			return false
		}
	}
	for _, id := range b {
		if !containsObjectID(a, id) {
			return false
		}
	}
	return true
}
