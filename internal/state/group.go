package state

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"alcyxob/fitness-client/internal/domain"
	"alcyxob/fitness-client/internal/resource"
)

// ErrOrganizerNotRemovable is returned when a member-management call names
// the group's organizer.
var ErrOrganizerNotRemovable = fmt.Errorf("%w: the organizer cannot be removed from the group", ErrValidation)

// GroupStore owns the group list, the group being viewed, and search
// results.
type GroupStore struct {
	tracker
	api     *resource.API
	auth    *AuthStore
	groups  []domain.Group
	current *domain.Group
	results []domain.Group
}

type GroupSnapshot struct {
	Status
	Groups        []domain.Group
	Current       *domain.Group
	SearchResults []domain.Group
}

func NewGroupStore(api *resource.API, auth *AuthStore) *GroupStore {
	s := &GroupStore{api: api, auth: auth}
	s.tracker.init()
	return s
}

func (s *GroupStore) Snapshot() GroupSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := GroupSnapshot{
		Status:        s.status,
		Groups:        append([]domain.Group(nil), s.groups...),
		SearchResults: append([]domain.Group(nil), s.results...),
	}
	if s.current != nil {
		snap.Current = ptr(*s.current)
	}
	return snap
}

func (s *GroupStore) Reset() {
	s.update(func() {
		s.groups = nil
		s.current = nil
		s.results = nil
		s.clearStatus()
	})
}

// Group returns a cached group without a request.
func (s *GroupStore) Group(id string) (domain.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current != nil && s.current.ID == id {
		return *s.current, true
	}
	return find(s.groups, id)
}

// IsMember, IsOrganizer and IsAdmin project the cached group against the
// signed-in user. They are recomputed on every call.
func (s *GroupStore) IsMember(groupID string) bool {
	g, ok := s.Group(groupID)
	return ok && g.IsMember(s.auth.CurrentUserID())
}

func (s *GroupStore) IsOrganizer(groupID string) bool {
	g, ok := s.Group(groupID)
	return ok && g.IsOrganizer(s.auth.CurrentUserID())
}

func (s *GroupStore) IsAdmin(groupID string) bool {
	g, ok := s.Group(groupID)
	return ok && g.IsAdmin(s.auth.CurrentUserID())
}

// MemberCount returns -1 when the group is not cached.
func (s *GroupStore) MemberCount(groupID string) int {
	g, ok := s.Group(groupID)
	if !ok {
		return -1
	}
	return g.MemberCount()
}

// store patches both the list and the current group with g.
func (s *GroupStore) store(g domain.Group) {
	s.groups = replaceExisting(s.groups, g)
	if s.current != nil && s.current.ID == g.ID {
		s.current = ptr(g)
	}
}

func (s *GroupStore) FetchAll(ctx context.Context) ([]domain.Group, error) {
	s.begin()
	groups, err := s.api.ListGroups(ctx)
	if err != nil {
		err = s.finish(err, "fetch groups", nil)
		return s.Snapshot().Groups, err
	}
	s.finish(nil, "fetch groups", func() { s.groups = groups })
	return groups, nil
}

// FetchByID loads a group with expanded members and makes it current.
func (s *GroupStore) FetchByID(ctx context.Context, id string) (*domain.Group, error) {
	s.begin()
	g, err := s.api.GetGroup(ctx, id)
	if err != nil {
		return nil, s.finish(err, "fetch group", nil)
	}
	s.finish(nil, "fetch group", func() {
		s.current = ptr(*g)
		s.groups = replaceExisting(s.groups, *g)
	})
	return g, nil
}

func (s *GroupStore) Create(ctx context.Context, in domain.GroupInput) (*domain.Group, error) {
	if err := check(in); err != nil {
		return nil, s.reject(err, "create group")
	}
	s.begin()
	g, err := s.api.CreateGroup(ctx, in)
	if err != nil {
		return nil, s.finish(err, "create group", nil)
	}
	s.finish(nil, "create group", func() { s.groups = upsert(s.groups, *g) })
	return g, nil
}

func (s *GroupStore) Update(ctx context.Context, id string, in domain.GroupInput) (*domain.Group, error) {
	if err := check(in); err != nil {
		return nil, s.reject(err, "update group")
	}
	s.begin()
	g, err := s.api.UpdateGroup(ctx, id, in)
	if err != nil {
		return nil, s.finish(err, "update group", nil)
	}
	s.finish(nil, "update group", func() { s.store(*g) })
	return g, nil
}

func (s *GroupStore) Remove(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.DeleteGroup(ctx, id); err != nil {
		return s.finish(err, "delete group", nil)
	}
	return s.finish(nil, "delete group", func() {
		s.groups = without(s.groups, id)
		s.results = without(s.results, id)
		if s.current != nil && s.current.ID == id {
			s.current = nil
		}
	})
}

// Join adds the signed-in user. The outcome is returned as a Result so a
// screen can offer a login prompt without inspecting errors.
func (s *GroupStore) Join(ctx context.Context, id string) Result {
	if s.auth.CurrentUserID() == "" {
		return resultOf(s.reject(ErrNotSignedIn, "join group"))
	}
	s.begin()
	g, err := s.api.JoinGroup(ctx, id)
	if err != nil {
		return resultOf(s.finish(err, "join group", nil))
	}
	return resultOf(s.finish(nil, "join group", func() { s.storeOrAdd(*g) }))
}

// Leave removes the signed-in user.
func (s *GroupStore) Leave(ctx context.Context, id string) Result {
	if s.auth.CurrentUserID() == "" {
		return resultOf(s.reject(ErrNotSignedIn, "leave group"))
	}
	s.begin()
	g, err := s.api.LeaveGroup(ctx, id)
	if err != nil {
		return resultOf(s.finish(err, "leave group", nil))
	}
	return resultOf(s.finish(nil, "leave group", func() { s.storeOrAdd(*g) }))
}

func (s *GroupStore) storeOrAdd(g domain.Group) {
	s.groups = upsert(s.groups, g)
	if s.current != nil && s.current.ID == g.ID {
		s.current = ptr(g)
	}
}

// InviteMember adds userID to the member list. This reads the group and
// writes it back; a concurrent edit between the two calls is overwritten.
func (s *GroupStore) InviteMember(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	return s.InviteMembers(ctx, groupID, []string{userID})
}

// InviteMembers adds every id not already a member in one write.
func (s *GroupStore) InviteMembers(ctx context.Context, groupID string, userIDs []string) (*domain.Group, error) {
	s.begin()
	g, err := s.api.GetGroup(ctx, groupID)
	if err != nil {
		return nil, s.finish(err, "invite members", nil)
	}
	if !g.IsAdmin(s.auth.CurrentUserID()) {
		return nil, s.finish(ErrNotAuthorized, "invite members", nil)
	}
	in := domain.GroupInputFrom(*g)
	members := *in.Members
	for _, id := range userIDs {
		if !g.IsMember(id) && !contains(members, id) {
			members = append(members, id)
		}
	}
	in.Members = &members
	updated, err := s.api.UpdateGroup(ctx, groupID, in)
	if err != nil {
		return nil, s.finish(err, "invite members", nil)
	}
	s.finish(nil, "invite members", func() { s.storeOrAdd(*updated) })
	return updated, nil
}

// ToggleAdmin promotes a member to admin, or demotes an admin. Only the
// organizer may do this, and the organizer's own role never changes.
func (s *GroupStore) ToggleAdmin(ctx context.Context, groupID, userID string) (*domain.Group, error) {
	s.begin()
	g, err := s.api.GetGroup(ctx, groupID)
	if err != nil {
		return nil, s.finish(err, "change admins", nil)
	}
	if !g.IsOrganizer(s.auth.CurrentUserID()) {
		return nil, s.finish(ErrNotAuthorized, "change admins", nil)
	}
	if g.IsOrganizer(userID) {
		return nil, s.finish(ErrOrganizerNotRemovable, "change admins", nil)
	}
	if !g.IsMember(userID) {
		return nil, s.finish(fmt.Errorf("%w: %s is not a member", ErrValidation, userID), "change admins", nil)
	}
	in := domain.GroupInputFrom(*g)
	admins := *in.Admins
	if contains(admins, userID) {
		admins = remove(admins, userID)
	} else {
		admins = append(admins, userID)
	}
	in.Admins = &admins
	updated, err := s.api.UpdateGroup(ctx, groupID, in)
	if err != nil {
		return nil, s.finish(err, "change admins", nil)
	}
	s.finish(nil, "change admins", func() { s.storeOrAdd(*updated) })
	return updated, nil
}

// RemoveMember removes one member. The organizer is refused without a
// removal request; an uncached group is read first to find it.
func (s *GroupStore) RemoveMember(ctx context.Context, groupID, memberID string) (*domain.Group, error) {
	s.begin()
	organizer, err := s.organizerOf(ctx, groupID)
	if err != nil {
		return nil, s.finish(err, "remove member", nil)
	}
	if memberID == organizer {
		return nil, s.finish(ErrOrganizerNotRemovable, "remove member", nil)
	}
	g, err := s.api.RemoveMember(ctx, groupID, memberID)
	if err != nil {
		return nil, s.finish(err, "remove member", nil)
	}
	s.finish(nil, "remove member", func() { s.storeOrAdd(*g) })
	return g, nil
}

// RemoveMembers removes each id in turn. Every id is attempted; the
// organizer is skipped. Failures are combined into the returned error.
func (s *GroupStore) RemoveMembers(ctx context.Context, groupID string, memberIDs []string) (BatchResult, error) {
	var res BatchResult
	s.begin()
	organizer, err := s.organizerOf(ctx, groupID)
	if err != nil {
		return res, s.finish(err, "remove members", nil)
	}

	var errs error
	var last *domain.Group
	for _, id := range memberIDs {
		if id == organizer {
			res.Skipped = append(res.Skipped, id)
			continue
		}
		g, err := s.api.RemoveMember(ctx, groupID, id)
		if err != nil {
			res.Failed = append(res.Failed, id)
			errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", id, err))
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
		last = g
	}

	apply := func() {
		if last != nil {
			s.storeOrAdd(*last)
		}
	}
	if errs != nil {
		// Keep the successful removals visible even though the batch failed.
		s.mu.Lock()
		apply()
		s.mu.Unlock()
		return res, s.finish(errs, "remove members", nil)
	}
	return res, s.finish(nil, "remove members", apply)
}

// organizerOf reads the organizer from the cache, or from the server when
// the group is not cached.
func (s *GroupStore) organizerOf(ctx context.Context, groupID string) (string, error) {
	if g, ok := s.Group(groupID); ok {
		return g.Organizer.ID(), nil
	}
	g, err := s.api.GetGroup(ctx, groupID)
	if err != nil {
		return "", err
	}
	return g.Organizer.ID(), nil
}

// Members lists the group's members as full user records.
func (s *GroupStore) Members(ctx context.Context, groupID string) ([]domain.User, error) {
	s.begin()
	members, err := s.api.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, s.finish(err, "fetch members", nil)
	}
	s.finish(nil, "fetch members", nil)
	return members, nil
}

// Search replaces the search results.
func (s *GroupStore) Search(ctx context.Context, query string) ([]domain.Group, error) {
	s.begin()
	groups, err := s.api.SearchGroups(ctx, query)
	if err != nil {
		err = s.finish(err, "search groups", nil)
		return nil, err
	}
	s.finish(nil, "search groups", func() { s.results = groups })
	return groups, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
