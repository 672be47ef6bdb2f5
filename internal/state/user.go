package state

import (
	"context"

	"alcyxob/fitness-client/internal/domain"
	"alcyxob/fitness-client/internal/resource"
)

// UserStore caches user records looked up by screens (member lists,
// review authors) and edits the current user's profile.
type UserStore struct {
	tracker
	api   *resource.API
	auth  *AuthStore
	users []domain.User
}

type UserSnapshot struct {
	Status
	Users []domain.User
}

func NewUserStore(api *resource.API, auth *AuthStore) *UserStore {
	s := &UserStore{api: api, auth: auth}
	s.tracker.init()
	return s
}

func (s *UserStore) Snapshot() UserSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return UserSnapshot{Status: s.status, Users: append([]domain.User(nil), s.users...)}
}

// Reset discards the cache.
func (s *UserStore) Reset() {
	s.update(func() {
		s.users = nil
		s.clearStatus()
	})
}

// Lookup returns a cached user without a request.
func (s *UserStore) Lookup(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.users, id)
}

// FetchAll replaces the cache. On failure the previous cache is returned
// alongside the error.
func (s *UserStore) FetchAll(ctx context.Context) ([]domain.User, error) {
	s.begin()
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		err = s.finish(err, "fetch users", nil)
		return s.Snapshot().Users, err
	}
	s.finish(nil, "fetch users", func() { s.users = users })
	return users, nil
}

func (s *UserStore) FetchByID(ctx context.Context, id string) (*domain.User, error) {
	s.begin()
	u, err := s.api.GetUser(ctx, id)
	if err != nil {
		return nil, s.finish(err, "fetch user", nil)
	}
	s.finish(nil, "fetch user", func() { s.users = upsert(s.users, *u) })
	return u, nil
}

func (s *UserStore) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	if err := check(in); err != nil {
		return nil, s.reject(err, "create user")
	}
	s.begin()
	u, err := s.api.CreateUser(ctx, in)
	if err != nil {
		return nil, s.finish(err, "create user", nil)
	}
	s.finish(nil, "create user", func() { s.users = upsert(s.users, *u) })
	return u, nil
}

func (s *UserStore) Update(ctx context.Context, id string, in domain.UserInput) (*domain.User, error) {
	if err := check(in); err != nil {
		return nil, s.reject(err, "update user")
	}
	s.begin()
	u, err := s.api.UpdateUser(ctx, id, in)
	if err != nil {
		return nil, s.finish(err, "update user", nil)
	}
	s.finish(nil, "update user", func() { s.users = replaceExisting(s.users, *u) })
	if u.ID == s.auth.CurrentUserID() {
		s.auth.replaceUser(*u)
	}
	return u, nil
}

func (s *UserStore) Remove(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return s.finish(err, "delete user", nil)
	}
	return s.finish(nil, "delete user", func() { s.users = without(s.users, id) })
}

// UpdateProfile edits the signed-in user and refreshes the persisted copy
// so a later Restore sees the new values.
func (s *UserStore) UpdateProfile(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	id := s.auth.CurrentUserID()
	if id == "" {
		return nil, s.reject(ErrNotSignedIn, "update your profile")
	}
	u, err := s.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if err := s.api.StoreUser(ctx, *u); err != nil {
		return u, s.reject(err, "save your profile")
	}
	return u, nil
}
