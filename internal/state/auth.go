package state

import (
	"context"
	"time"

	"alcyxob/fitness-client/internal/apiclient"
	"alcyxob/fitness-client/internal/domain"
	"alcyxob/fitness-client/internal/resource"
)

// AuthStore owns the signed-in session.
type AuthStore struct {
	tracker
	api   *resource.API
	now   func() time.Time
	token string
	user  *domain.User
}

// AuthSnapshot is what subscribers render.
type AuthSnapshot struct {
	Status
	User            *domain.User
	IsAuthenticated bool
}

func NewAuthStore(api *resource.API) *AuthStore {
	s := &AuthStore{api: api, now: time.Now}
	s.tracker.init()
	return s
}

func (s *AuthStore) Snapshot() AuthSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := AuthSnapshot{Status: s.status, IsAuthenticated: s.token != ""}
	if s.user != nil {
		snap.User = ptr(*s.user)
	}
	return snap
}

// CurrentUser returns the signed-in user, if any.
func (s *AuthStore) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// CurrentUserID returns "" when signed out.
func (s *AuthStore) CurrentUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Signup registers and signs in.
func (s *AuthStore) Signup(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if err := check(reg); err != nil {
		return nil, s.reject(err, "sign up")
	}
	s.begin()
	session, err := s.api.Signup(ctx, reg)
	if err != nil {
		return nil, s.finish(err, "sign up", nil)
	}
	s.finish(nil, "sign up", func() { s.setSession(session) })
	return ptr(session.User), nil
}

// Login signs in with email and password. The token is persisted by the
// resource layer before this returns.
func (s *AuthStore) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if err := check(creds); err != nil {
		return nil, s.reject(err, "log in")
	}
	s.begin()
	session, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, s.finish(err, "log in", nil)
	}
	s.finish(nil, "log in", func() { s.setSession(session) })
	return ptr(session.User), nil
}

// Logout clears the persisted and in-memory session.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.begin()
	err := s.api.Logout(ctx)
	// The in-memory session goes even if storage could not be cleared.
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return s.finish(err, "log out", nil)
}

// Restore loads a persisted session. An expired or unreadable token is
// discarded and reported as not restored.
func (s *AuthStore) Restore(ctx context.Context) (bool, error) {
	token, err := s.api.StoredToken(ctx)
	if err != nil {
		return false, s.reject(err, "restore session")
	}
	if token == "" {
		return false, nil
	}
	claims, err := apiclient.ParseTokenClaims(token)
	if err != nil || claims.Expired(s.now()) {
		if lerr := s.Logout(ctx); lerr != nil {
			return false, lerr
		}
		return false, nil
	}
	user, err := s.api.StoredUser(ctx)
	if err != nil {
		return false, s.reject(err, "restore session")
	}
	s.update(func() {
		s.token = token
		s.user = user
		if s.user == nil {
			s.user = &domain.User{ID: claims.UserID}
		}
	})
	return true, nil
}

// FetchCurrentUser refreshes the signed-in user from the server and
// re-persists it.
func (s *AuthStore) FetchCurrentUser(ctx context.Context) (*domain.User, error) {
	s.begin()
	user, err := s.api.GetCurrentUser(ctx)
	if err == nil {
		err = s.api.StoreUser(ctx, *user)
	}
	if err != nil {
		return nil, s.finish(err, "load your profile", nil)
	}
	s.finish(nil, "load your profile", func() { s.user = ptr(*user) })
	return user, nil
}

// replaceUser is used by UserStore after the current user edits their
// profile.
func (s *AuthStore) replaceUser(u domain.User) {
	s.update(func() { s.user = &u })
}

func (s *AuthStore) setSession(session *domain.Session) {
	s.token = session.Token
	s.user = ptr(session.User)
}
