package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"alcyxob/fitness-client/internal/domain"
	"alcyxob/fitness-client/internal/keystore"
)

// Signup registers an account and persists the returned session.
func (a *API) Signup(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	var session domain.Session
	if err := a.client.Post(ctx, "/auth/signup", reg, &session); err != nil {
		return nil, a.fail("signup", err)
	}
	if err := a.persistSession(ctx, &session); err != nil {
		return nil, a.fail("signup: persist session", err)
	}
	return &session, nil
}

// Login authenticates and persists the returned session.
func (a *API) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	var session domain.Session
	if err := a.client.Post(ctx, "/auth/login", creds, &session); err != nil {
		return nil, a.fail("login", err)
	}
	if err := a.persistSession(ctx, &session); err != nil {
		return nil, a.fail("login: persist session", err)
	}
	return &session, nil
}

// Logout forgets the persisted token and user. No request is sent.
func (a *API) Logout(ctx context.Context) error {
	err := errors.Join(
		a.store.Delete(ctx, keystore.TokenKey),
		a.store.Delete(ctx, keystore.UserKey),
	)
	if err != nil {
		return a.fail("logout", err)
	}
	return nil
}

// StoredToken returns the persisted token, or "" when signed out.
func (a *API) StoredToken(ctx context.Context) (string, error) {
	return keystore.TokenSource{Store: a.store}.Token(ctx)
}

// StoredUser returns the cached user record, or nil when none is saved.
func (a *API) StoredUser(ctx context.Context) (*domain.User, error) {
	raw, err := a.store.Get(ctx, keystore.UserKey)
	if errors.Is(err, keystore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	return &u, nil
}

// StoreUser replaces the cached user record.
func (a *API) StoreUser(ctx context.Context, u domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, keystore.UserKey, string(raw))
}

func (a *API) persistSession(ctx context.Context, s *domain.Session) error {
	if s.Token == "" {
		return errors.New("server returned no token")
	}
	if err := a.store.Set(ctx, keystore.TokenKey, s.Token); err != nil {
		return err
	}
	return a.StoreUser(ctx, s.User)
}
