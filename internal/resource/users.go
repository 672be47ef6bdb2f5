package resource

import (
	"context"
	"net/url"

	"alcyxob/fitness-client/internal/domain"
)

func (a *API) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := a.client.Get(ctx, "/users", nil, &users); err != nil {
		return nil, a.fail("list users", err)
	}
	return users, nil
}

func (a *API) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := a.client.Get(ctx, "/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, a.fail("get user", err)
	}
	return &u, nil
}

// GetCurrentUser resolves the account behind the bearer token.
func (a *API) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := a.client.Get(ctx, "/users/me", nil, &u); err != nil {
		return nil, a.fail("get current user", err)
	}
	return &u, nil
}

func (a *API) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	var u domain.User
	if err := a.client.Post(ctx, "/users", in, &u); err != nil {
		return nil, a.fail("create user", err)
	}
	return &u, nil
}

func (a *API) UpdateUser(ctx context.Context, id string, in domain.UserInput) (*domain.User, error) {
	var u domain.User
	if err := a.client.Patch(ctx, "/users/"+url.PathEscape(id), in, &u); err != nil {
		return nil, a.fail("update user", err)
	}
	return &u, nil
}

func (a *API) DeleteUser(ctx context.Context, id string) error {
	if err := a.client.Delete(ctx, "/users/"+url.PathEscape(id), nil); err != nil {
		return a.fail("delete user", err)
	}
	return nil
}
