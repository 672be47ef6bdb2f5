package resource

import (
	"context"
	"net/url"

	"alcyxob/fitness-client/internal/domain"
)

func groupPath(id string, rest ...string) string {
	p := "/groups/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func (a *API) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	if err := a.client.Get(ctx, "/groups", nil, &groups); err != nil {
		return nil, a.fail("list groups", err)
	}
	return groups, nil
}

// GetGroup returns the group with members and organizer expanded.
func (a *API) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	var g domain.Group
	if err := a.client.Get(ctx, groupPath(id), nil, &g); err != nil {
		return nil, a.fail("get group", err)
	}
	return &g, nil
}

func (a *API) CreateGroup(ctx context.Context, in domain.GroupInput) (*domain.Group, error) {
	var g domain.Group
	if err := a.client.Post(ctx, "/groups", in, &g); err != nil {
		return nil, a.fail("create group", err)
	}
	return &g, nil
}

// UpdateGroup replaces the editable fields; the backend uses PUT here.
func (a *API) UpdateGroup(ctx context.Context, id string, in domain.GroupInput) (*domain.Group, error) {
	var g domain.Group
	if err := a.client.Put(ctx, groupPath(id), in, &g); err != nil {
		return nil, a.fail("update group", err)
	}
	return &g, nil
}

func (a *API) DeleteGroup(ctx context.Context, id string) error {
	if err := a.client.Delete(ctx, groupPath(id), nil); err != nil {
		return a.fail("delete group", err)
	}
	return nil
}

// JoinGroup adds the caller to the group and returns the updated group.
func (a *API) JoinGroup(ctx context.Context, id string) (*domain.Group, error) {
	var g domain.Group
	if err := a.client.Post(ctx, groupPath(id, "join"), nil, &g); err != nil {
		return nil, a.fail("join group", err)
	}
	return &g, nil
}

// LeaveGroup removes the caller from the group.
func (a *API) LeaveGroup(ctx context.Context, id string) (*domain.Group, error) {
	var g domain.Group
	if err := a.client.Post(ctx, groupPath(id, "leave"), nil, &g); err != nil {
		return nil, a.fail("leave group", err)
	}
	return &g, nil
}

type removeMemberRequest struct {
	MemberID string `json:"memberId"`
}

// RemoveMember removes one member; organizers and admins only.
func (a *API) RemoveMember(ctx context.Context, groupID, memberID string) (*domain.Group, error) {
	var g domain.Group
	if err := a.client.Post(ctx, groupPath(groupID, "removeMember"), removeMemberRequest{MemberID: memberID}, &g); err != nil {
		return nil, a.fail("remove group member", err)
	}
	return &g, nil
}

func (a *API) GroupMembers(ctx context.Context, id string) ([]domain.User, error) {
	var members []domain.User
	if err := a.client.Get(ctx, groupPath(id, "members"), nil, &members); err != nil {
		return nil, a.fail("list group members", err)
	}
	return members, nil
}

func (a *API) SearchGroups(ctx context.Context, query string) ([]domain.Group, error) {
	var groups []domain.Group
	if err := a.client.Get(ctx, "/groups/search", url.Values{"query": {query}}, &groups); err != nil {
		return nil, a.fail("search groups", err)
	}
	return groups, nil
}
