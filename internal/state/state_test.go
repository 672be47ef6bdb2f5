package state_test

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"alcyxob/fitness-client/internal/app"
	"alcyxob/fitness-client/internal/config"
	"alcyxob/fitness-client/internal/domain"
	"alcyxob/fitness-client/internal/keystore"
	"alcyxob/fitness-client/internal/server"
	"alcyxob/fitness-client/internal/state"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// backend is the development server plus a request counter.
type backend struct {
	url      string
	requests atomic.Int64
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}
	router := server.New("test-secret", time.Hour).Router
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	b.url = srv.URL
	return b
}

// client builds a fresh app, one per simulated device.
func (b *backend) client(t *testing.T) *app.App {
	t.Helper()
	cfg := config.Config{API: config.APIConfig{BaseURL: b.url + "/api", Timeout: 5 * time.Second}}
	a, err := app.New(cfg, app.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// user signs up a new account on a fresh app.
func (b *backend) user(t *testing.T, name, email string) *app.App {
	t.Helper()
	a := b.client(t)
	if _, err := a.Auth.Signup(context.Background(), domain.Registration{Name: name, Email: email, Password: "secret123"}); err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return a
}

func countIDs[T domain.Entity](items []T, id string) int {
	n := 0
	for _, it := range items {
		if it.EntityID() == id {
			n++
		}
	}
	return n
}

func legDay() domain.WorkoutInput {
	return domain.WorkoutInput{
		Name:      "Leg Day",
		Duration:  45,
		Intensity: "Hard",
		Exercises: []domain.Exercise{domain.Named("Squats"), domain.Named("Lunges")},
	}
}

func TestLoginThenCurrentUser(t *testing.T) {
	b := newBackend(t)
	b.user(t, "Ann", "ann@example.com")

	a := b.client(t)
	ctx := context.Background()
	if _, err := a.Auth.Login(ctx, domain.Credentials{Email: "ann@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !a.Auth.IsAuthenticated() {
		t.Fatal("expected authenticated")
	}
	u, err := a.Auth.FetchCurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if u.Email != "ann@example.com" {
		t.Fatalf("expected ann@example.com, got %s", u.Email)
	}
	if snap := a.Auth.Snapshot(); snap.User == nil || snap.User.ID != u.ID || snap.Loading {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestLoginValidationSendsNothing(t *testing.T) {
	b := newBackend(t)
	a := b.client(t)
	_, err := a.Auth.Login(context.Background(), domain.Credentials{Email: "not-an-email", Password: "x"})
	if !errors.Is(err, state.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := b.requests.Load(); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
	if a.Auth.Status().Error == "" {
		t.Fatal("expected an error message")
	}
}

func TestGroupCreateAppearsOnceAndRemoveDrops(t *testing.T) {
	b := newBackend(t)
	a := b.user(t, "Org", "org@example.com")
	ctx := context.Background()

	g, err := a.Groups.Create(ctx, domain.GroupInput{Name: "Runners", Sport: "running"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n := countIDs(a.Groups.Snapshot().Groups, g.ID); n != 1 {
		t.Fatalf("expected id once after create, got %d", n)
	}

	first, err := a.Groups.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	second, err := a.Groups.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(first) != len(second) || countIDs(second, g.ID) != 1 {
		t.Fatalf("fetch all not idempotent: %d vs %d", len(first), len(second))
	}

	if err := a.Groups.Remove(ctx, g.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n := countIDs(a.Groups.Snapshot().Groups, g.ID); n != 0 {
		t.Fatalf("expected id gone after remove, got %d", n)
	}
}

func TestUnauthenticatedRequestsRequireAuth(t *testing.T) {
	b := newBackend(t)
	a := b.client(t)
	ctx := context.Background()

	_, err := a.Groups.FetchAll(ctx)
	if !errors.Is(err, state.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if got := a.Groups.Status().Error; got != "Authentication required. Please log in again." {
		t.Fatalf("unexpected message %q", got)
	}

	res := a.Groups.Join(ctx, "000000000000000000000000")
	if res.OK || !res.RequiresAuth {
		t.Fatalf("expected RequiresAuth, got %+v", res)
	}
}

func TestRejectedTokenRequiresAuth(t *testing.T) {
	b := newBackend(t)
	org := b.user(t, "Org", "org@example.com")
	member := b.user(t, "Mem", "mem@example.com")
	ctx := context.Background()

	g, err := org.Groups.Create(ctx, domain.GroupInput{Name: "Runners", Sport: "running"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The server stops accepting the member's token.
	if err := member.Store.Set(ctx, keystore.TokenKey, "garbage"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	res := member.Groups.Join(ctx, g.ID)
	if res.OK || !res.RequiresAuth || !state.RequiresAuth(res.Err) {
		t.Fatalf("expected RequiresAuth, got %+v", res)
	}
}

func TestJoinAndLeaveAdjustMemberCount(t *testing.T) {
	b := newBackend(t)
	org := b.user(t, "Org", "org@example.com")
	member := b.user(t, "Mem", "mem@example.com")
	ctx := context.Background()

	g, err := org.Groups.Create(ctx, domain.GroupInput{Name: "Runners", Sport: "running"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := member.Groups.FetchByID(ctx, g.ID); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	before := member.Groups.MemberCount(g.ID)
	if member.Groups.IsMember(g.ID) {
		t.Fatal("should not be a member yet")
	}

	if res := member.Groups.Join(ctx, g.ID); !res.OK {
		t.Fatalf("join: %+v", res)
	}
	if got := member.Groups.MemberCount(g.ID); got != before+1 {
		t.Fatalf("expected %d members after join, got %d", before+1, got)
	}
	if !member.Groups.IsMember(g.ID) || member.Groups.IsAdmin(g.ID) {
		t.Fatal("expected plain membership")
	}

	if res := member.Groups.Leave(ctx, g.ID); !res.OK {
		t.Fatalf("leave: %+v", res)
	}
	if got := member.Groups.MemberCount(g.ID); got != before {
		t.Fatalf("expected %d members after leave, got %d", before, got)
	}
}

func TestWorkoutRoundTrip(t *testing.T) {
	b := newBackend(t)
	a := b.user(t, "Ann", "ann@example.com")
	ctx := context.Background()

	w, err := a.Workouts.Create(ctx, legDay())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := a.Workouts.FetchByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Name != "Leg Day" || got.Intensity != "Hard" || len(got.Exercises) != 2 {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if !a.Workouts.CanEdit(*got) {
		t.Fatal("creator should be able to edit")
	}
	mine, err := a.Workouts.FetchMine(ctx)
	if err != nil || countIDs(mine, w.ID) != 1 {
		t.Fatalf("my workouts: %v", err)
	}
}

func TestWorkoutValidationSendsNothing(t *testing.T) {
	b := newBackend(t)
	a := b.user(t, "Ann", "ann@example.com")
	before := b.requests.Load()

	in := legDay()
	in.Duration = 0
	if _, err := a.Workouts.Create(context.Background(), in); !errors.Is(err, state.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if b.requests.Load() != before {
		t.Fatal("validation failure must not reach the server")
	}
}

func TestForeignWorkoutEditBlockedLocally(t *testing.T) {
	b := newBackend(t)
	owner := b.user(t, "Owner", "owner@example.com")
	other := b.user(t, "Other", "other@example.com")
	ctx := context.Background()

	w, err := owner.Workouts.Create(ctx, legDay())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := other.Workouts.FetchAll(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	before := b.requests.Load()
	in := legDay()
	in.Name = "Stolen"
	_, err = other.Workouts.Update(ctx, w.ID, in)
	if !errors.Is(err, state.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if err := other.Workouts.Remove(ctx, w.ID); !errors.Is(err, state.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized on remove, got %v", err)
	}
	if b.requests.Load() != before {
		t.Fatal("gate must refuse without a request")
	}
	st := other.Workouts.Status()
	if st.IsAuthorized || st.Error != "You don't have permission to delete workout" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestForeignWorkoutGateFetchesUncached(t *testing.T) {
	b := newBackend(t)
	owner := b.user(t, "Owner", "owner@example.com")
	other := b.user(t, "Other", "other@example.com")
	ctx := context.Background()

	w, err := owner.Workouts.Create(ctx, legDay())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := other.Workouts.Update(ctx, w.ID, legDay()); !errors.Is(err, state.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	got, err := owner.Workouts.FetchByID(ctx, w.ID)
	if err != nil || got.Name != "Leg Day" {
		t.Fatalf("workout should be unchanged: %+v (%v)", got, err)
	}
}

func TestRemoveMembersReportsPartialFailure(t *testing.T) {
	b := newBackend(t)
	org := b.user(t, "Org", "org@example.com")
	m1 := b.user(t, "M1", "m1@example.com")
	ctx := context.Background()

	g, err := org.Groups.Create(ctx, domain.GroupInput{Name: "Club", Sport: "cycling"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res := m1.Groups.Join(ctx, g.ID); !res.OK {
		t.Fatalf("join: %+v", res)
	}
	if _, err := org.Groups.FetchByID(ctx, g.ID); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	orgID := org.Auth.CurrentUserID()
	m1ID := m1.Auth.CurrentUserID()
	stranger := "000000000000000000000001"
	res, err := org.Groups.RemoveMembers(ctx, g.ID, []string{orgID, m1ID, stranger})
	if err == nil {
		t.Fatal("expected combined error")
	}
	if len(multierr.Errors(err)) != 1 {
		t.Fatalf("expected one failure, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != orgID {
		t.Fatalf("organizer should be skipped: %+v", res)
	}
	if len(res.Succeeded) != 1 || res.Succeeded[0] != m1ID {
		t.Fatalf("m1 should be removed: %+v", res)
	}
	if len(res.Failed) != 1 || res.Failed[0] != stranger {
		t.Fatalf("stranger should fail: %+v", res)
	}
	if org.Groups.MemberCount(g.ID) != 1 {
		t.Fatalf("successful removal should be cached, got %d members", org.Groups.MemberCount(g.ID))
	}
}

func TestOrganizerRemovalRefusedLocally(t *testing.T) {
	b := newBackend(t)
	org := b.user(t, "Org", "org@example.com")
	ctx := context.Background()

	g, err := org.Groups.Create(ctx, domain.GroupInput{Name: "Club", Sport: "cycling"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := b.requests.Load()
	_, err = org.Groups.RemoveMember(ctx, g.ID, org.Auth.CurrentUserID())
	if !errors.Is(err, state.ErrOrganizerNotRemovable) {
		t.Fatalf("expected ErrOrganizerNotRemovable, got %v", err)
	}
	if b.requests.Load() != before {
		t.Fatal("refusal must not reach the server")
	}
}

func TestInviteAndToggleAdmin(t *testing.T) {
	b := newBackend(t)
	org := b.user(t, "Org", "org@example.com")
	friend := b.user(t, "Friend", "friend@example.com")
	ctx := context.Background()
	friendID := friend.Auth.CurrentUserID()

	g, err := org.Groups.Create(ctx, domain.GroupInput{Name: "Club", Sport: "cycling"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	g, err = org.Groups.InviteMember(ctx, g.ID, friendID)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if !g.IsMember(friendID) {
		t.Fatal("friend should be a member")
	}

	g, err = org.Groups.ToggleAdmin(ctx, g.ID, friendID)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !g.IsAdmin(friendID) {
		t.Fatal("friend should be admin")
	}
	g, err = org.Groups.ToggleAdmin(ctx, g.ID, friendID)
	if err != nil {
		t.Fatalf("demote: %v", err)
	}
	if g.IsAdmin(friendID) {
		t.Fatal("friend should no longer be admin")
	}

	if _, err := friend.Groups.ToggleAdmin(ctx, g.ID, friendID); !errors.Is(err, state.ErrNotAuthorized) {
		t.Fatalf("non-organizer toggle: expected ErrNotAuthorized, got %v", err)
	}
}

func TestTrainerReviewHireAndContracts(t *testing.T) {
	b := newBackend(t)
	coach := b.user(t, "Coach", "coach@example.com")
	client := b.user(t, "Client", "client@example.com")
	ctx := context.Background()

	profile, err := coach.Trainers.BecomeTrainer(ctx, domain.TrainerInput{HourlyRate: 55, Specializations: []string{"strength"}})
	if err != nil {
		t.Fatalf("become: %v", err)
	}
	if res := coach.Trainers.SubmitReview(ctx, profile.ID, domain.ReviewInput{Rating: 5}); res.OK || !errors.Is(res.Err, state.ErrNotAuthorized) {
		t.Fatalf("self review should be refused: %+v", res)
	}

	if _, err := client.Trainers.FetchByID(ctx, profile.ID); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res := client.Trainers.SubmitReview(ctx, profile.ID, domain.ReviewInput{Rating: 4, Comment: "solid"}); !res.OK {
		t.Fatalf("review: %+v", res)
	}
	tr, _ := client.Trainers.Trainer(profile.ID)
	if tr.DisplayRating() != 4 || len(tr.Reviews) != 1 {
		t.Fatalf("expected rating 4 from one review, got %v / %d", tr.DisplayRating(), len(tr.Reviews))
	}
	if client.Trainers.CanEdit(tr) {
		t.Fatal("client must not edit the coach's profile")
	}

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	contract, res := client.Trainers.Hire(ctx, domain.HireInput{
		TrainerID: profile.ID, StartDate: start, EndDate: start.AddDate(0, 1, 0), TotalSessions: 6,
	})
	if !res.OK || contract.Status != domain.ContractPending || contract.HourlyRate != 55 {
		t.Fatalf("hire: %+v %+v", res, contract)
	}
	if !client.Trainers.HasActiveContracts() {
		t.Fatal("pending contract should be active")
	}

	if _, err := coach.Trainers.FetchTrainerContracts(ctx); err != nil {
		t.Fatalf("trainer contracts: %v", err)
	}
	if n := coach.Trainers.PendingContractCount(); n != 1 {
		t.Fatalf("expected 1 pending, got %d", n)
	}
	accepted, err := coach.Trainers.UpdateContractStatus(ctx, contract.ID, domain.ContractAccepted)
	if err != nil || accepted.Status != domain.ContractAccepted {
		t.Fatalf("accept: %+v (%v)", accepted, err)
	}
	if coach.Trainers.PendingContractCount() != 0 {
		t.Fatal("accepted contract should no longer be pending")
	}
	if _, err := coach.Trainers.UpdateContractStatus(ctx, contract.ID, "paused"); !errors.Is(err, state.ErrValidation) {
		t.Fatalf("unknown status: expected validation error, got %v", err)
	}

	w, err := coach.Workouts.Create(ctx, legDay())
	if err != nil {
		t.Fatalf("workout: %v", err)
	}
	batch, err := coach.Trainers.LinkWorkouts(ctx, contract.ID, []string{w.ID, "000000000000000000000002"})
	if err == nil || len(batch.Succeeded) != 1 || len(batch.Failed) != 1 {
		t.Fatalf("expected partial batch, got %+v (%v)", batch, err)
	}
}

func TestHireSelfRefusedLocally(t *testing.T) {
	b := newBackend(t)
	coach := b.user(t, "Coach", "coach@example.com")
	ctx := context.Background()

	profile, err := coach.Trainers.BecomeTrainer(ctx, domain.TrainerInput{HourlyRate: 55, Specializations: []string{"yoga"}})
	if err != nil {
		t.Fatalf("become: %v", err)
	}
	before := b.requests.Load()
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	_, res := coach.Trainers.Hire(ctx, domain.HireInput{TrainerID: profile.ID, StartDate: start, EndDate: start.AddDate(0, 0, 7), TotalSessions: 1})
	if res.OK || !errors.Is(res.Err, state.ErrNotAuthorized) {
		t.Fatalf("expected refusal, got %+v", res)
	}
	if b.requests.Load() != before {
		t.Fatal("refusal must not reach the server")
	}
}

func TestMyTrainerProfileNilForClients(t *testing.T) {
	b := newBackend(t)
	a := b.user(t, "Ann", "ann@example.com")
	p, err := a.Trainers.FetchMyProfile(context.Background())
	if err != nil || p != nil {
		t.Fatalf("expected nil profile, got %+v (%v)", p, err)
	}
}

func TestUpdateProfileSyncsSession(t *testing.T) {
	b := newBackend(t)
	a := b.user(t, "Ann", "ann@example.com")
	ctx := context.Background()

	name := "Annie"
	if _, err := a.Users.UpdateProfile(ctx, domain.UserInput{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if u, _ := a.Auth.CurrentUser(); u.Name != "Annie" {
		t.Fatalf("session user not updated: %+v", u)
	}
	stored, err := a.API.StoredUser(ctx)
	if err != nil || stored == nil || stored.Name != "Annie" {
		t.Fatalf("persisted user not updated: %+v (%v)", stored, err)
	}
}

func TestEditingAnotherUserIsForbidden(t *testing.T) {
	b := newBackend(t)
	ann := b.user(t, "Ann", "ann@example.com")
	bo := b.user(t, "Bo", "bo@example.com")
	ctx := context.Background()

	name := "Hijacked"
	_, err := bo.Users.Update(ctx, ann.Auth.CurrentUserID(), domain.UserInput{Name: &name})
	if !errors.Is(err, state.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	st := bo.Users.Status()
	if st.IsAuthorized || st.Error != "You don't have permission to update user" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestFailedFetchReturnsCachedList(t *testing.T) {
	b := newBackend(t)
	a := b.user(t, "Ann", "ann@example.com")
	ctx := context.Background()

	if _, err := a.Workouts.Create(ctx, legDay()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := a.Workouts.FetchAll(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if err := a.Store.Set(ctx, keystore.TokenKey, "garbage"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	cached, err := a.Workouts.FetchAll(ctx)
	if !errors.Is(err, state.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("expected cached list alongside error, got %d", len(cached))
	}
}

func TestSubscribersSeeLoadingTransitions(t *testing.T) {
	b := newBackend(t)
	a := b.user(t, "Ann", "ann@example.com")

	var calls atomic.Int32
	var sawLoading atomic.Bool
	unsubscribe := a.Groups.Subscribe(func() {
		calls.Add(1)
		if a.Groups.Status().Loading {
			sawLoading.Store(true)
		}
	})
	if _, err := a.Groups.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if calls.Load() < 2 || !sawLoading.Load() {
		t.Fatalf("expected begin and finish notifications, got %d", calls.Load())
	}
	if a.Groups.Status().Loading {
		t.Fatal("loading should be cleared")
	}

	unsubscribe()
	n := calls.Load()
	a.Groups.Reset()
	if calls.Load() != n {
		t.Fatal("unsubscribed callback still called")
	}
}

func TestRemoveMembersSkipsOrganizerOnFreshDevice(t *testing.T) {
	b := newBackend(t)
	org := b.user(t, "Org", "org@example.com")
	m1 := b.user(t, "M1", "m1@example.com")
	ctx := context.Background()

	g, err := org.Groups.Create(ctx, domain.GroupInput{Name: "Club", Sport: "cycling"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res := m1.Groups.Join(ctx, g.ID); !res.OK {
		t.Fatalf("join: %+v", res)
	}

	// Same organizer, second device, nothing cached.
	device := b.client(t)
	if _, err := device.Auth.Login(ctx, domain.Credentials{Email: "org@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	orgID := device.Auth.CurrentUserID()
	m1ID := m1.Auth.CurrentUserID()

	res, err := device.Groups.RemoveMembers(ctx, g.ID, []string{orgID, m1ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != orgID {
		t.Fatalf("organizer should be skipped: %+v", res)
	}
	if len(res.Succeeded) != 1 || res.Succeeded[0] != m1ID || len(res.Failed) != 0 {
		t.Fatalf("unexpected batch result: %+v", res)
	}
}

func TestRemoveOrganizerRefusedOnFreshDevice(t *testing.T) {
	b := newBackend(t)
	org := b.user(t, "Org", "org@example.com")
	ctx := context.Background()

	g, err := org.Groups.Create(ctx, domain.GroupInput{Name: "Club", Sport: "cycling"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	device := b.client(t)
	if _, err := device.Auth.Login(ctx, domain.Credentials{Email: "org@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	_, err = device.Groups.RemoveMember(ctx, g.ID, device.Auth.CurrentUserID())
	if !errors.Is(err, state.ErrOrganizerNotRemovable) {
		t.Fatalf("expected ErrOrganizerNotRemovable, got %v", err)
	}
}

func TestTransportFailureReportsGenericMessage(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	cfg := config.Config{API: config.APIConfig{BaseURL: dead.URL + "/api", Timeout: 2 * time.Second}}
	a, err := app.New(cfg, app.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	defer a.Close()

	_, err = a.Groups.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	if state.RequiresAuth(err) {
		t.Fatalf("transport failure must not ask for a login: %v", err)
	}
	st := a.Groups.Status()
	if st.Error != "Failed to fetch groups" {
		t.Fatalf("unexpected message %q", st.Error)
	}
	if !st.IsAuthorized || st.Loading {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestPermissionFlagSurvivesUnrelatedSuccess(t *testing.T) {
	b := newBackend(t)
	owner := b.user(t, "Owner", "owner@example.com")
	other := b.user(t, "Other", "other@example.com")
	ctx := context.Background()

	w, err := owner.Workouts.Create(ctx, legDay())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := other.Workouts.Remove(ctx, w.ID); !errors.Is(err, state.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if other.Workouts.Status().IsAuthorized {
		t.Fatal("expected IsAuthorized=false after refusal")
	}

	if _, err := other.Workouts.FetchAll(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	st := other.Workouts.Status()
	if st.IsAuthorized {
		t.Fatal("a list refresh must not clear the permission flag")
	}
	if st.Error != "" {
		t.Fatalf("error message should clear on success, got %q", st.Error)
	}

	other.Workouts.Reset()
	if !other.Workouts.Status().IsAuthorized {
		t.Fatal("reset should clear the permission flag")
	}
}

func TestPermissionFlagClearsWhenSameOperationSucceeds(t *testing.T) {
	b := newBackend(t)
	ann := b.user(t, "Ann", "ann@example.com")
	bo := b.user(t, "Bo", "bo@example.com")
	ctx := context.Background()

	name := "Hijacked"
	if _, err := bo.Users.Update(ctx, ann.Auth.CurrentUserID(), domain.UserInput{Name: &name}); !errors.Is(err, state.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	name = "Bobby"
	if _, err := bo.Users.Update(ctx, bo.Auth.CurrentUserID(), domain.UserInput{Name: &name}); err != nil {
		t.Fatalf("self update: %v", err)
	}
	if !bo.Users.Status().IsAuthorized {
		t.Fatal("a successful update should clear the flag set by a refused update")
	}
}
