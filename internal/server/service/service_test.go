package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/fitness-client/internal/server/model"
	"alcyxob/fitness-client/internal/server/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	store     *repository.Memory
	auth      AuthService
	groups    GroupService
	trainers  TrainerService
	contracts ContractService
	workouts  WorkoutService
}

func newFixture() fixture {
	store := repository.NewMemory()
	return fixture{
		store:     store,
		auth:      NewAuthService(store.Users(), "test-secret", time.Hour),
		groups:    NewGroupService(store.Groups(), store.Users()),
		trainers:  NewTrainerService(store.Trainers(), store.Users(), store.Workouts()),
		contracts: NewContractService(store.Contracts(), store.Trainers(), store.Workouts()),
		workouts:  NewWorkoutService(store.Workouts()),
	}
}

func (f fixture) user(t *testing.T, email string) primitive.ObjectID {
	t.Helper()
	u, err := f.auth.Register(context.Background(), Registration{Name: email, Email: email, Password: "secret123"})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u.ID
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.user(t, "Ann@Example.com")

	if _, err := f.auth.Register(ctx, Registration{Name: "x", Email: "ann@example.com", Password: "secret123"}); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, _, err := f.auth.Login(ctx, "ann@example.com", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected auth failure, got %v", err)
	}

	token, user, err := f.auth.Login(ctx, "ann@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked")
	}
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID.Hex() || claims.Issuer != Issuer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestGroupOrganizerRules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	org := f.user(t, "org@example.com")
	member := f.user(t, "member@example.com")

	g, err := f.groups.Create(ctx, org, GroupInput{Name: "Runners", Sport: "running"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !g.HasMember(org) {
		t.Fatal("organizer must be a member")
	}

	for i := 0; i < 2; i++ {
		if g, err = f.groups.Join(ctx, member, g.ID); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	if len(g.Members) != 2 {
		t.Fatalf("join should be idempotent, got %d members", len(g.Members))
	}

	if _, err := f.groups.Leave(ctx, org, g.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("organizer leave: expected invalid input, got %v", err)
	}
	if _, err := f.groups.RemoveMember(ctx, org, g.ID, org); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("remove organizer: expected invalid input, got %v", err)
	}
	if _, err := f.groups.RemoveMember(ctx, member, g.ID, org); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin remove: expected forbidden, got %v", err)
	}

	members := []primitive.ObjectID{member}
	g, err = f.groups.Update(ctx, org, g.ID, GroupInput{Name: "Runners", Sport: "running", Members: &members})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !g.HasMember(org) || !g.HasMember(member) {
		t.Fatalf("organizer dropped from members: %v", g.Members)
	}

	if g, err = f.groups.Leave(ctx, member, g.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if len(g.Members) != 1 {
		t.Fatalf("expected 1 member after leave, got %d", len(g.Members))
	}
}

func TestGroupCapacity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	org := f.user(t, "org@example.com")
	a := f.user(t, "a@example.com")
	b := f.user(t, "b@example.com")

	g, err := f.groups.Create(ctx, org, GroupInput{Name: "Duo", Sport: "tennis", MaxMembers: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.groups.Join(ctx, a, g.ID); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if _, err := f.groups.Join(ctx, b, g.ID); !errors.Is(err, ErrGroupFull) {
		t.Fatalf("expected group full, got %v", err)
	}
}

func TestGroupAdminsOnlyChangedByOrganizer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	org := f.user(t, "org@example.com")
	adm := f.user(t, "adm@example.com")
	other := f.user(t, "other@example.com")

	members := []primitive.ObjectID{adm, other}
	admins := []primitive.ObjectID{adm}
	g, err := f.groups.Create(ctx, org, GroupInput{Name: "Club", Sport: "cycling", Members: &members, Admins: &admins})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	promote := []primitive.ObjectID{adm, other}
	if _, err := f.groups.Update(ctx, adm, g.ID, GroupInput{Name: "Club", Sport: "cycling", Admins: &promote}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.groups.Update(ctx, adm, g.ID, GroupInput{Name: "Club 2", Sport: "cycling", Admins: &admins}); err != nil {
		t.Fatalf("admin edit: %v", err)
	}
	if _, err := f.groups.Update(ctx, other, g.ID, GroupInput{Name: "Mine", Sport: "cycling"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member edit: expected forbidden, got %v", err)
	}
}

func TestTrainerReviewsAndAverage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	coach := f.user(t, "coach@example.com")
	c1 := f.user(t, "c1@example.com")
	c2 := f.user(t, "c2@example.com")

	tr, err := f.trainers.Become(ctx, coach, TrainerInput{HourlyRate: 50, Specializations: []string{"yoga"}})
	if err != nil {
		t.Fatalf("become: %v", err)
	}
	if u, _ := f.store.Users().GetByID(ctx, coach); !u.IsTrainer {
		t.Fatal("become should flag the user")
	}
	if _, err := f.trainers.Become(ctx, coach, TrainerInput{HourlyRate: 50, Specializations: []string{"yoga"}}); !errors.Is(err, ErrAlreadyTrainer) {
		t.Fatalf("expected already trainer, got %v", err)
	}

	if _, err := f.trainers.AddReview(ctx, coach, tr.ID, ReviewInput{Rating: 5}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self review: expected invalid input, got %v", err)
	}
	if _, err := f.trainers.AddReview(ctx, c1, tr.ID, ReviewInput{Rating: 5}); err != nil {
		t.Fatalf("review: %v", err)
	}
	tr, err = f.trainers.AddReview(ctx, c2, tr.ID, ReviewInput{Rating: 4})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if tr.AverageRating != 4.5 {
		t.Fatalf("expected 4.5, got %v", tr.AverageRating)
	}
	// A second review from the same user replaces the first.
	tr, err = f.trainers.AddReview(ctx, c2, tr.ID, ReviewInput{Rating: 2})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(tr.Reviews) != 2 || tr.AverageRating != 3.5 {
		t.Fatalf("expected 2 reviews averaging 3.5, got %d / %v", len(tr.Reviews), tr.AverageRating)
	}

	yoga, _ := f.trainers.List(ctx, "yoga")
	boxing, _ := f.trainers.List(ctx, "boxing")
	if len(yoga) != 1 || len(boxing) != 0 {
		t.Fatalf("specialization filter: %d / %d", len(yoga), len(boxing))
	}
}

func TestContractTransitions(t *testing.T) {
	cases := []struct {
		from, to model.ContractStatus
		ok       bool
	}{
		{model.ContractPending, model.ContractAccepted, true},
		{model.ContractPending, model.ContractRejected, true},
		{model.ContractPending, model.ContractCanceled, true},
		{model.ContractPending, model.ContractCompleted, false},
		{model.ContractAccepted, model.ContractCompleted, true},
		{model.ContractAccepted, model.ContractRejected, false},
		{model.ContractCompleted, model.ContractCanceled, false},
		{model.ContractRejected, model.ContractAccepted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestHireAndContractLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	coach := f.user(t, "coach@example.com")
	client := f.user(t, "client@example.com")
	tr, err := f.trainers.Become(ctx, coach, TrainerInput{HourlyRate: 60, Specializations: []string{"strength"}})
	if err != nil {
		t.Fatalf("become: %v", err)
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	in := HireInput{TrainerID: tr.ID, StartDate: start, EndDate: start.AddDate(0, 1, 0), TotalSessions: 8}
	if _, err := f.contracts.Hire(ctx, coach, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self hire: expected invalid input, got %v", err)
	}
	c, err := f.contracts.Hire(ctx, client, in)
	if err != nil {
		t.Fatalf("hire: %v", err)
	}
	if c.Status != model.ContractPending || c.HourlyRate != 60 {
		t.Fatalf("unexpected contract %+v", c)
	}

	if _, err := f.contracts.UpdateStatus(ctx, client, c.ID, model.ContractAccepted); !errors.Is(err, ErrForbidden) {
		t.Fatalf("client accept: expected forbidden, got %v", err)
	}
	if c, err = f.contracts.UpdateStatus(ctx, coach, c.ID, model.ContractAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.contracts.UpdateStatus(ctx, coach, c.ID, model.ContractRejected); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if c, err = f.contracts.UpdateStatus(ctx, coach, c.ID, model.ContractCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if c.CompletedSessions != 8 {
		t.Fatalf("expected sessions completed, got %d", c.CompletedSessions)
	}

	mine, _ := f.contracts.TrainerContracts(ctx, coach)
	none, _ := f.contracts.TrainerContracts(ctx, client)
	if len(mine) != 1 || len(none) != 0 {
		t.Fatalf("trainer contracts: %d / %d", len(mine), len(none))
	}
}

func TestWorkoutCreatorOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")

	in := WorkoutInput{Title: "Leg Day", Duration: 45, DifficultyLevel: "Hard"}
	w, err := f.workouts.Create(ctx, owner, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.workouts.Update(ctx, other, w.ID, in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := f.workouts.Delete(ctx, other, w.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.workouts.Create(ctx, owner, WorkoutInput{Title: "x", Duration: 10, DifficultyLevel: "Extreme"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if err := f.workouts.Delete(ctx, owner, w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.workouts.Get(ctx, w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
