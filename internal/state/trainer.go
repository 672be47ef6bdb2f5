package state

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"alcyxob/fitness-client/internal/domain"
	"alcyxob/fitness-client/internal/resource"
)

// TrainerStore owns trainer profiles and the signed-in user's training
// contracts, both as client and as trainer.
type TrainerStore struct {
	tracker
	api              *resource.API
	auth             *AuthStore
	trainers         []domain.Trainer
	current          *domain.Trainer
	myProfile        *domain.Trainer
	clientContracts  []domain.Contract
	trainerContracts []domain.Contract
}

type TrainerSnapshot struct {
	Status
	Trainers         []domain.Trainer
	Current          *domain.Trainer
	MyProfile        *domain.Trainer
	ClientContracts  []domain.Contract
	TrainerContracts []domain.Contract
}

func NewTrainerStore(api *resource.API, auth *AuthStore) *TrainerStore {
	s := &TrainerStore{api: api, auth: auth}
	s.tracker.init()
	return s
}

func (s *TrainerStore) Snapshot() TrainerSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := TrainerSnapshot{
		Status:           s.status,
		Trainers:         append([]domain.Trainer(nil), s.trainers...),
		ClientContracts:  append([]domain.Contract(nil), s.clientContracts...),
		TrainerContracts: append([]domain.Contract(nil), s.trainerContracts...),
	}
	if s.current != nil {
		snap.Current = ptr(*s.current)
	}
	if s.myProfile != nil {
		snap.MyProfile = ptr(*s.myProfile)
	}
	return snap
}

func (s *TrainerStore) Reset() {
	s.update(func() {
		s.trainers = nil
		s.current = nil
		s.myProfile = nil
		s.clientContracts = nil
		s.trainerContracts = nil
		s.clearStatus()
	})
}

// Trainer returns a cached profile without a request.
func (s *TrainerStore) Trainer(id string) (domain.Trainer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range []*domain.Trainer{s.current, s.myProfile} {
		if t != nil && t.ID == id {
			return *t, true
		}
	}
	return find(s.trainers, id)
}

// CanEdit is the advisory gate for profile edits: owners only.
func (s *TrainerStore) CanEdit(t domain.Trainer) bool {
	uid := s.auth.CurrentUserID()
	return uid != "" && t.OwnedBy(uid)
}

// HasActiveContracts is true when any contract of the signed-in user, on
// either side, is pending or accepted.
func (s *TrainerStore) HasActiveContracts() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range [][]domain.Contract{s.clientContracts, s.trainerContracts} {
		for _, c := range list {
			if c.IsActive() {
				return true
			}
		}
	}
	return false
}

// PendingContractCount counts hire requests awaiting the trainer's answer.
func (s *TrainerStore) PendingContractCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.trainerContracts {
		if c.Status == domain.ContractPending {
			n++
		}
	}
	return n
}

// store patches every cached copy of t.
func (s *TrainerStore) store(t domain.Trainer) {
	s.trainers = replaceExisting(s.trainers, t)
	if s.current != nil && s.current.ID == t.ID {
		s.current = ptr(t)
	}
	if s.myProfile != nil && s.myProfile.ID == t.ID {
		s.myProfile = ptr(t)
	}
}

// FetchAll lists profiles, optionally filtered by specialization.
func (s *TrainerStore) FetchAll(ctx context.Context, specialization string) ([]domain.Trainer, error) {
	s.begin()
	ts, err := s.api.ListTrainers(ctx, specialization)
	if err != nil {
		err = s.finish(err, "fetch trainers", nil)
		return s.Snapshot().Trainers, err
	}
	s.finish(nil, "fetch trainers", func() { s.trainers = ts })
	return ts, nil
}

func (s *TrainerStore) FetchByID(ctx context.Context, id string) (*domain.Trainer, error) {
	s.begin()
	t, err := s.api.GetTrainer(ctx, id)
	if err != nil {
		return nil, s.finish(err, "fetch trainer", nil)
	}
	s.finish(nil, "fetch trainer", func() {
		s.current = ptr(*t)
		s.store(*t)
	})
	return t, nil
}

// FetchByUser returns (nil, nil) when userID has no trainer profile.
func (s *TrainerStore) FetchByUser(ctx context.Context, userID string) (*domain.Trainer, error) {
	s.begin()
	t, err := s.api.TrainerByUser(ctx, userID)
	if err != nil {
		return nil, s.finish(err, "fetch trainer", nil)
	}
	s.finish(nil, "fetch trainer", func() {
		if t != nil {
			s.current = ptr(*t)
			s.store(*t)
		}
	})
	return t, nil
}

// FetchMyProfile returns (nil, nil) when the signed-in user is not a trainer.
func (s *TrainerStore) FetchMyProfile(ctx context.Context) (*domain.Trainer, error) {
	s.begin()
	t, err := s.api.MyTrainerProfile(ctx)
	if err != nil {
		return nil, s.finish(err, "fetch your trainer profile", nil)
	}
	s.finish(nil, "fetch your trainer profile", func() {
		if t == nil {
			s.myProfile = nil
			return
		}
		s.myProfile = ptr(*t)
		s.store(*t)
	})
	return t, nil
}

// BecomeTrainer creates a trainer profile for the signed-in user.
func (s *TrainerStore) BecomeTrainer(ctx context.Context, in domain.TrainerInput) (*domain.Trainer, error) {
	if err := check(in); err != nil {
		return nil, s.reject(err, "create trainer profile")
	}
	if s.auth.CurrentUserID() == "" {
		return nil, s.reject(ErrNotSignedIn, "create trainer profile")
	}
	s.begin()
	t, err := s.api.BecomeTrainer(ctx, in)
	if err != nil {
		return nil, s.finish(err, "create trainer profile", nil)
	}
	s.finish(nil, "create trainer profile", func() {
		s.myProfile = ptr(*t)
		s.trainers = upsert(s.trainers, *t)
	})
	return t, nil
}

// Update edits a profile; refused without a request for non-owners.
func (s *TrainerStore) Update(ctx context.Context, id string, in domain.TrainerInput) (*domain.Trainer, error) {
	if err := check(in); err != nil {
		return nil, s.reject(err, "update trainer profile")
	}
	if err := s.gate(ctx, id, "update trainer profile"); err != nil {
		return nil, err
	}
	s.begin()
	t, err := s.api.UpdateTrainer(ctx, id, in)
	if err != nil {
		return nil, s.finish(err, "update trainer profile", nil)
	}
	s.finish(nil, "update trainer profile", func() { s.store(*t) })
	return t, nil
}

func (s *TrainerStore) Remove(ctx context.Context, id string) error {
	if err := s.gate(ctx, id, "delete trainer profile"); err != nil {
		return err
	}
	s.begin()
	if err := s.api.DeleteTrainer(ctx, id); err != nil {
		return s.finish(err, "delete trainer profile", nil)
	}
	return s.finish(nil, "delete trainer profile", func() {
		s.trainers = without(s.trainers, id)
		if s.current != nil && s.current.ID == id {
			s.current = nil
		}
		if s.myProfile != nil && s.myProfile.ID == id {
			s.myProfile = nil
		}
	})
}

func (s *TrainerStore) gate(ctx context.Context, id, verb string) error {
	t, ok := s.Trainer(id)
	if !ok {
		fetched, err := s.FetchByID(ctx, id)
		if err != nil {
			return err
		}
		t = *fetched
	}
	if !s.CanEdit(t) {
		return s.reject(ErrNotAuthorized, verb)
	}
	return nil
}

// SubmitReview posts a review. Trainers cannot review their own profile.
// The server recomputes the average rating; the returned profile replaces
// the cached one.
func (s *TrainerStore) SubmitReview(ctx context.Context, trainerID string, in domain.ReviewInput) Result {
	if err := check(in); err != nil {
		return resultOf(s.reject(err, "submit review"))
	}
	uid := s.auth.CurrentUserID()
	if uid == "" {
		return resultOf(s.reject(ErrNotSignedIn, "submit review"))
	}
	if t, ok := s.Trainer(trainerID); ok && t.OwnedBy(uid) {
		return resultOf(s.reject(ErrNotAuthorized, "review your own profile"))
	}
	s.begin()
	t, err := s.api.AddReview(ctx, trainerID, in)
	if err != nil {
		return resultOf(s.finish(err, "submit review", nil))
	}
	return resultOf(s.finish(nil, "submit review", func() { s.store(*t) }))
}

// AddWorkout links one of the trainer's workouts to their profile.
func (s *TrainerStore) AddWorkout(ctx context.Context, trainerID, workoutID string) (*domain.Trainer, error) {
	if err := s.gate(ctx, trainerID, "add workout"); err != nil {
		return nil, err
	}
	s.begin()
	t, err := s.api.AddTrainerWorkout(ctx, trainerID, workoutID)
	if err != nil {
		return nil, s.finish(err, "add workout", nil)
	}
	s.finish(nil, "add workout", func() { s.store(*t) })
	return t, nil
}

// Hire opens a pending contract with a trainer.
func (s *TrainerStore) Hire(ctx context.Context, in domain.HireInput) (*domain.Contract, Result) {
	if err := check(in); err != nil {
		return nil, resultOf(s.reject(err, "hire trainer"))
	}
	uid := s.auth.CurrentUserID()
	if uid == "" {
		return nil, resultOf(s.reject(ErrNotSignedIn, "hire trainer"))
	}
	if t, ok := s.Trainer(in.TrainerID); ok && t.OwnedBy(uid) {
		return nil, resultOf(s.reject(ErrNotAuthorized, "hire yourself"))
	}
	s.begin()
	c, err := s.api.HireTrainer(ctx, in)
	if err != nil {
		return nil, resultOf(s.finish(err, "hire trainer", nil))
	}
	return c, resultOf(s.finish(nil, "hire trainer", func() {
		s.clientContracts = upsert(s.clientContracts, *c)
	}))
}

func (s *TrainerStore) FetchClientContracts(ctx context.Context) ([]domain.Contract, error) {
	s.begin()
	cs, err := s.api.ClientContracts(ctx)
	if err != nil {
		err = s.finish(err, "fetch contracts", nil)
		return s.Snapshot().ClientContracts, err
	}
	s.finish(nil, "fetch contracts", func() { s.clientContracts = cs })
	return cs, nil
}

func (s *TrainerStore) FetchTrainerContracts(ctx context.Context) ([]domain.Contract, error) {
	s.begin()
	cs, err := s.api.TrainerContracts(ctx)
	if err != nil {
		err = s.finish(err, "fetch contracts", nil)
		return s.Snapshot().TrainerContracts, err
	}
	s.finish(nil, "fetch contracts", func() { s.trainerContracts = cs })
	return cs, nil
}

func (s *TrainerStore) storeContract(c domain.Contract) {
	s.clientContracts = replaceExisting(s.clientContracts, c)
	s.trainerContracts = replaceExisting(s.trainerContracts, c)
}

// UpdateContractStatus requests a transition and stores whatever the
// server answers. The client does not check the transition itself.
func (s *TrainerStore) UpdateContractStatus(ctx context.Context, id string, status domain.ContractStatus) (*domain.Contract, error) {
	if !status.Valid() {
		return nil, s.reject(fmt.Errorf("%w: unknown contract status %q", ErrValidation, status), "update contract")
	}
	s.begin()
	c, err := s.api.UpdateContractStatus(ctx, id, status)
	if err != nil {
		return nil, s.finish(err, "update contract", nil)
	}
	s.finish(nil, "update contract", func() { s.storeContract(*c) })
	return c, nil
}

// LinkWorkouts attaches each workout to a contract. Every id is attempted;
// failures are combined into the returned error and the cache keeps the
// last successful server reply.
func (s *TrainerStore) LinkWorkouts(ctx context.Context, contractID string, workoutIDs []string) (BatchResult, error) {
	var res BatchResult
	var errs error
	var last *domain.Contract

	s.begin()
	for _, wid := range workoutIDs {
		c, err := s.api.AddContractWorkout(ctx, contractID, wid)
		if err != nil {
			res.Failed = append(res.Failed, wid)
			errs = multierr.Append(errs, fmt.Errorf("link %s: %w", wid, err))
			continue
		}
		res.Succeeded = append(res.Succeeded, wid)
		last = c
	}

	apply := func() {
		if last != nil {
			s.storeContract(*last)
		}
	}
	if errs != nil {
		s.mu.Lock()
		apply()
		s.mu.Unlock()
		return res, s.finish(errs, "link workouts", nil)
	}
	return res, s.finish(nil, "link workouts", apply)
}
