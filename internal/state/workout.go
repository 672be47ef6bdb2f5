package state

import (
	"context"

	"alcyxob/fitness-client/internal/domain"
	"alcyxob/fitness-client/internal/resource"
)

// WorkoutStore owns the workout catalogue and the signed-in user's own
// workouts.
type WorkoutStore struct {
	tracker
	api      *resource.API
	auth     *AuthStore
	workouts []domain.Workout
	mine     []domain.Workout
	current  *domain.Workout
}

type WorkoutSnapshot struct {
	Status
	Workouts   []domain.Workout
	MyWorkouts []domain.Workout
	Current    *domain.Workout
}

func NewWorkoutStore(api *resource.API, auth *AuthStore) *WorkoutStore {
	s := &WorkoutStore{api: api, auth: auth}
	s.tracker.init()
	return s
}

func (s *WorkoutStore) Snapshot() WorkoutSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := WorkoutSnapshot{
		Status:     s.status,
		Workouts:   append([]domain.Workout(nil), s.workouts...),
		MyWorkouts: append([]domain.Workout(nil), s.mine...),
	}
	if s.current != nil {
		snap.Current = ptr(*s.current)
	}
	return snap
}

func (s *WorkoutStore) Reset() {
	s.update(func() {
		s.workouts = nil
		s.mine = nil
		s.current = nil
		s.clearStatus()
	})
}

// Workout returns a cached workout without a request.
func (s *WorkoutStore) Workout(id string) (domain.Workout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current != nil && s.current.ID == id {
		return *s.current, true
	}
	if w, ok := find(s.workouts, id); ok {
		return w, true
	}
	return find(s.mine, id)
}

// CanEdit is the advisory edit gate: only the creator edits a workout.
func (s *WorkoutStore) CanEdit(w domain.Workout) bool {
	uid := s.auth.CurrentUserID()
	return uid != "" && w.CreatedBy(uid)
}

func (s *WorkoutStore) FetchAll(ctx context.Context) ([]domain.Workout, error) {
	s.begin()
	ws, err := s.api.ListWorkouts(ctx)
	if err != nil {
		err = s.finish(err, "fetch workouts", nil)
		return s.Snapshot().Workouts, err
	}
	s.finish(nil, "fetch workouts", func() { s.workouts = ws })
	return ws, nil
}

// FetchMine loads the workouts created by the signed-in user.
func (s *WorkoutStore) FetchMine(ctx context.Context) ([]domain.Workout, error) {
	s.begin()
	ws, err := s.api.MyWorkouts(ctx)
	if err != nil {
		err = s.finish(err, "fetch your workouts", nil)
		return s.Snapshot().MyWorkouts, err
	}
	s.finish(nil, "fetch your workouts", func() { s.mine = ws })
	return ws, nil
}

func (s *WorkoutStore) FetchByID(ctx context.Context, id string) (*domain.Workout, error) {
	s.begin()
	w, err := s.api.GetWorkout(ctx, id)
	if err != nil {
		return nil, s.finish(err, "fetch workout", nil)
	}
	s.finish(nil, "fetch workout", func() {
		s.current = ptr(*w)
		s.store(*w)
	})
	return w, nil
}

func (s *WorkoutStore) store(w domain.Workout) {
	s.workouts = replaceExisting(s.workouts, w)
	s.mine = replaceExisting(s.mine, w)
	if s.current != nil && s.current.ID == w.ID {
		s.current = ptr(w)
	}
}

func (s *WorkoutStore) Create(ctx context.Context, in domain.WorkoutInput) (*domain.Workout, error) {
	if err := check(in); err != nil {
		return nil, s.reject(err, "create workout")
	}
	s.begin()
	w, err := s.api.CreateWorkout(ctx, in)
	if err != nil {
		return nil, s.finish(err, "create workout", nil)
	}
	s.finish(nil, "create workout", func() {
		s.workouts = upsert(s.workouts, *w)
		s.mine = upsert(s.mine, *w)
	})
	return w, nil
}

// Update is refused without a request when the signed-in user did not
// create the workout. An uncached workout is fetched first so the gate has
// something to check.
func (s *WorkoutStore) Update(ctx context.Context, id string, in domain.WorkoutInput) (*domain.Workout, error) {
	if err := check(in); err != nil {
		return nil, s.reject(err, "update workout")
	}
	if err := s.gate(ctx, id, "update workout"); err != nil {
		return nil, err
	}
	s.begin()
	w, err := s.api.UpdateWorkout(ctx, id, in)
	if err != nil {
		return nil, s.finish(err, "update workout", nil)
	}
	s.finish(nil, "update workout", func() { s.store(*w) })
	return w, nil
}

func (s *WorkoutStore) Remove(ctx context.Context, id string) error {
	if err := s.gate(ctx, id, "delete workout"); err != nil {
		return err
	}
	s.begin()
	if err := s.api.DeleteWorkout(ctx, id); err != nil {
		return s.finish(err, "delete workout", nil)
	}
	return s.finish(nil, "delete workout", func() {
		s.workouts = without(s.workouts, id)
		s.mine = without(s.mine, id)
		if s.current != nil && s.current.ID == id {
			s.current = nil
		}
	})
}

func (s *WorkoutStore) gate(ctx context.Context, id, verb string) error {
	w, ok := s.Workout(id)
	if !ok {
		fetched, err := s.FetchByID(ctx, id)
		if err != nil {
			return err
		}
		w = *fetched
	}
	if !s.CanEdit(w) {
		return s.reject(ErrNotAuthorized, verb)
	}
	return nil
}
