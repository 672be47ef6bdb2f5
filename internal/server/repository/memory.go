package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"alcyxob/fitness-client/internal/server/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// record is satisfied by every stored model.
type record interface {
	GetID() primitive.ObjectID
}

// table is an insertion-ordered, mutex-guarded collection. Rows are stored
// by value so callers never share memory with the table.
type table[T record] struct {
	mu    sync.RWMutex
	rows  map[primitive.ObjectID]T
	order []primitive.ObjectID
}

func newTable[T record]() *table[T] {
	return &table[T]{rows: make(map[primitive.ObjectID]T)}
}

func (t *table[T]) insert(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[v.GetID()] = v
	t.order = append(t.order, v.GetID())
}

func (t *table[T]) get(id primitive.ObjectID) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (t *table[T]) put(v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[v.GetID()]; !ok {
		return ErrNotFound
	}
	t.rows[v.GetID()] = v
	return nil
}

func (t *table[T]) delete(id primitive.ObjectID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// filter returns matching rows in insertion order; never nil.
func (t *table[T]) filter(match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		if v := t.rows[id]; match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) first(match func(T) bool) (*T, error) {
	rows := t.filter(match)
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// Memory implements every repository in process memory.
type Memory struct {
	users     *table[model.User]
	groups    *table[model.Group]
	workouts  *table[model.Workout]
	trainers  *table[model.Trainer]
	contracts *table[model.Contract]
	locations *table[model.Location]
	emailMu   sync.Mutex
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:     newTable[model.User](),
		groups:    newTable[model.Group](),
		workouts:  newTable[model.Workout](),
		trainers:  newTable[model.Trainer](),
		contracts: newTable[model.Contract](),
		locations: newTable[model.Location](),
	}
}

func (m *Memory) Users() UserRepository         { return memoryUsers{m} }
func (m *Memory) Groups() GroupRepository       { return memoryGroups{m.groups} }
func (m *Memory) Workouts() WorkoutRepository   { return memoryWorkouts{m.workouts} }
func (m *Memory) Trainers() TrainerRepository   { return memoryTrainers{m.trainers} }
func (m *Memory) Contracts() ContractRepository { return memoryContracts{m.contracts} }
func (m *Memory) Locations() LocationRepository { return memoryLocations{m.locations} }

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created != nil {
		*created = now
	}
	*updated = now
}

// --- Users ---

type memoryUsers struct{ m *Memory }

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (r memoryUsers) Create(_ context.Context, user *model.User) (primitive.ObjectID, error) {
	// Email uniqueness needs check-and-insert under one lock.
	r.m.emailMu.Lock()
	defer r.m.emailMu.Unlock()
	email := normalizeEmail(user.Email)
	if _, err := r.m.users.first(func(u model.User) bool { return u.Email == email }); err == nil {
		return primitive.NilObjectID, ErrDuplicate
	}
	user.ID = primitive.NewObjectID()
	user.Email = email
	stamp(&user.CreatedAt, &user.UpdatedAt)
	r.m.users.insert(*user)
	return user.ID, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = normalizeEmail(email)
	return r.m.users.first(func(u model.User) bool { return u.Email == email })
}

func (r memoryUsers) GetByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.m.users.get(id)
}

// GetByIDs keeps the order of ids and skips unknown ones.
func (r memoryUsers) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, err := r.m.users.get(id); err == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r memoryUsers) List(_ context.Context) ([]model.User, error) {
	return r.m.users.filter(nil), nil
}

func (r memoryUsers) Update(_ context.Context, user *model.User) error {
	r.m.emailMu.Lock()
	defer r.m.emailMu.Unlock()
	user.Email = normalizeEmail(user.Email)
	if other, err := r.m.users.first(func(u model.User) bool { return u.Email == user.Email }); err == nil && other.ID != user.ID {
		return ErrDuplicate
	}
	stamp(nil, &user.UpdatedAt)
	return r.m.users.put(*user)
}

func (r memoryUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	return r.m.users.delete(id)
}

// --- Groups ---

type memoryGroups struct{ t *table[model.Group] }

func (r memoryGroups) Create(_ context.Context, group *model.Group) (primitive.ObjectID, error) {
	group.ID = primitive.NewObjectID()
	stamp(&group.CreatedAt, &group.UpdatedAt)
	r.t.insert(*group)
	return group.ID, nil
}

func (r memoryGroups) GetByID(_ context.Context, id primitive.ObjectID) (*model.Group, error) {
	return r.t.get(id)
}

func (r memoryGroups) List(_ context.Context) ([]model.Group, error) {
	return r.t.filter(nil), nil
}

func (r memoryGroups) Update(_ context.Context, group *model.Group) error {
	stamp(nil, &group.UpdatedAt)
	return r.t.put(*group)
}

func (r memoryGroups) Delete(_ context.Context, id primitive.ObjectID) error {
	return r.t.delete(id)
}

// --- Workouts ---

type memoryWorkouts struct{ t *table[model.Workout] }

func (r memoryWorkouts) Create(_ context.Context, workout *model.Workout) (primitive.ObjectID, error) {
	workout.ID = primitive.NewObjectID()
	stamp(&workout.CreatedAt, &workout.UpdatedAt)
	r.t.insert(*workout)
	return workout.ID, nil
}

func (r memoryWorkouts) GetByID(_ context.Context, id primitive.ObjectID) (*model.Workout, error) {
	return r.t.get(id)
}

func (r memoryWorkouts) List(_ context.Context) ([]model.Workout, error) {
	return r.t.filter(nil), nil
}

func (r memoryWorkouts) GetByCreator(_ context.Context, creatorID primitive.ObjectID) ([]model.Workout, error) {
	return r.t.filter(func(w model.Workout) bool { return w.Creator == creatorID }), nil
}

func (r memoryWorkouts) Update(_ context.Context, workout *model.Workout) error {
	stamp(nil, &workout.UpdatedAt)
	return r.t.put(*workout)
}

func (r memoryWorkouts) Delete(_ context.Context, id primitive.ObjectID) error {
	return r.t.delete(id)
}

// --- Trainers ---

type memoryTrainers struct{ t *table[model.Trainer] }

func (r memoryTrainers) Create(_ context.Context, trainer *model.Trainer) (primitive.ObjectID, error) {
	if _, err := r.t.first(func(t model.Trainer) bool { return t.UserID == trainer.UserID }); err == nil {
		return primitive.NilObjectID, ErrDuplicate
	}
	trainer.ID = primitive.NewObjectID()
	stamp(&trainer.CreatedAt, &trainer.UpdatedAt)
	r.t.insert(*trainer)
	return trainer.ID, nil
}

func (r memoryTrainers) GetByID(_ context.Context, id primitive.ObjectID) (*model.Trainer, error) {
	return r.t.get(id)
}

func (r memoryTrainers) GetByUserID(_ context.Context, userID primitive.ObjectID) (*model.Trainer, error) {
	return r.t.first(func(t model.Trainer) bool { return t.UserID == userID })
}

func (r memoryTrainers) List(_ context.Context) ([]model.Trainer, error) {
	return r.t.filter(nil), nil
}

func (r memoryTrainers) Update(_ context.Context, trainer *model.Trainer) error {
	stamp(nil, &trainer.UpdatedAt)
	return r.t.put(*trainer)
}

func (r memoryTrainers) Delete(_ context.Context, id primitive.ObjectID) error {
	return r.t.delete(id)
}

// --- Contracts ---

type memoryContracts struct{ t *table[model.Contract] }

func (r memoryContracts) Create(_ context.Context, contract *model.Contract) (primitive.ObjectID, error) {
	contract.ID = primitive.NewObjectID()
	stamp(&contract.CreatedAt, &contract.UpdatedAt)
	r.t.insert(*contract)
	return contract.ID, nil
}

func (r memoryContracts) GetByID(_ context.Context, id primitive.ObjectID) (*model.Contract, error) {
	return r.t.get(id)
}

func (r memoryContracts) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]model.Contract, error) {
	return r.t.filter(func(c model.Contract) bool { return c.ClientID == clientID }), nil
}

func (r memoryContracts) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]model.Contract, error) {
	return r.t.filter(func(c model.Contract) bool { return c.TrainerID == trainerID }), nil
}

func (r memoryContracts) Update(_ context.Context, contract *model.Contract) error {
	stamp(nil, &contract.UpdatedAt)
	return r.t.put(*contract)
}

// --- Locations ---

type memoryLocations struct{ t *table[model.Location] }

func (r memoryLocations) Create(_ context.Context, location *model.Location) (primitive.ObjectID, error) {
	location.ID = primitive.NewObjectID()
	r.t.insert(*location)
	return location.ID, nil
}

func (r memoryLocations) GetByID(_ context.Context, id primitive.ObjectID) (*model.Location, error) {
	return r.t.get(id)
}
