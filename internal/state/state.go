// Package state holds the client's working copy of server records. Each
// store owns one entity type, exposes the operations screens call, and
// publishes loading/error flags to subscribers.
//
// Stores wait for the server's reply before touching their cache. Two
// overlapping calls are not sequenced: whichever response lands last wins.
// The mutexes only keep the Go memory model happy.
package state

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"alcyxob/fitness-client/internal/apiclient"
	"alcyxob/fitness-client/internal/domain"
)

var (
	// ErrAuthRequired wraps every 401 so callers can prompt a login.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden wraps every 403.
	ErrForbidden = errors.New("permission denied")
	// ErrNotAuthorized is returned by client-side edit gates before any
	// request is made. The server still enforces the real rule.
	ErrNotAuthorized = errors.New("not allowed for the current user")
	// ErrValidation is returned for malformed form input; nothing is sent.
	ErrValidation = errors.New("invalid input")
	// ErrNotSignedIn is returned by operations that need a current user.
	ErrNotSignedIn = errors.New("not signed in")
)

const authRequiredMessage = "Authentication required. Please log in again."

// Status is the flag set every store publishes. IsAuthorized goes false on
// a permission failure and only comes back when the same operation later
// succeeds, or when the store is reset.
type Status struct {
	Loading      bool
	Error        string
	IsAuthorized bool
}

// Result is the non-throwing outcome used by flows where a screen branches
// on "needs login" without inspecting errors.
type Result struct {
	OK           bool
	RequiresAuth bool
	Err          error
}

func resultOf(err error) Result {
	if err == nil {
		return Result{OK: true}
	}
	return Result{RequiresAuth: RequiresAuth(err), Err: err}
}

// RequiresAuth reports whether err means the caller must sign in again.
func RequiresAuth(err error) bool {
	return errors.Is(err, ErrAuthRequired) || errors.Is(err, ErrNotSignedIn)
}

// BatchResult lists which items of a batch went through. Every item is
// attempted; failures are returned together as one combined error.
type BatchResult struct {
	Succeeded []string
	Failed    []string
	Skipped   []string
}

// tracker carries the status flags and subscriber list shared by stores.
type tracker struct {
	mu      sync.RWMutex
	status  Status
	denied  string // verb of the last permission failure
	subs    map[uint64]func()
	nextSub uint64
}

func (t *tracker) init() {
	t.status = Status{IsAuthorized: true}
	t.subs = make(map[uint64]func())
}

// clearStatus drops every flag. Callers hold t.mu.
func (t *tracker) clearStatus() {
	t.status = Status{IsAuthorized: true}
	t.denied = ""
}

// Subscribe registers fn to run after every state change and returns the
// function that unregisters it.
func (t *tracker) Subscribe(fn func()) func() {
	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// Status returns the current flags.
func (t *tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func (t *tracker) notify() {
	t.mu.RLock()
	fns := make([]func(), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// begin enters the loading state and clears the previous error.
func (t *tracker) begin() {
	t.mu.Lock()
	t.status.Loading = true
	t.status.Error = ""
	t.mu.Unlock()
	t.notify()
}

// update runs fn under the write lock and notifies afterwards.
func (t *tracker) update(fn func()) {
	t.mu.Lock()
	fn()
	t.mu.Unlock()
	t.notify()
}

// finish leaves the loading state. On failure it records a message built
// from verb ("fetch groups") and returns err classified so that
// errors.Is(err, ErrAuthRequired/ErrForbidden) holds. apply, when non-nil
// and err is nil, runs under the same lock as the flag change.
func (t *tracker) finish(err error, verb string, apply func()) error {
	t.mu.Lock()
	t.status.Loading = false
	if err == nil {
		t.status.Error = ""
		if t.denied == verb {
			t.status.IsAuthorized = true
			t.denied = ""
		}
		if apply != nil {
			apply()
		}
	} else {
		var forbidden bool
		t.status.Error, err, forbidden = classify(err, verb)
		if forbidden {
			t.status.IsAuthorized = false
			t.denied = verb
		}
	}
	t.mu.Unlock()
	t.notify()
	return err
}

// reject records a client-side refusal without entering the loading state.
func (t *tracker) reject(err error, verb string) error {
	return t.finish(err, verb, nil)
}

func classify(err error, verb string) (message string, classified error, forbidden bool) {
	switch {
	case errors.Is(err, ErrValidation):
		return err.Error(), err, false
	case errors.Is(err, ErrNotSignedIn):
		return authRequiredMessage, err, false
	case errors.Is(err, ErrNotAuthorized):
		return "You don't have permission to " + verb, err, true
	case apiclient.IsUnauthorized(err):
		return authRequiredMessage, fmt.Errorf("%w: %w", ErrAuthRequired, err), false
	case apiclient.IsForbidden(err):
		return "You don't have permission to " + verb, fmt.Errorf("%w: %w", ErrForbidden, err), true
	default:
		return "Failed to " + verb, err, false
	}
}

var validate = validator.New()

// check validates a form before anything is sent.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// upsert replaces the record with v's id or appends v.
func upsert[T domain.Entity](items []T, v T) []T {
	for i := range items {
		if items[i].EntityID() == v.EntityID() {
			out := append([]T(nil), items...)
			out[i] = v
			return out
		}
	}
	return append(append([]T(nil), items...), v)
}

// replaceExisting swaps in v only if a record with its id is cached.
func replaceExisting[T domain.Entity](items []T, v T) []T {
	for i := range items {
		if items[i].EntityID() == v.EntityID() {
			out := append([]T(nil), items...)
			out[i] = v
			return out
		}
	}
	return items
}

func without[T domain.Entity](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.EntityID() != id {
			out = append(out, it)
		}
	}
	return out
}

func find[T domain.Entity](items []T, id string) (T, bool) {
	for _, it := range items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func ptr[T any](v T) *T { return &v }
