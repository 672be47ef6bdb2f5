package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entity is implemented by every record the server can expand in place of
// a bare identifier.
type Entity interface {
	EntityID() string
}

// RefKind tells which representation a Ref currently holds.
type RefKind int

const (
	RefEmpty RefKind = iota
	RefByID
	RefExpanded
)

// Ref is a relation the server may return either as a bare id string or as
// the fully populated record. Read sites call ID() and never inspect the
// JSON shape themselves.
type Ref[T Entity] struct {
	id    string
	value *T
}

// RefTo builds an id-only reference.
func RefTo[T Entity](id string) Ref[T] {
	return Ref[T]{id: id}
}

// RefOf builds an expanded reference from an already loaded record.
func RefOf[T Entity](v T) Ref[T] {
	return Ref[T]{id: v.EntityID(), value: &v}
}

// Kind reports the representation held.
func (r Ref[T]) Kind() RefKind {
	switch {
	case r.value != nil:
		return RefExpanded
	case r.id != "":
		return RefByID
	default:
		return RefEmpty
	}
}

// ID normalizes both representations to the identifier.
func (r Ref[T]) ID() string {
	if r.value != nil {
		if id := (*r.value).EntityID(); id != "" {
			return id
		}
	}
	return r.id
}

// Value returns the expanded record, if the server populated it.
func (r Ref[T]) Value() (T, bool) {
	if r.value == nil {
		var zero T
		return zero, false
	}
	return *r.value, true
}

// Is reports whether the reference points at id.
func (r Ref[T]) Is(id string) bool {
	return id != "" && r.ID() == id
}

func (r Ref[T]) IsZero() bool {
	return r.Kind() == RefEmpty
}

// UnmarshalJSON accepts a string id, an expanded object, or null.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref[T]{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.id)
	}
	if data[0] != '{' {
		return fmt.Errorf("ref: unexpected JSON %s", string(data))
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("ref: %w", err)
	}
	r.value = &v
	r.id = v.EntityID()
	return nil
}

// MarshalJSON writes back the representation that was read.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	switch r.Kind() {
	case RefExpanded:
		return json.Marshal(*r.value)
	case RefByID:
		return json.Marshal(r.id)
	default:
		return []byte("null"), nil
	}
}

// RefIDs normalizes a list of references to their ids, preserving order.
func RefIDs[T Entity](refs []Ref[T]) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		if id := r.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ContainsRef reports whether any reference in refs points at id.
func ContainsRef[T Entity](refs []Ref[T], id string) bool {
	for _, r := range refs {
		if r.Is(id) {
			return true
		}
	}
	return false
}
