package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is either free text or a structured address. Groups created
// from older app versions carry only the text form.
type Location struct {
	Text        string       `json:"-"`
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name,omitempty"`
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func (l Location) EntityID() string { return l.ID }

func (l Location) structured() bool {
	return l.ID != "" || l.Name != "" || l.Address != "" || l.City != "" || l.Coordinates != nil
}

// String renders a display value for either form.
func (l Location) String() string {
	if !l.structured() {
		return l.Text
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Name, l.Address, l.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (l Location) IsZero() bool {
	return l.Text == "" && !l.structured()
}

type locationObject struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name,omitempty"`
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func (l *Location) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = Location{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &l.Text)
	}
	var obj locationObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	*l = Location{ID: obj.ID, Name: obj.Name, Address: obj.Address, City: obj.City, Coordinates: obj.Coordinates}
	return nil
}

func (l Location) MarshalJSON() ([]byte, error) {
	if !l.structured() {
		if l.Text == "" {
			return []byte("null"), nil
		}
		return json.Marshal(l.Text)
	}
	return json.Marshal(locationObject{ID: l.ID, Name: l.Name, Address: l.Address, City: l.City, Coordinates: l.Coordinates})
}

// Place is one result of a free-text geocoding search.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Group is a sport group with an organizer and members.
type Group struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Sport       string      `json:"sport,omitempty"`
	Activity    string      `json:"activity,omitempty"`
	Location    Location    `json:"location,omitempty"`
	Members     []Ref[User] `json:"members"`
	Organizer   Ref[User]   `json:"organizer"`
	Admins      []Ref[User] `json:"admins,omitempty"`
	MaxMembers  int         `json:"maxMembers,omitempty"`
	CreatedAt   time.Time   `json:"createdAt,omitempty"`
}

func (g Group) EntityID() string { return g.ID }

func (g Group) MemberCount() int { return len(g.Members) }

func (g Group) IsMember(userID string) bool {
	return ContainsRef(g.Members, userID)
}

func (g Group) IsOrganizer(userID string) bool {
	return g.Organizer.Is(userID)
}

// IsAdmin is true for listed admins and for the organizer.
func (g Group) IsAdmin(userID string) bool {
	return g.IsOrganizer(userID) || ContainsRef(g.Admins, userID)
}

// GroupInput is the create/update form for a group.
type GroupInput struct {
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description,omitempty" validate:"max=1000"`
	Sport       string    `json:"sport" validate:"required"`
	Activity    string    `json:"activity,omitempty"`
	Location    Location  `json:"location,omitempty"`
	MaxMembers  int       `json:"maxMembers,omitempty" validate:"gte=0"`
	Members     *[]string `json:"members,omitempty"`
	Admins      *[]string `json:"admins,omitempty"`
}

// GroupInputFrom copies the editable fields of g, with member and admin
// lists flattened to ids.
func GroupInputFrom(g Group) GroupInput {
	members := RefIDs(g.Members)
	admins := RefIDs(g.Admins)
	return GroupInput{
		Name:        g.Name,
		Description: g.Description,
		Sport:       g.Sport,
		Activity:    g.Activity,
		Location:    g.Location,
		MaxMembers:  g.MaxMembers,
		Members:     &members,
		Admins:      &admins,
	}
}
