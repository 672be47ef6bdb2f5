// Package model holds the development backend's records. Field names follow
// the server schema (a workout has a title and a difficultyLevel), which is
// not the client's.
package model

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           primitive.ObjectID
	Name         string
	Email        string
	PasswordHash string
	SkillLevel   string
	Availability string
	Status       string
	IsTrainer    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) GetID() primitive.ObjectID { return u.ID }

// Location is a named place groups can meet at.
type Location struct {
	ID      primitive.ObjectID
	Name    string
	Address string
	City    string
	Lat     float64
	Lon     float64
}

func (l Location) GetID() primitive.ObjectID { return l.ID }

// Group keeps the organizer in Members at all times.
type Group struct {
	ID          primitive.ObjectID
	Name        string
	Description string
	Sport       string
	Activity    string
	// Location is stored verbatim: a JSON string or object.
	Location   json.RawMessage
	Members    []primitive.ObjectID
	Organizer  primitive.ObjectID
	Admins     []primitive.ObjectID
	MaxMembers int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (g Group) GetID() primitive.ObjectID { return g.ID }

func (g Group) HasMember(id primitive.ObjectID) bool { return containsID(g.Members, id) }

func (g Group) IsAdmin(id primitive.ObjectID) bool {
	return g.Organizer == id || containsID(g.Admins, id)
}

// Workout exercises are stored verbatim so bare names and structured
// entries survive a round trip unchanged.
type Workout struct {
	ID              primitive.ObjectID
	Title           string
	Description     string
	Duration        int
	DifficultyLevel string
	Exercises       []json.RawMessage
	Creator         primitive.ObjectID
	Calories        *int
	WorkoutType     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (w Workout) GetID() primitive.ObjectID { return w.ID }

type Certification struct {
	Type       string     `json:"type" binding:"required"`
	Name       string     `json:"name" binding:"required"`
	IssueDate  *time.Time `json:"issueDate,omitempty"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

type Review struct {
	ID        primitive.ObjectID
	Rating    int
	Comment   string
	UserID    primitive.ObjectID
	CreatedAt time.Time
}

// Trainer is the trainer profile of a user; one per user.
type Trainer struct {
	ID              primitive.ObjectID
	UserID          primitive.ObjectID
	Bio             string
	Experience      int
	HourlyRate      float64
	Specializations []string
	Certifications  []Certification
	Reviews         []Review
	AverageRating   float64
	Workouts        []primitive.ObjectID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t Trainer) GetID() primitive.ObjectID { return t.ID }

// ContractStatus values match the client's.
type ContractStatus string

const (
	ContractPending   ContractStatus = "pending"
	ContractAccepted  ContractStatus = "accepted"
	ContractRejected  ContractStatus = "rejected"
	ContractCompleted ContractStatus = "completed"
	ContractCanceled  ContractStatus = "canceled"
)

type Contract struct {
	ID                primitive.ObjectID
	ClientID          primitive.ObjectID
	TrainerID         primitive.ObjectID
	Status            ContractStatus
	StartDate         time.Time
	EndDate           time.Time
	TotalSessions     int
	CompletedSessions int
	HourlyRate        float64
	Notes             string
	Workouts          []primitive.ObjectID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (c Contract) GetID() primitive.ObjectID { return c.ID }

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// AddID appends id unless present.
func AddID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	if containsID(ids, id) {
		return ids
	}
	return append(append([]primitive.ObjectID(nil), ids...), id)
}

// RemoveID drops every occurrence of id.
func RemoveID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
