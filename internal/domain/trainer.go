package domain

import (
	"math"
	"time"
)

// Certification held by a trainer.
type Certification struct {
	Type       string     `json:"type" validate:"required"`
	Name       string     `json:"name" validate:"required"`
	IssueDate  *time.Time `json:"issueDate,omitempty"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

// Expired reports whether the certification lapsed before now.
func (c Certification) Expired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}

// Review left by a client on a trainer profile.
type Review struct {
	ID        string    `json:"id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	User      Ref[User] `json:"userId"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// ReviewInput is the review form.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"max=1000"`
}

// Trainer is a trainer profile linked to a user account.
type Trainer struct {
	ID              string          `json:"id"`
	User            Ref[User]       `json:"userId"`
	Bio             string          `json:"bio,omitempty"`
	Experience      int             `json:"experience"`
	HourlyRate      float64         `json:"hourlyRate"`
	Specializations []string        `json:"specializations"`
	Certifications  []Certification `json:"certifications"`
	Reviews         []Review        `json:"reviews"`
	AverageRating   float64         `json:"averageRating"`
	Workouts        []string        `json:"workouts"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
}

func (t Trainer) EntityID() string { return t.ID }

// OwnedBy reports whether the profile belongs to userID.
func (t Trainer) OwnedBy(userID string) bool {
	return t.User.Is(userID)
}

// DisplayRating returns the server's average, falling back to a local mean
// of the loaded reviews when the server has not filled it in.
func (t Trainer) DisplayRating() float64 {
	if t.AverageRating > 0 || len(t.Reviews) == 0 {
		return t.AverageRating
	}
	sum := 0
	for _, r := range t.Reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(t.Reviews))*10) / 10
}

// HasSpecialization reports whether tag is among the trainer's specializations.
func (t Trainer) HasSpecialization(tag string) bool {
	for _, s := range t.Specializations {
		if s == tag {
			return true
		}
	}
	return false
}

// TrainerInput is the become-trainer and profile edit form.
type TrainerInput struct {
	Bio             string          `json:"bio,omitempty" validate:"max=2000"`
	Experience      int             `json:"experience" validate:"gte=0,lte=80"`
	HourlyRate      float64         `json:"hourlyRate" validate:"gt=0"`
	Specializations []string        `json:"specializations" validate:"required,min=1"`
	Certifications  []Certification `json:"certifications,omitempty" validate:"dive"`
}
