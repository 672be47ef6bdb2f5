package domain

import "time"

// AccountStatus is the server-side state of a user account.
type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusInactive  AccountStatus = "inactive"
	StatusSuspended AccountStatus = "suspended"
)

// User is the client view of an account.
type User struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	SkillLevel   string        `json:"skillLevel,omitempty"`
	Availability string        `json:"availability,omitempty"`
	Status       AccountStatus `json:"status,omitempty"`
	IsTrainer    bool          `json:"isTrainer"`
	CreatedAt    time.Time     `json:"createdAt,omitempty"`
}

func (u User) EntityID() string { return u.ID }

// UserInput carries a partial user payload for create/update calls.
// Nil fields are left untouched by the server.
type UserInput struct {
	Name         *string        `json:"name,omitempty" validate:"omitempty,min=1,max=80"`
	Email        *string        `json:"email,omitempty" validate:"omitempty,email"`
	Password     *string        `json:"password,omitempty" validate:"omitempty,min=6"`
	SkillLevel   *string        `json:"skillLevel,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Availability *string        `json:"availability,omitempty"`
	Status       *AccountStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
}

// Credentials are the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the signup form.
type Registration struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	SkillLevel   string `json:"skillLevel,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Availability string `json:"availability,omitempty"`
}

// Session is what signup and login return.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
