package domain

import "time"

// ContractStatus is the lifecycle state of a training contract. Transitions
// are validated by the server.
type ContractStatus string

const (
	ContractPending   ContractStatus = "pending"
	ContractAccepted  ContractStatus = "accepted"
	ContractRejected  ContractStatus = "rejected"
	ContractCompleted ContractStatus = "completed"
	ContractCanceled  ContractStatus = "canceled"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractPending, ContractAccepted, ContractRejected, ContractCompleted, ContractCanceled:
		return true
	}
	return false
}

// Contract binds a client to a trainer for a number of sessions.
type Contract struct {
	ID                string         `json:"id"`
	Client            Ref[User]      `json:"clientId"`
	Trainer           Ref[Trainer]   `json:"trainerId"`
	Status            ContractStatus `json:"status"`
	StartDate         time.Time      `json:"startDate"`
	EndDate           time.Time      `json:"endDate"`
	TotalSessions     int            `json:"totalSessions"`
	CompletedSessions int            `json:"completedSessions"`
	HourlyRate        float64        `json:"hourlyRate"`
	Notes             string         `json:"notes,omitempty"`
	Workouts          []string       `json:"workouts"`
	CreatedAt         time.Time      `json:"createdAt,omitempty"`
}

func (c Contract) EntityID() string { return c.ID }

// IsActive is true while the contract still needs attention.
func (c Contract) IsActive() bool {
	return c.Status == ContractPending || c.Status == ContractAccepted
}

// RemainingSessions never goes below zero.
func (c Contract) RemainingSessions() int {
	if n := c.TotalSessions - c.CompletedSessions; n > 0 {
		return n
	}
	return 0
}

// HireInput is the hire-a-trainer form.
type HireInput struct {
	TrainerID     string    `json:"trainerId" validate:"required"`
	StartDate     time.Time `json:"startDate" validate:"required"`
	EndDate       time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	TotalSessions int       `json:"totalSessions" validate:"required,gt=0"`
	Notes         string    `json:"notes,omitempty" validate:"max=1000"`
}
