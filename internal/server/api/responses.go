package api

import (
	"encoding/json"
	"time"

	"alcyxob/fitness-client/internal/server/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	SkillLevel   string    `json:"skillLevel,omitempty"`
	Availability string    `json:"availability,omitempty"`
	Status       string    `json:"status,omitempty"`
	IsTrainer    bool      `json:"isTrainer"`
	CreatedAt    time.Time `json:"createdAt"`
}

func MapUserToResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Email:        u.Email,
		SkillLevel:   u.SkillLevel,
		Availability: u.Availability,
		Status:       u.Status,
		IsTrainer:    u.IsTrainer,
		CreatedAt:    u.CreatedAt,
	}
}

func mapUsers(users []model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = MapUserToResponse(&users[i])
	}
	return out
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

// GroupResponse carries members and organizer either as ids or, on the
// detail endpoint, as user objects.
type GroupResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Sport       string          `json:"sport,omitempty"`
	Activity    string          `json:"activity,omitempty"`
	Location    json.RawMessage `json:"location,omitempty"`
	Members     []any           `json:"members"`
	Organizer   any             `json:"organizer"`
	Admins      []string        `json:"admins"`
	MaxMembers  int             `json:"maxMembers,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func MapGroupToResponse(g *model.Group) GroupResponse {
	members := make([]any, len(g.Members))
	for i, id := range g.Members {
		members[i] = id.Hex()
	}
	return GroupResponse{
		ID:          g.ID.Hex(),
		Name:        g.Name,
		Description: g.Description,
		Sport:       g.Sport,
		Activity:    g.Activity,
		Location:    g.Location,
		Members:     members,
		Organizer:   g.Organizer.Hex(),
		Admins:      hexIDs(g.Admins),
		MaxMembers:  g.MaxMembers,
		CreatedAt:   g.CreatedAt,
	}
}

// expandGroup replaces member and organizer ids with the users found.
// Unknown ids stay as ids.
func expandGroup(resp GroupResponse, users []model.User) GroupResponse {
	byID := make(map[string]UserResponse, len(users))
	for i := range users {
		byID[users[i].ID.Hex()] = MapUserToResponse(&users[i])
	}
	for i, m := range resp.Members {
		if u, ok := byID[m.(string)]; ok {
			resp.Members[i] = u
		}
	}
	if u, ok := byID[resp.Organizer.(string)]; ok {
		resp.Organizer = u
	}
	return resp
}

func mapGroups(groups []model.Group) []GroupResponse {
	out := make([]GroupResponse, len(groups))
	for i := range groups {
		out[i] = MapGroupToResponse(&groups[i])
	}
	return out
}

type WorkoutResponse struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	Duration        int               `json:"duration"`
	DifficultyLevel string            `json:"difficultyLevel"`
	Exercises       []json.RawMessage `json:"exercises"`
	Creator         string            `json:"creator"`
	Calories        *int              `json:"calories,omitempty"`
	WorkoutType     string            `json:"workoutType,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

func MapWorkoutToResponse(w *model.Workout) WorkoutResponse {
	exercises := w.Exercises
	if exercises == nil {
		exercises = []json.RawMessage{}
	}
	return WorkoutResponse{
		ID:              w.ID.Hex(),
		Title:           w.Title,
		Description:     w.Description,
		Duration:        w.Duration,
		DifficultyLevel: w.DifficultyLevel,
		Exercises:       exercises,
		Creator:         w.Creator.Hex(),
		Calories:        w.Calories,
		WorkoutType:     w.WorkoutType,
		CreatedAt:       w.CreatedAt,
	}
}

func mapWorkouts(ws []model.Workout) []WorkoutResponse {
	out := make([]WorkoutResponse, len(ws))
	for i := range ws {
		out[i] = MapWorkoutToResponse(&ws[i])
	}
	return out
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TrainerResponse.UserID is an id, or the user object on the detail endpoint.
type TrainerResponse struct {
	ID              string                `json:"id"`
	UserID          any                   `json:"userId"`
	Bio             string                `json:"bio,omitempty"`
	Experience      int                   `json:"experience"`
	HourlyRate      float64               `json:"hourlyRate"`
	Specializations []string              `json:"specializations"`
	Certifications  []model.Certification `json:"certifications"`
	Reviews         []ReviewResponse      `json:"reviews"`
	AverageRating   float64               `json:"averageRating"`
	Workouts        []string              `json:"workouts"`
	CreatedAt       time.Time             `json:"createdAt"`
}

func MapTrainerToResponse(t *model.Trainer) TrainerResponse {
	reviews := make([]ReviewResponse, len(t.Reviews))
	for i, r := range t.Reviews {
		reviews[i] = ReviewResponse{
			ID:        r.ID.Hex(),
			Rating:    r.Rating,
			Comment:   r.Comment,
			UserID:    r.UserID.Hex(),
			CreatedAt: r.CreatedAt,
		}
	}
	specs := t.Specializations
	if specs == nil {
		specs = []string{}
	}
	certs := t.Certifications
	if certs == nil {
		certs = []model.Certification{}
	}
	return TrainerResponse{
		ID:              t.ID.Hex(),
		UserID:          t.UserID.Hex(),
		Bio:             t.Bio,
		Experience:      t.Experience,
		HourlyRate:      t.HourlyRate,
		Specializations: specs,
		Certifications:  certs,
		Reviews:         reviews,
		AverageRating:   t.AverageRating,
		Workouts:        hexIDs(t.Workouts),
		CreatedAt:       t.CreatedAt,
	}
}

func mapTrainers(ts []model.Trainer) []TrainerResponse {
	out := make([]TrainerResponse, len(ts))
	for i := range ts {
		out[i] = MapTrainerToResponse(&ts[i])
	}
	return out
}

type ContractResponse struct {
	ID                string               `json:"id"`
	ClientID          string               `json:"clientId"`
	TrainerID         string               `json:"trainerId"`
	Status            model.ContractStatus `json:"status"`
	StartDate         time.Time            `json:"startDate"`
	EndDate           time.Time            `json:"endDate"`
	TotalSessions     int                  `json:"totalSessions"`
	CompletedSessions int                  `json:"completedSessions"`
	HourlyRate        float64              `json:"hourlyRate"`
	Notes             string               `json:"notes,omitempty"`
	Workouts          []string             `json:"workouts"`
	CreatedAt         time.Time            `json:"createdAt"`
}

func MapContractToResponse(c *model.Contract) ContractResponse {
	return ContractResponse{
		ID:                c.ID.Hex(),
		ClientID:          c.ClientID.Hex(),
		TrainerID:         c.TrainerID.Hex(),
		Status:            c.Status,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		TotalSessions:     c.TotalSessions,
		CompletedSessions: c.CompletedSessions,
		HourlyRate:        c.HourlyRate,
		Notes:             c.Notes,
		Workouts:          hexIDs(c.Workouts),
		CreatedAt:         c.CreatedAt,
	}
}

func mapContracts(cs []model.Contract) []ContractResponse {
	out := make([]ContractResponse, len(cs))
	for i := range cs {
		out[i] = MapContractToResponse(&cs[i])
	}
	return out
}

type coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type LocationResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city,omitempty"`
	Coordinates *coordinates `json:"coordinates,omitempty"`
}

func MapLocationToResponse(l *model.Location) LocationResponse {
	resp := LocationResponse{ID: l.ID.Hex(), Name: l.Name, Address: l.Address, City: l.City}
	if l.Lat != 0 || l.Lon != 0 {
		resp.Coordinates = &coordinates{Lat: l.Lat, Lon: l.Lon}
	}
	return resp
}
