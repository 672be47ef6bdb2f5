package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Exercise is an entry of a workout. Older workouts store exercises as bare
// names; newer ones carry sets, reps and rest.
type Exercise struct {
	Name       string
	Sets       int
	Reps       int
	Rest       string
	Structured bool
}

// Named returns a bare-name exercise.
func Named(name string) Exercise {
	return Exercise{Name: name}
}

type exerciseObject struct {
	Name string `json:"name"`
	Sets int    `json:"sets,omitempty"`
	Reps int    `json:"reps,omitempty"`
	Rest string `json:"rest,omitempty"`
}

func (e *Exercise) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*e = Exercise{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Name)
	}
	var obj exerciseObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("exercise: %w", err)
	}
	*e = Exercise{Name: obj.Name, Sets: obj.Sets, Reps: obj.Reps, Rest: obj.Rest, Structured: true}
	return nil
}

func (e Exercise) MarshalJSON() ([]byte, error) {
	if !e.Structured {
		return json.Marshal(e.Name)
	}
	return json.Marshal(exerciseObject{Name: e.Name, Sets: e.Sets, Reps: e.Reps, Rest: e.Rest})
}

// Workout uses the client's field names. The server calls Name "title" and
// Intensity "difficultyLevel"; the resource layer translates.
type Workout struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Duration    int        `json:"duration"`
	Intensity   string     `json:"intensity"`
	Exercises   []Exercise `json:"exercises"`
	Creator     Ref[User]  `json:"creator"`
	Calories    *int       `json:"calories,omitempty"`
	WorkoutType string     `json:"workoutType,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
}

func (w Workout) EntityID() string { return w.ID }

// CreatedBy reports whether userID authored the workout.
func (w Workout) CreatedBy(userID string) bool {
	return w.Creator.Is(userID)
}

// WorkoutInput is the create/update form.
type WorkoutInput struct {
	Name        string     `validate:"required,max=100"`
	Description string     `validate:"max=2000"`
	Duration    int        `validate:"required,gt=0,lte=600"`
	Intensity   string     `validate:"required,oneof=Easy Medium Hard"`
	Exercises   []Exercise `validate:"required,min=1"`
	Calories    *int       `validate:"omitempty,gte=0"`
	WorkoutType string
}
