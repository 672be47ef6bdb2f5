package resource

import (
	"context"
	"net/url"
	"time"

	"alcyxob/fitness-client/internal/domain"
)

// workoutWire is the server's schema. The client says name/intensity, the
// server says title/difficultyLevel.
type workoutWire struct {
	ID              string                  `json:"id,omitempty"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description,omitempty"`
	Duration        int                     `json:"duration"`
	DifficultyLevel string                  `json:"difficultyLevel"`
	Exercises       []domain.Exercise       `json:"exercises"`
	Creator         domain.Ref[domain.User] `json:"creator"`
	Calories        *int                    `json:"calories,omitempty"`
	WorkoutType     string                  `json:"workoutType,omitempty"`
	CreatedAt       time.Time               `json:"createdAt,omitempty"`
}

type workoutRequest struct {
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	Duration        int               `json:"duration"`
	DifficultyLevel string            `json:"difficultyLevel"`
	Exercises       []domain.Exercise `json:"exercises"`
	Calories        *int              `json:"calories,omitempty"`
	WorkoutType     string            `json:"workoutType,omitempty"`
}

func toWorkoutRequest(in domain.WorkoutInput) workoutRequest {
	exercises := in.Exercises
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return workoutRequest{
		Title:           in.Name,
		Description:     in.Description,
		Duration:        in.Duration,
		DifficultyLevel: in.Intensity,
		Exercises:       exercises,
		Calories:        in.Calories,
		WorkoutType:     in.WorkoutType,
	}
}

func (w workoutWire) toDomain() domain.Workout {
	return domain.Workout{
		ID:          w.ID,
		Name:        w.Title,
		Description: w.Description,
		Duration:    w.Duration,
		Intensity:   w.DifficultyLevel,
		Exercises:   w.Exercises,
		Creator:     w.Creator,
		Calories:    w.Calories,
		WorkoutType: w.WorkoutType,
		CreatedAt:   w.CreatedAt,
	}
}

func workoutsToDomain(ws []workoutWire) []domain.Workout {
	out := make([]domain.Workout, len(ws))
	for i, w := range ws {
		out[i] = w.toDomain()
	}
	return out
}

func (a *API) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	var ws []workoutWire
	if err := a.client.Get(ctx, "/workouts", nil, &ws); err != nil {
		return nil, a.fail("list workouts", err)
	}
	return workoutsToDomain(ws), nil
}

// MyWorkouts lists the workouts created by the caller.
func (a *API) MyWorkouts(ctx context.Context) ([]domain.Workout, error) {
	var ws []workoutWire
	if err := a.client.Get(ctx, "/workouts/my-workouts", nil, &ws); err != nil {
		return nil, a.fail("list my workouts", err)
	}
	return workoutsToDomain(ws), nil
}

func (a *API) GetWorkout(ctx context.Context, id string) (*domain.Workout, error) {
	var w workoutWire
	if err := a.client.Get(ctx, "/workouts/"+url.PathEscape(id), nil, &w); err != nil {
		return nil, a.fail("get workout", err)
	}
	out := w.toDomain()
	return &out, nil
}

func (a *API) CreateWorkout(ctx context.Context, in domain.WorkoutInput) (*domain.Workout, error) {
	var w workoutWire
	if err := a.client.Post(ctx, "/workouts", toWorkoutRequest(in), &w); err != nil {
		return nil, a.fail("create workout", err)
	}
	out := w.toDomain()
	return &out, nil
}

func (a *API) UpdateWorkout(ctx context.Context, id string, in domain.WorkoutInput) (*domain.Workout, error) {
	var w workoutWire
	if err := a.client.Patch(ctx, "/workouts/"+url.PathEscape(id), toWorkoutRequest(in), &w); err != nil {
		return nil, a.fail("update workout", err)
	}
	out := w.toDomain()
	return &out, nil
}

func (a *API) DeleteWorkout(ctx context.Context, id string) error {
	if err := a.client.Delete(ctx, "/workouts/"+url.PathEscape(id), nil); err != nil {
		return a.fail("delete workout", err)
	}
	return nil
}
