package resource

import (
	"context"
	"net/url"

	"alcyxob/fitness-client/internal/apiclient"
	"alcyxob/fitness-client/internal/domain"
)

func trainerPath(id string) string {
	return "/trainers/" + url.PathEscape(id)
}

// ListTrainers lists trainer profiles, optionally narrowed to one
// specialization tag.
func (a *API) ListTrainers(ctx context.Context, specialization string) ([]domain.Trainer, error) {
	var q url.Values
	if specialization != "" {
		q = url.Values{"specialization": {specialization}}
	}
	var trainers []domain.Trainer
	if err := a.client.Get(ctx, "/trainers", q, &trainers); err != nil {
		return nil, a.fail("list trainers", err)
	}
	return trainers, nil
}

func (a *API) GetTrainer(ctx context.Context, id string) (*domain.Trainer, error) {
	var t domain.Trainer
	if err := a.client.Get(ctx, trainerPath(id), nil, &t); err != nil {
		return nil, a.fail("get trainer", err)
	}
	return &t, nil
}

// TrainerByUser probes for the trainer profile of a user. A 404 means the
// user is not a trainer and yields (nil, nil).
func (a *API) TrainerByUser(ctx context.Context, userID string) (*domain.Trainer, error) {
	var t domain.Trainer
	err := a.client.Get(ctx, "/trainers/user/"+url.PathEscape(userID), nil, &t)
	if apiclient.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, a.fail("get trainer by user", err)
	}
	return &t, nil
}

// MyTrainerProfile is TrainerByUser for the caller.
func (a *API) MyTrainerProfile(ctx context.Context) (*domain.Trainer, error) {
	var t domain.Trainer
	err := a.client.Get(ctx, "/trainers/profile", nil, &t)
	if apiclient.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, a.fail("get my trainer profile", err)
	}
	return &t, nil
}

// BecomeTrainer creates a trainer profile for the caller.
func (a *API) BecomeTrainer(ctx context.Context, in domain.TrainerInput) (*domain.Trainer, error) {
	var t domain.Trainer
	if err := a.client.Post(ctx, "/trainers/become-trainer", in, &t); err != nil {
		return nil, a.fail("become trainer", err)
	}
	return &t, nil
}

func (a *API) UpdateTrainer(ctx context.Context, id string, in domain.TrainerInput) (*domain.Trainer, error) {
	var t domain.Trainer
	if err := a.client.Patch(ctx, trainerPath(id), in, &t); err != nil {
		return nil, a.fail("update trainer", err)
	}
	return &t, nil
}

func (a *API) DeleteTrainer(ctx context.Context, id string) error {
	if err := a.client.Delete(ctx, trainerPath(id), nil); err != nil {
		return a.fail("delete trainer", err)
	}
	return nil
}

// AddReview posts a review and returns the trainer with the recomputed
// average rating.
func (a *API) AddReview(ctx context.Context, trainerID string, in domain.ReviewInput) (*domain.Trainer, error) {
	var t domain.Trainer
	if err := a.client.Post(ctx, trainerPath(trainerID)+"/review", in, &t); err != nil {
		return nil, a.fail("add review", err)
	}
	return &t, nil
}

// AddTrainerWorkout links a workout to a trainer profile.
func (a *API) AddTrainerWorkout(ctx context.Context, trainerID, workoutID string) (*domain.Trainer, error) {
	var t domain.Trainer
	if err := a.client.Post(ctx, trainerPath(trainerID)+"/workouts/"+url.PathEscape(workoutID), nil, &t); err != nil {
		return nil, a.fail("add trainer workout", err)
	}
	return &t, nil
}
