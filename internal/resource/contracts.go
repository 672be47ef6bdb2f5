package resource

import (
	"context"
	"net/url"

	"alcyxob/fitness-client/internal/domain"
)

func contractPath(id string) string {
	return "/training-contracts/" + url.PathEscape(id)
}

// HireTrainer opens a pending contract with a trainer.
func (a *API) HireTrainer(ctx context.Context, in domain.HireInput) (*domain.Contract, error) {
	var c domain.Contract
	if err := a.client.Post(ctx, "/training-contracts/hire", in, &c); err != nil {
		return nil, a.fail("hire trainer", err)
	}
	return &c, nil
}

// ClientContracts lists contracts where the caller is the client.
func (a *API) ClientContracts(ctx context.Context) ([]domain.Contract, error) {
	var cs []domain.Contract
	if err := a.client.Get(ctx, "/training-contracts/client", nil, &cs); err != nil {
		return nil, a.fail("list client contracts", err)
	}
	return cs, nil
}

// TrainerContracts lists contracts where the caller is the trainer.
func (a *API) TrainerContracts(ctx context.Context) ([]domain.Contract, error) {
	var cs []domain.Contract
	if err := a.client.Get(ctx, "/training-contracts/trainer", nil, &cs); err != nil {
		return nil, a.fail("list trainer contracts", err)
	}
	return cs, nil
}

type statusRequest struct {
	Status domain.ContractStatus `json:"status"`
}

// UpdateContractStatus requests a transition; the server validates it.
func (a *API) UpdateContractStatus(ctx context.Context, id string, status domain.ContractStatus) (*domain.Contract, error) {
	var c domain.Contract
	if err := a.client.Patch(ctx, contractPath(id)+"/status", statusRequest{Status: status}, &c); err != nil {
		return nil, a.fail("update contract status", err)
	}
	return &c, nil
}

func (a *API) AddContractWorkout(ctx context.Context, contractID, workoutID string) (*domain.Contract, error) {
	var c domain.Contract
	if err := a.client.Post(ctx, contractPath(contractID)+"/workouts/"+url.PathEscape(workoutID), nil, &c); err != nil {
		return nil, a.fail("add contract workout", err)
	}
	return &c, nil
}
