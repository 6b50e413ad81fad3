package remote

import (
	"context"

	"github.com/mchen04/penguin-mail/internal/api"
	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// Accounts is the network-backed mail-account repository.
type Accounts struct {
	client *api.Client
}

type accountWire struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Color              string `json:"color"`
	DisplayName        string `json:"displayName"`
	Signature          string `json:"signature"`
	DefaultSignatureID string `json:"defaultSignatureId"`
	IsDefault          bool   `json:"isDefault"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

func toAccount(w accountWire) model.Account {
	return model.Account{
		ID:                 w.ID,
		Email:              w.Email,
		Name:               w.Name,
		Color:              w.Color,
		DisplayName:        w.DisplayName,
		Signature:          w.Signature,
		DefaultSignatureID: w.DefaultSignatureID,
		IsDefault:          w.IsDefault,
		CreatedAt:          parseTime(w.CreatedAt),
		UpdatedAt:          parseTime(w.UpdatedAt),
	}
}

func (r *Accounts) List(ctx context.Context) ([]model.Account, error) {
	var wires []accountWire
	if err := r.client.Get(ctx, "/accounts/", nil, &wires); err != nil {
		return nil, err
	}
	accounts := make([]model.Account, 0, len(wires))
	for _, w := range wires {
		accounts = append(accounts, toAccount(w))
	}
	return accounts, nil
}

func (r *Accounts) GetByID(ctx context.Context, id string) (*model.Account, error) {
	var w accountWire
	err := r.client.Get(ctx, "/accounts/"+id, nil, &w)
	if api.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a := toAccount(w)
	return &a, nil
}

// Default returns the account flagged as default, falling back to the
// first account, or nil when none exist.
func (r *Accounts) Default(ctx context.Context) (*model.Account, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].IsDefault {
			return &accounts[i], nil
		}
	}
	if len(accounts) > 0 {
		return &accounts[0], nil
	}
	return nil, nil
}

func (r *Accounts) Create(ctx context.Context, input model.AccountCreateInput) repository.Result[model.Account] {
	var w accountWire
	if err := r.client.Post(ctx, "/accounts/", input, &w); err != nil {
		return repository.Fail[model.Account](err)
	}
	return repository.OK(toAccount(w))
}

func (r *Accounts) Update(ctx context.Context, id string, patch model.AccountPatch) repository.Result[model.Account] {
	var w accountWire
	if err := r.client.Patch(ctx, "/accounts/"+id, patch, &w); err != nil {
		return repository.Fail[model.Account](err)
	}
	return repository.OK(toAccount(w))
}

func (r *Accounts) Delete(ctx context.Context, id string) repository.Status {
	if err := r.client.Delete(ctx, "/accounts/"+id, nil); err != nil {
		return repository.Failed(err)
	}
	return repository.Done()
}

func (r *Accounts) SetDefault(ctx context.Context, id string) repository.Result[model.Account] {
	var w accountWire
	if err := r.client.Post(ctx, "/accounts/"+id+"/set-default", nil, &w); err != nil {
		return repository.Fail[model.Account](err)
	}
	return repository.OK(toAccount(w))
}
