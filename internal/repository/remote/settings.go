package remote

import (
	"context"
	"net/url"

	"github.com/mchen04/penguin-mail/internal/api"
	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// Settings is the network-backed settings repository. Every mutation
// returns the full refreshed settings document.
type Settings struct {
	client *api.Client
}

type filterRuleWire struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Enabled    bool              `json:"enabled"`
	MatchAll   bool              `json:"matchAll"`
	Conditions []model.Condition `json:"conditions"`
	Actions    []model.Action    `json:"actions"`
	CreatedAt  string            `json:"createdAt"`
	UpdatedAt  string            `json:"updatedAt"`
}

type blockedAddressWire struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type vacationWire struct {
	Enabled   bool    `json:"enabled"`
	Subject   string  `json:"subject"`
	Message   string  `json:"message"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

type settingsWire struct {
	Appearance       model.AppearanceSettings `json:"appearance"`
	Inbox            model.InboxSettings      `json:"inboxBehavior"`
	Signatures       []model.Signature        `json:"signatures"`
	Vacation         vacationWire             `json:"vacationResponder"`
	Filters          []filterRuleWire         `json:"filters"`
	BlockedAddresses []blockedAddressWire     `json:"blockedAddresses"`
}

func toSettings(w settingsWire) model.Settings {
	s := model.Settings{
		Appearance: w.Appearance,
		Inbox:      w.Inbox,
		Signatures: w.Signatures,
		Vacation: model.VacationResponder{
			Enabled:   w.Vacation.Enabled,
			Subject:   w.Vacation.Subject,
			Message:   w.Vacation.Message,
			StartDate: parseTimePtr(w.Vacation.StartDate),
			EndDate:   parseTimePtr(w.Vacation.EndDate),
		},
	}
	for _, f := range w.Filters {
		s.Filters = append(s.Filters, model.FilterRule{
			ID:         f.ID,
			Name:       f.Name,
			Enabled:    f.Enabled,
			MatchAll:   f.MatchAll,
			Conditions: f.Conditions,
			Actions:    f.Actions,
			CreatedAt:  parseTime(f.CreatedAt),
			UpdatedAt:  parseTime(f.UpdatedAt),
		})
	}
	for _, b := range w.BlockedAddresses {
		s.BlockedAddresses = append(s.BlockedAddresses, model.BlockedAddress{
			ID:        b.ID,
			Email:     b.Email,
			CreatedAt: parseTime(b.CreatedAt),
		})
	}
	return s
}

func (r *Settings) Get(ctx context.Context) (model.Settings, error) {
	var w settingsWire
	if err := r.client.Get(ctx, "/settings/", nil, &w); err != nil {
		return model.Settings{}, err
	}
	return toSettings(w), nil
}

// settingsResult runs one mutating call and maps the refreshed
// document into the uniform result shape.
func (r *Settings) settingsResult(err error, w settingsWire) repository.Result[model.Settings] {
	if err != nil {
		return repository.Fail[model.Settings](err)
	}
	return repository.OK(toSettings(w))
}

func (r *Settings) Update(ctx context.Context, patch model.SettingsPatch) repository.Result[model.Settings] {
	var w settingsWire
	err := r.client.Patch(ctx, "/settings/", patch, &w)
	return r.settingsResult(err, w)
}

func (r *Settings) Reset(ctx context.Context) repository.Result[model.Settings] {
	var w settingsWire
	err := r.client.Post(ctx, "/settings/reset", nil, &w)
	return r.settingsResult(err, w)
}

func (r *Settings) AddSignature(ctx context.Context, name, content string, isDefault bool) repository.Result[model.Settings] {
	body := map[string]any{"name": name, "content": content, "isDefault": isDefault}
	var w settingsWire
	err := r.client.Post(ctx, "/settings/signatures", body, &w)
	return r.settingsResult(err, w)
}

func (r *Settings) UpdateSignature(ctx context.Context, id string, name, content *string, isDefault *bool) repository.Result[model.Settings] {
	body := map[string]any{}
	if name != nil {
		body["name"] = *name
	}
	if content != nil {
		body["content"] = *content
	}
	if isDefault != nil {
		body["isDefault"] = *isDefault
	}
	var w settingsWire
	err := r.client.Patch(ctx, "/settings/signatures/"+id, body, &w)
	return r.settingsResult(err, w)
}

// DeleteSignature removes a signature; the delete endpoint returns no
// body, so the refreshed document is re-fetched.
func (r *Settings) DeleteSignature(ctx context.Context, id string) repository.Result[model.Settings] {
	if err := r.client.Delete(ctx, "/settings/signatures/"+id, nil); err != nil {
		return repository.Fail[model.Settings](err)
	}
	return r.refetch(ctx)
}

func (r *Settings) AddFilter(ctx context.Context, rule model.FilterRule) repository.Result[model.Settings] {
	body := map[string]any{
		"name":       rule.Name,
		"enabled":    rule.Enabled,
		"matchAll":   rule.MatchAll,
		"conditions": rule.Conditions,
		"actions":    rule.Actions,
	}
	var w settingsWire
	err := r.client.Post(ctx, "/settings/filters", body, &w)
	return r.settingsResult(err, w)
}

func (r *Settings) UpdateFilter(ctx context.Context, id string, patch model.FilterRulePatch) repository.Result[model.Settings] {
	var w settingsWire
	err := r.client.Patch(ctx, "/settings/filters/"+id, patch, &w)
	return r.settingsResult(err, w)
}

func (r *Settings) DeleteFilter(ctx context.Context, id string) repository.Result[model.Settings] {
	if err := r.client.Delete(ctx, "/settings/filters/"+id, nil); err != nil {
		return repository.Fail[model.Settings](err)
	}
	return r.refetch(ctx)
}

func (r *Settings) BlockAddress(ctx context.Context, email string) repository.Result[model.Settings] {
	body := map[string]string{"email": email}
	var w settingsWire
	err := r.client.Post(ctx, "/settings/blocked-addresses", body, &w)
	return r.settingsResult(err, w)
}

func (r *Settings) UnblockAddress(ctx context.Context, email string) repository.Result[model.Settings] {
	if err := r.client.Delete(ctx, "/settings/blocked-addresses/"+url.PathEscape(email), nil); err != nil {
		return repository.Fail[model.Settings](err)
	}
	return r.refetch(ctx)
}

func (r *Settings) refetch(ctx context.Context) repository.Result[model.Settings] {
	settings, err := r.Get(ctx)
	if err != nil {
		return repository.Fail[model.Settings](err)
	}
	return repository.OK(settings)
}
