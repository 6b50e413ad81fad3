package remote

import (
	"context"
	"net/url"

	"github.com/mchen04/penguin-mail/internal/api"
	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// Contacts is the network-backed address-book repository.
type Contacts struct {
	client *api.Client
}

type contactWire struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Avatar     string   `json:"avatar"`
	Phone      string   `json:"phone"`
	Company    string   `json:"company"`
	Notes      string   `json:"notes"`
	IsFavorite bool     `json:"isFavorite"`
	Groups     []string `json:"groups"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

type contactPageWire struct {
	Data       []contactWire `json:"data"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	Total      int           `json:"total"`
	TotalPages int           `json:"totalPages"`
}

func toContact(w contactWire) model.Contact {
	return model.Contact{
		ID:         w.ID,
		Email:      w.Email,
		Name:       w.Name,
		Avatar:     w.Avatar,
		Phone:      w.Phone,
		Company:    w.Company,
		Notes:      w.Notes,
		IsFavorite: w.IsFavorite,
		Groups:     w.Groups,
		CreatedAt:  parseTime(w.CreatedAt),
		UpdatedAt:  parseTime(w.UpdatedAt),
	}
}

func toContactPage(w contactPageWire) model.Page[model.Contact] {
	out := model.Page[model.Contact]{
		Data:       make([]model.Contact, 0, len(w.Data)),
		Page:       w.Page,
		PageSize:   w.PageSize,
		Total:      w.Total,
		TotalPages: w.TotalPages,
	}
	for _, c := range w.Data {
		out.Data = append(out.Data, toContact(c))
	}
	return out
}

func (r *Contacts) List(ctx context.Context, page model.PageRequest) (model.Page[model.Contact], error) {
	q := pageQuery(url.Values{}, page)
	var w contactPageWire
	if err := r.client.Get(ctx, "/contacts/", q, &w); err != nil {
		return model.Page[model.Contact]{}, err
	}
	return toContactPage(w), nil
}

func (r *Contacts) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	var w contactWire
	err := r.client.Get(ctx, "/contacts/"+id, nil, &w)
	if api.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := toContact(w)
	return &c, nil
}

func (r *Contacts) GetByEmail(ctx context.Context, email string) (*model.Contact, error) {
	var w contactWire
	err := r.client.Get(ctx, "/contacts/by-email/"+url.PathEscape(email), nil, &w)
	if api.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := toContact(w)
	return &c, nil
}

func (r *Contacts) Search(ctx context.Context, query string, page model.PageRequest) (model.Page[model.Contact], error) {
	q := pageQuery(url.Values{}, page)
	q.Set("q", query)
	var w contactPageWire
	if err := r.client.Get(ctx, "/contacts/search", q, &w); err != nil {
		return model.Page[model.Contact]{}, err
	}
	return toContactPage(w), nil
}

func (r *Contacts) Favorites(ctx context.Context) ([]model.Contact, error) {
	var wires []contactWire
	if err := r.client.Get(ctx, "/contacts/favorites", nil, &wires); err != nil {
		return nil, err
	}
	contacts := make([]model.Contact, 0, len(wires))
	for _, w := range wires {
		contacts = append(contacts, toContact(w))
	}
	return contacts, nil
}

func (r *Contacts) ByGroup(ctx context.Context, groupID string) ([]model.Contact, error) {
	var wires []contactWire
	if err := r.client.Get(ctx, "/contacts/by-group/"+groupID, nil, &wires); err != nil {
		return nil, err
	}
	contacts := make([]model.Contact, 0, len(wires))
	for _, w := range wires {
		contacts = append(contacts, toContact(w))
	}
	return contacts, nil
}

func (r *Contacts) Create(ctx context.Context, input model.ContactCreateInput) repository.Result[model.Contact] {
	var w contactWire
	if err := r.client.Post(ctx, "/contacts/", input, &w); err != nil {
		return repository.Fail[model.Contact](err)
	}
	return repository.OK(toContact(w))
}

func (r *Contacts) Update(ctx context.Context, id string, patch model.ContactPatch) repository.Result[model.Contact] {
	var w contactWire
	if err := r.client.Patch(ctx, "/contacts/"+id, patch, &w); err != nil {
		return repository.Fail[model.Contact](err)
	}
	return repository.OK(toContact(w))
}

func (r *Contacts) Delete(ctx context.Context, id string) repository.Status {
	if err := r.client.Delete(ctx, "/contacts/"+id, nil); err != nil {
		return repository.Failed(err)
	}
	return repository.Done()
}

func (r *Contacts) ToggleFavorite(ctx context.Context, id string) repository.Result[model.Contact] {
	var w contactWire
	if err := r.client.Post(ctx, "/contacts/"+id+"/toggle-favorite", nil, &w); err != nil {
		return repository.Fail[model.Contact](err)
	}
	return repository.OK(toContact(w))
}

// ContactGroups is the network-backed contact-group repository.
type ContactGroups struct {
	client *api.Client
}

type groupWire struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Color      string   `json:"color"`
	ContactIDs []string `json:"contactIds"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

func toGroup(w groupWire) model.ContactGroup {
	return model.ContactGroup{
		ID:         w.ID,
		Name:       w.Name,
		Color:      w.Color,
		ContactIDs: w.ContactIDs,
		CreatedAt:  parseTime(w.CreatedAt),
		UpdatedAt:  parseTime(w.UpdatedAt),
	}
}

func (r *ContactGroups) List(ctx context.Context) ([]model.ContactGroup, error) {
	var wires []groupWire
	if err := r.client.Get(ctx, "/contact-groups/", nil, &wires); err != nil {
		return nil, err
	}
	groups := make([]model.ContactGroup, 0, len(wires))
	for _, w := range wires {
		groups = append(groups, toGroup(w))
	}
	return groups, nil
}

func (r *ContactGroups) GetByID(ctx context.Context, id string) (*model.ContactGroup, error) {
	var w groupWire
	err := r.client.Get(ctx, "/contact-groups/"+id, nil, &w)
	if api.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g := toGroup(w)
	return &g, nil
}

func (r *ContactGroups) Create(ctx context.Context, name, color string) repository.Result[model.ContactGroup] {
	body := map[string]string{"name": name, "color": color}
	var w groupWire
	if err := r.client.Post(ctx, "/contact-groups/", body, &w); err != nil {
		return repository.Fail[model.ContactGroup](err)
	}
	return repository.OK(toGroup(w))
}

func (r *ContactGroups) Update(ctx context.Context, id string, patch model.ContactGroupPatch) repository.Result[model.ContactGroup] {
	var w groupWire
	if err := r.client.Patch(ctx, "/contact-groups/"+id, patch, &w); err != nil {
		return repository.Fail[model.ContactGroup](err)
	}
	return repository.OK(toGroup(w))
}

func (r *ContactGroups) Delete(ctx context.Context, id string) repository.Status {
	if err := r.client.Delete(ctx, "/contact-groups/"+id, nil); err != nil {
		return repository.Failed(err)
	}
	return repository.Done()
}
