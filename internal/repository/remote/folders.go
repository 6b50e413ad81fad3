package remote

import (
	"context"
	"net/url"

	"github.com/mchen04/penguin-mail/internal/api"
	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// Folders is the network-backed custom-folder repository.
type Folders struct {
	client *api.Client
}

type folderWire struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	ParentID  *string `json:"parentId"`
	Order     int     `json:"order"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toFolder(w folderWire) model.CustomFolder {
	return model.CustomFolder{
		ID:        w.ID,
		Name:      w.Name,
		Color:     w.Color,
		ParentID:  w.ParentID,
		Order:     w.Order,
		CreatedAt: parseTime(w.CreatedAt),
		UpdatedAt: parseTime(w.UpdatedAt),
	}
}

func (r *Folders) List(ctx context.Context) ([]model.CustomFolder, error) {
	var wires []folderWire
	if err := r.client.Get(ctx, "/folders/", nil, &wires); err != nil {
		return nil, err
	}
	folders := make([]model.CustomFolder, 0, len(wires))
	for _, w := range wires {
		folders = append(folders, toFolder(w))
	}
	return folders, nil
}

func (r *Folders) GetByID(ctx context.Context, id string) (*model.CustomFolder, error) {
	var w folderWire
	err := r.client.Get(ctx, "/folders/"+id, nil, &w)
	if api.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f := toFolder(w)
	return &f, nil
}

func (r *Folders) Create(ctx context.Context, name, color string, parentID *string) repository.Result[model.CustomFolder] {
	body := map[string]any{
		"name":     name,
		"color":    color,
		"parentId": parentID,
	}
	var w folderWire
	if err := r.client.Post(ctx, "/folders/", body, &w); err != nil {
		return repository.Fail[model.CustomFolder](err)
	}
	return repository.OK(toFolder(w))
}

func (r *Folders) Update(ctx context.Context, id string, patch model.FolderPatch) repository.Result[model.CustomFolder] {
	var w folderWire
	if err := r.client.Patch(ctx, "/folders/"+id, patch, &w); err != nil {
		return repository.Fail[model.CustomFolder](err)
	}
	return repository.OK(toFolder(w))
}

func (r *Folders) Delete(ctx context.Context, id string) repository.Status {
	if err := r.client.Delete(ctx, "/folders/"+id, nil); err != nil {
		return repository.Failed(err)
	}
	return repository.Done()
}

func (r *Folders) Reorder(ctx context.Context, id string, order int) repository.Status {
	q := url.Values{}
	q.Set("order", itoa(order))
	err := r.client.Do(ctx, "POST", "/folders/"+id+"/reorder", api.RequestOptions{Query: q}, nil)
	if err != nil {
		return repository.Failed(err)
	}
	return repository.Done()
}

// Labels is the network-backed label repository. Labels carry no
// timestamps, so the wire shape is the domain shape.
type Labels struct {
	client *api.Client
}

func (r *Labels) List(ctx context.Context) ([]model.Label, error) {
	var labels []model.Label
	if err := r.client.Get(ctx, "/labels/", nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (r *Labels) GetByID(ctx context.Context, id string) (*model.Label, error) {
	var label model.Label
	err := r.client.Get(ctx, "/labels/"+id, nil, &label)
	if api.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *Labels) Create(ctx context.Context, name, color string) repository.Result[model.Label] {
	body := map[string]string{"name": name, "color": color}
	var label model.Label
	if err := r.client.Post(ctx, "/labels/", body, &label); err != nil {
		return repository.Fail[model.Label](err)
	}
	return repository.OK(label)
}

func (r *Labels) Update(ctx context.Context, id string, patch model.LabelPatch) repository.Result[model.Label] {
	var label model.Label
	if err := r.client.Patch(ctx, "/labels/"+id, patch, &label); err != nil {
		return repository.Fail[model.Label](err)
	}
	return repository.OK(label)
}

func (r *Labels) Delete(ctx context.Context, id string) repository.Status {
	if err := r.client.Delete(ctx, "/labels/"+id, nil); err != nil {
		return repository.Failed(err)
	}
	return repository.Done()
}
