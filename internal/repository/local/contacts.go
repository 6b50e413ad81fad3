package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// Contacts is the SQLite-backed address-book repository.
type Contacts struct {
	db *sqlx.DB
}

type contactRow struct {
	ID         string `db:"id"`
	Email      string `db:"email"`
	Name       string `db:"name"`
	Avatar     string `db:"avatar"`
	Phone      string `db:"phone"`
	Company    string `db:"company"`
	Notes      string `db:"notes"`
	IsFavorite int    `db:"is_favorite"`
	GroupsJSON string `db:"groups_json"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

func (r contactRow) toModel() (model.Contact, error) {
	c := model.Contact{
		ID:         r.ID,
		Email:      r.Email,
		Name:       r.Name,
		Avatar:     r.Avatar,
		Phone:      r.Phone,
		Company:    r.Company,
		Notes:      r.Notes,
		IsFavorite: r.IsFavorite != 0,
		CreatedAt:  readTime(r.CreatedAt),
		UpdatedAt:  readTime(r.UpdatedAt),
	}
	if err := json.Unmarshal([]byte(r.GroupsJSON), &c.Groups); err != nil {
		return model.Contact{}, fmt.Errorf("decoding contact %s: %w", r.ID, err)
	}
	return c, nil
}

func (r *Contacts) rowsToModels(rows []contactRow) ([]model.Contact, error) {
	out := make([]model.Contact, 0, len(rows))
	for _, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Contacts) List(ctx context.Context, page model.PageRequest) (model.Page[model.Contact], error) {
	return r.list(ctx, "", nil, page)
}

func (r *Contacts) Search(ctx context.Context, query string, page model.PageRequest) (model.Page[model.Contact], error) {
	like := "%" + query + "%"
	return r.list(ctx,
		" WHERE name LIKE ? OR email LIKE ? OR company LIKE ?",
		[]any{like, like, like}, page,
	)
}

func (r *Contacts) list(ctx context.Context, where string, args []any, page model.PageRequest) (model.Page[model.Contact], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM contacts"+where, args...); err != nil {
		return model.Page[model.Contact]{}, fmt.Errorf("counting contacts: %w", err)
	}

	pageNum := page.Page
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize := page.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	query := "SELECT * FROM contacts" + where +
		fmt.Sprintf(" ORDER BY name LIMIT %d OFFSET %d", pageSize, (pageNum-1)*pageSize)
	var rows []contactRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return model.Page[model.Contact]{}, fmt.Errorf("querying contacts: %w", err)
	}

	data, err := r.rowsToModels(rows)
	if err != nil {
		return model.Page[model.Contact]{}, err
	}
	return model.Page[model.Contact]{
		Data:       data,
		Page:       pageNum,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (r *Contacts) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *Contacts) GetByEmail(ctx context.Context, email string) (*model.Contact, error) {
	return r.getWhere(ctx, "email = ?", email)
}

func (r *Contacts) getWhere(ctx context.Context, cond string, arg any) (*model.Contact, error) {
	var row contactRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM contacts WHERE "+cond, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying contact: %w", err)
	}
	c, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Contacts) Favorites(ctx context.Context) ([]model.Contact, error) {
	var rows []contactRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM contacts WHERE is_favorite = 1 ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing favorite contacts: %w", err)
	}
	return r.rowsToModels(rows)
}

func (r *Contacts) ByGroup(ctx context.Context, groupID string) ([]model.Contact, error) {
	var rows []contactRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM contacts WHERE groups_json LIKE ? ORDER BY name",
		"%"+`"`+groupID+`"`+"%")
	if err != nil {
		return nil, fmt.Errorf("listing group contacts: %w", err)
	}
	return r.rowsToModels(rows)
}

func (r *Contacts) Create(ctx context.Context, input model.ContactCreateInput) repository.Result[model.Contact] {
	groupsJSON, err := json.Marshal(orEmptyStrings(input.Groups))
	if err != nil {
		return repository.Fail[model.Contact](err)
	}
	now := formatTime(time.Now())
	row := contactRow{
		ID:         uuid.NewString(),
		Email:      input.Email,
		Name:       input.Name,
		Avatar:     input.Avatar,
		Phone:      input.Phone,
		Company:    input.Company,
		Notes:      input.Notes,
		GroupsJSON: string(groupsJSON),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO contacts (
			id, email, name, avatar, phone, company, notes,
			is_favorite, groups_json, created_at, updated_at
		) VALUES (
			:id, :email, :name, :avatar, :phone, :company, :notes,
			:is_favorite, :groups_json, :created_at, :updated_at
		)`,
		row,
	)
	if err != nil {
		return repository.Fail[model.Contact](fmt.Errorf("creating contact: %w", err))
	}

	c, err := row.toModel()
	if err != nil {
		return repository.Fail[model.Contact](err)
	}
	return repository.OK(c)
}

func (r *Contacts) Update(ctx context.Context, id string, patch model.ContactPatch) repository.Result[model.Contact] {
	var sets []string
	var args []any
	for _, f := range []struct {
		col string
		val *string
	}{
		{"email", patch.Email},
		{"name", patch.Name},
		{"avatar", patch.Avatar},
		{"phone", patch.Phone},
		{"company", patch.Company},
		{"notes", patch.Notes},
	} {
		if f.val != nil {
			sets = append(sets, f.col+" = ?")
			args = append(args, *f.val)
		}
	}
	if patch.IsFavorite != nil {
		sets = append(sets, "is_favorite = ?")
		args = append(args, boolToInt(*patch.IsFavorite))
	}
	if patch.Groups != nil {
		groupsJSON, err := json.Marshal(patch.Groups)
		if err != nil {
			return repository.Fail[model.Contact](err)
		}
		sets = append(sets, "groups_json = ?")
		args = append(args, string(groupsJSON))
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, formatTime(time.Now()), id)
		query := "UPDATE contacts SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return repository.Fail[model.Contact](fmt.Errorf("updating contact %s: %w", id, err))
		}
	}

	c, err := r.GetByID(ctx, id)
	if err != nil {
		return repository.Fail[model.Contact](err)
	}
	if c == nil {
		return repository.Fail[model.Contact](fmt.Errorf("contact %s not found", id))
	}
	return repository.OK(*c)
}

func (r *Contacts) Delete(ctx context.Context, id string) repository.Status {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id); err != nil {
		return repository.Failed(fmt.Errorf("deleting contact %s: %w", id, err))
	}
	return repository.Done()
}

func (r *Contacts) ToggleFavorite(ctx context.Context, id string) repository.Result[model.Contact] {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return repository.Fail[model.Contact](err)
	}
	if c == nil {
		return repository.Fail[model.Contact](fmt.Errorf("contact %s not found", id))
	}
	flipped := !c.IsFavorite
	return r.Update(ctx, id, model.ContactPatch{IsFavorite: &flipped})
}

// ContactGroups is the SQLite-backed contact-group repository.
type ContactGroups struct {
	db *sqlx.DB
}

type groupRow struct {
	ID             string `db:"id"`
	Name           string `db:"name"`
	Color          string `db:"color"`
	ContactIDsJSON string `db:"contact_ids_json"`
	CreatedAt      string `db:"created_at"`
	UpdatedAt      string `db:"updated_at"`
}

func (r groupRow) toModel() (model.ContactGroup, error) {
	g := model.ContactGroup{
		ID:        r.ID,
		Name:      r.Name,
		Color:     r.Color,
		CreatedAt: readTime(r.CreatedAt),
		UpdatedAt: readTime(r.UpdatedAt),
	}
	if err := json.Unmarshal([]byte(r.ContactIDsJSON), &g.ContactIDs); err != nil {
		return model.ContactGroup{}, fmt.Errorf("decoding contact group %s: %w", r.ID, err)
	}
	return g, nil
}

func (r *ContactGroups) List(ctx context.Context) ([]model.ContactGroup, error) {
	var rows []groupRow
	err := r.db.SelectContext(ctx, &rows, "SELECT * FROM contact_groups ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing contact groups: %w", err)
	}
	out := make([]model.ContactGroup, 0, len(rows))
	for _, row := range rows {
		g, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *ContactGroups) GetByID(ctx context.Context, id string) (*model.ContactGroup, error) {
	var row groupRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM contact_groups WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying contact group %s: %w", id, err)
	}
	g, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *ContactGroups) Create(ctx context.Context, name, color string) repository.Result[model.ContactGroup] {
	now := formatTime(time.Now())
	row := groupRow{
		ID:             uuid.NewString(),
		Name:           name,
		Color:          color,
		ContactIDsJSON: "[]",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO contact_groups (id, name, color, contact_ids_json, created_at, updated_at)
		VALUES (:id, :name, :color, :contact_ids_json, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return repository.Fail[model.ContactGroup](fmt.Errorf("creating contact group: %w", err))
	}
	g, err := row.toModel()
	if err != nil {
		return repository.Fail[model.ContactGroup](err)
	}
	return repository.OK(g)
}

func (r *ContactGroups) Update(ctx context.Context, id string, patch model.ContactGroupPatch) repository.Result[model.ContactGroup] {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *patch.Color)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, formatTime(time.Now()), id)
		query := "UPDATE contact_groups SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return repository.Fail[model.ContactGroup](fmt.Errorf("updating contact group %s: %w", id, err))
		}
	}

	g, err := r.GetByID(ctx, id)
	if err != nil {
		return repository.Fail[model.ContactGroup](err)
	}
	if g == nil {
		return repository.Fail[model.ContactGroup](fmt.Errorf("contact group %s not found", id))
	}
	return repository.OK(*g)
}

// Delete removes the group and detaches it from its members.
func (r *ContactGroups) Delete(ctx context.Context, id string) repository.Status {
	contacts := &Contacts{db: r.db}
	members, err := contacts.ByGroup(ctx, id)
	if err != nil {
		return repository.Failed(err)
	}
	for _, c := range members {
		var kept []string
		for _, g := range c.Groups {
			if g != id {
				kept = append(kept, g)
			}
		}
		if res := contacts.Update(ctx, c.ID, model.ContactPatch{Groups: orEmptyStrings(kept)}); !res.Success {
			return repository.Status{Error: res.Error}
		}
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM contact_groups WHERE id = ?", id); err != nil {
		return repository.Failed(fmt.Errorf("deleting contact group %s: %w", id, err))
	}
	return repository.Done()
}
