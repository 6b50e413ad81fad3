package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// Folders is the SQLite-backed custom-folder repository.
type Folders struct {
	db *sqlx.DB
}

type folderRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Color     string         `db:"color"`
	ParentID  sql.NullString `db:"parent_id"`
	SortOrder int            `db:"sort_order"`
	CreatedAt string         `db:"created_at"`
	UpdatedAt string         `db:"updated_at"`
}

func (r folderRow) toModel() model.CustomFolder {
	f := model.CustomFolder{
		ID:        r.ID,
		Name:      r.Name,
		Color:     r.Color,
		Order:     r.SortOrder,
		CreatedAt: readTime(r.CreatedAt),
		UpdatedAt: readTime(r.UpdatedAt),
	}
	if r.ParentID.Valid {
		f.ParentID = &r.ParentID.String
	}
	return f
}

func (r *Folders) List(ctx context.Context) ([]model.CustomFolder, error) {
	var rows []folderRow
	err := r.db.SelectContext(ctx, &rows, "SELECT * FROM folders ORDER BY sort_order, name")
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	out := make([]model.CustomFolder, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *Folders) GetByID(ctx context.Context, id string) (*model.CustomFolder, error) {
	var row folderRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM folders WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying folder %s: %w", id, err)
	}
	f := row.toModel()
	return &f, nil
}

func (r *Folders) Create(ctx context.Context, name, color string, parentID *string) repository.Result[model.CustomFolder] {
	now := formatTime(time.Now())
	var order int
	if err := r.db.GetContext(ctx, &order, "SELECT COALESCE(MAX(sort_order), -1) + 1 FROM folders"); err != nil {
		return repository.Fail[model.CustomFolder](err)
	}

	row := folderRow{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		SortOrder: order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if parentID != nil {
		row.ParentID = sql.NullString{String: *parentID, Valid: true}
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO folders (id, name, color, parent_id, sort_order, created_at, updated_at)
		VALUES (:id, :name, :color, :parent_id, :sort_order, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return repository.Fail[model.CustomFolder](fmt.Errorf("creating folder: %w", err))
	}
	return repository.OK(row.toModel())
}

func (r *Folders) Update(ctx context.Context, id string, patch model.FolderPatch) repository.Result[model.CustomFolder] {
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
		query := "UPDATE folders SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return repository.Fail[model.CustomFolder](fmt.Errorf("updating folder %s: %w", id, err))
		}
	}

	f, err := r.GetByID(ctx, id)
	if err != nil {
		return repository.Fail[model.CustomFolder](err)
	}
	if f == nil {
		return repository.Fail[model.CustomFolder](fmt.Errorf("folder %s not found", id))
	}
	return repository.OK(*f)
}

// Delete removes the folder and moves its messages back to the inbox,
// matching the server's cascade.
func (r *Folders) Delete(ctx context.Context, id string) repository.Status {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE emails SET folder = ? WHERE folder = ?", model.FolderInbox, id,
	); err != nil {
		return repository.Failed(fmt.Errorf("reassigning folder contents: %w", err))
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id); err != nil {
		return repository.Failed(fmt.Errorf("deleting folder %s: %w", id, err))
	}
	return repository.Done()
}

func (r *Folders) Reorder(ctx context.Context, id string, order int) repository.Status {
	_, err := r.db.ExecContext(ctx,
		"UPDATE folders SET sort_order = ?, updated_at = ? WHERE id = ?",
		order, formatTime(time.Now()), id,
	)
	if err != nil {
		return repository.Failed(fmt.Errorf("reordering folder %s: %w", id, err))
	}
	return repository.Done()
}

// Labels is the SQLite-backed label repository.
type Labels struct {
	db *sqlx.DB
}

type labelRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Color string `db:"color"`
}

func (r *Labels) List(ctx context.Context) ([]model.Label, error) {
	var rows []labelRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM labels ORDER BY name"); err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}
	out := make([]model.Label, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Label(row))
	}
	return out, nil
}

func (r *Labels) GetByID(ctx context.Context, id string) (*model.Label, error) {
	var row labelRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM labels WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying label %s: %w", id, err)
	}
	l := model.Label(row)
	return &l, nil
}

func (r *Labels) Create(ctx context.Context, name, color string) repository.Result[model.Label] {
	l := model.Label{ID: uuid.NewString(), Name: name, Color: color}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO labels (id, name, color) VALUES (?, ?, ?)", l.ID, l.Name, l.Color,
	)
	if err != nil {
		return repository.Fail[model.Label](fmt.Errorf("creating label: %w", err))
	}
	return repository.OK(l)
}

func (r *Labels) Update(ctx context.Context, id string, patch model.LabelPatch) repository.Result[model.Label] {
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
		args = append(args, id)
		query := "UPDATE labels SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return repository.Fail[model.Label](fmt.Errorf("updating label %s: %w", id, err))
		}
	}

	l, err := r.GetByID(ctx, id)
	if err != nil {
		return repository.Fail[model.Label](err)
	}
	if l == nil {
		return repository.Fail[model.Label](fmt.Errorf("label %s not found", id))
	}
	return repository.OK(*l)
}

// Delete removes the label and strips it from every message carrying
// it.
func (r *Labels) Delete(ctx context.Context, id string) repository.Status {
	emails := &Emails{db: r.db}

	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		"SELECT id FROM emails WHERE labels_json LIKE ?", "%"+`"`+id+`"`+"%",
	)
	if err != nil {
		return repository.Failed(fmt.Errorf("finding labelled emails: %w", err))
	}
	if len(ids) > 0 {
		if st := emails.RemoveLabels(ctx, ids, []string{id}); !st.Success {
			return st
		}
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM labels WHERE id = ?", id); err != nil {
		return repository.Failed(fmt.Errorf("deleting label %s: %w", id, err))
	}
	return repository.Done()
}
