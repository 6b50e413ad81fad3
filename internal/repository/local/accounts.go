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

// Accounts is the SQLite-backed mail-account repository.
type Accounts struct {
	db *sqlx.DB
}

type accountRow struct {
	ID                 string `db:"id"`
	Email              string `db:"email"`
	Name               string `db:"name"`
	Color              string `db:"color"`
	DisplayName        string `db:"display_name"`
	Signature          string `db:"signature"`
	DefaultSignatureID string `db:"default_signature_id"`
	IsDefault          int    `db:"is_default"`
	CreatedAt          string `db:"created_at"`
	UpdatedAt          string `db:"updated_at"`
}

func (r accountRow) toModel() model.Account {
	return model.Account{
		ID:                 r.ID,
		Email:              r.Email,
		Name:               r.Name,
		Color:              r.Color,
		DisplayName:        r.DisplayName,
		Signature:          r.Signature,
		DefaultSignatureID: r.DefaultSignatureID,
		IsDefault:          r.IsDefault != 0,
		CreatedAt:          readTime(r.CreatedAt),
		UpdatedAt:          readTime(r.UpdatedAt),
	}
}

func (r *Accounts) List(ctx context.Context) ([]model.Account, error) {
	var rows []accountRow
	err := r.db.SelectContext(ctx, &rows, "SELECT * FROM accounts ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	out := make([]model.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *Accounts) GetByID(ctx context.Context, id string) (*model.Account, error) {
	var row accountRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM accounts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying account %s: %w", id, err)
	}
	a := row.toModel()
	return &a, nil
}

// Default returns the default sender account, falling back to the
// oldest account when none is flagged.
func (r *Accounts) Default(ctx context.Context) (*model.Account, error) {
	var row accountRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM accounts WHERE is_default = 1 LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		err = r.db.GetContext(ctx, &row, "SELECT * FROM accounts ORDER BY created_at LIMIT 1")
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("querying default account: %w", err)
	}
	a := row.toModel()
	return &a, nil
}

func (r *Accounts) Create(ctx context.Context, input model.AccountCreateInput) repository.Result[model.Account] {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM accounts"); err != nil {
		return repository.Fail[model.Account](err)
	}

	color := input.Color
	if color == "" {
		color = model.ColorBlue
	}
	now := formatTime(time.Now())
	row := accountRow{
		ID:          uuid.NewString(),
		Email:       input.Email,
		Name:        input.Name,
		Color:       color,
		DisplayName: input.DisplayName,
		Signature:   input.Signature,
		IsDefault:   boolToInt(count == 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO accounts (
			id, email, name, color, display_name, signature,
			default_signature_id, is_default, created_at, updated_at
		) VALUES (
			:id, :email, :name, :color, :display_name, :signature,
			:default_signature_id, :is_default, :created_at, :updated_at
		)`,
		row,
	)
	if err != nil {
		return repository.Fail[model.Account](fmt.Errorf("creating account: %w", err))
	}
	return repository.OK(row.toModel())
}

func (r *Accounts) Update(ctx context.Context, id string, patch model.AccountPatch) repository.Result[model.Account] {
	if patch.IsDefault != nil && *patch.IsDefault {
		if res := r.SetDefault(ctx, id); !res.Success {
			return res
		}
	}

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
	if patch.DisplayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, *patch.DisplayName)
	}
	if patch.Signature != nil {
		sets = append(sets, "signature = ?")
		args = append(args, *patch.Signature)
	}
	if patch.DefaultSignatureID != nil {
		sets = append(sets, "default_signature_id = ?")
		args = append(args, *patch.DefaultSignatureID)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, formatTime(time.Now()), id)
		query := "UPDATE accounts SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return repository.Fail[model.Account](fmt.Errorf("updating account %s: %w", id, err))
		}
	}

	a, err := r.GetByID(ctx, id)
	if err != nil {
		return repository.Fail[model.Account](err)
	}
	if a == nil {
		return repository.Fail[model.Account](fmt.Errorf("account %s not found", id))
	}
	return repository.OK(*a)
}

// Delete removes the account. When the default account is deleted the
// flag moves to the oldest remaining one.
func (r *Accounts) Delete(ctx context.Context, id string) repository.Status {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return repository.Failed(err)
	}
	if a == nil {
		return repository.Done()
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id); err != nil {
		return repository.Failed(fmt.Errorf("deleting account %s: %w", id, err))
	}

	if a.IsDefault {
		_, err := r.db.ExecContext(ctx, `
			UPDATE accounts SET is_default = 1
			WHERE id = (SELECT id FROM accounts ORDER BY created_at LIMIT 1)`)
		if err != nil {
			return repository.Failed(fmt.Errorf("promoting replacement default: %w", err))
		}
	}
	return repository.Done()
}

// SetDefault makes exactly one account the default sender.
func (r *Accounts) SetDefault(ctx context.Context, id string) repository.Result[model.Account] {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return repository.Fail[model.Account](err)
	}
	if a == nil {
		return repository.Fail[model.Account](fmt.Errorf("account %s not found", id))
	}

	if _, err := r.db.ExecContext(ctx, "UPDATE accounts SET is_default = 0"); err != nil {
		return repository.Fail[model.Account](fmt.Errorf("clearing default flags: %w", err))
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET is_default = 1, updated_at = ? WHERE id = ?",
		formatTime(time.Now()), id,
	); err != nil {
		return repository.Fail[model.Account](fmt.Errorf("setting default account: %w", err))
	}

	a.IsDefault = true
	return repository.OK(*a)
}
