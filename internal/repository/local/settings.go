package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// Settings is the SQLite-backed settings repository. The whole document
// lives in one JSON column; sub-resource mutations load, edit, and
// store it back.
type Settings struct {
	db *sqlx.DB
}

func defaultSettings() model.Settings {
	return model.Settings{
		Appearance: model.AppearanceSettings{
			Theme:   "system",
			Density: "comfortable",
		},
		Inbox: model.InboxSettings{
			DefaultReplyBehavior: "reply",
			ConversationView:     true,
		},
		Signatures:       []model.Signature{},
		Filters:          []model.FilterRule{},
		BlockedAddresses: []model.BlockedAddress{},
	}
}

// Get returns the settings document, seeding defaults on first use.
func (r *Settings) Get(ctx context.Context) (model.Settings, error) {
	var doc string
	err := r.db.GetContext(ctx, &doc, "SELECT document FROM settings WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		s := defaultSettings()
		if err := r.put(ctx, s); err != nil {
			return model.Settings{}, err
		}
		return s, nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("querying settings: %w", err)
	}

	var s model.Settings
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return model.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return s, nil
}

func (r *Settings) put(ctx context.Context, s model.Settings) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (id, document) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET document = excluded.document`,
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("storing settings: %w", err)
	}
	return nil
}

// edit runs one load-modify-store cycle and returns the updated
// document.
func (r *Settings) edit(ctx context.Context, fn func(*model.Settings) error) repository.Result[model.Settings] {
	s, err := r.Get(ctx)
	if err != nil {
		return repository.Fail[model.Settings](err)
	}
	if err := fn(&s); err != nil {
		return repository.Fail[model.Settings](err)
	}
	if err := r.put(ctx, s); err != nil {
		return repository.Fail[model.Settings](err)
	}
	return repository.OK(s)
}

func (r *Settings) Update(ctx context.Context, patch model.SettingsPatch) repository.Result[model.Settings] {
	return r.edit(ctx, func(s *model.Settings) error {
		if patch.Appearance != nil {
			s.Appearance = *patch.Appearance
		}
		if patch.Inbox != nil {
			s.Inbox = *patch.Inbox
		}
		if patch.Vacation != nil {
			s.Vacation = *patch.Vacation
		}
		return nil
	})
}

func (r *Settings) Reset(ctx context.Context) repository.Result[model.Settings] {
	s := defaultSettings()
	if err := r.put(ctx, s); err != nil {
		return repository.Fail[model.Settings](err)
	}
	return repository.OK(s)
}

func (r *Settings) AddSignature(ctx context.Context, name, content string, isDefault bool) repository.Result[model.Settings] {
	return r.edit(ctx, func(s *model.Settings) error {
		if isDefault {
			for i := range s.Signatures {
				s.Signatures[i].IsDefault = false
			}
		}
		s.Signatures = append(s.Signatures, model.Signature{
			ID:        uuid.NewString(),
			Name:      name,
			Content:   content,
			IsDefault: isDefault,
		})
		return nil
	})
}

func (r *Settings) UpdateSignature(ctx context.Context, id string, name, content *string, isDefault *bool) repository.Result[model.Settings] {
	return r.edit(ctx, func(s *model.Settings) error {
		idx := -1
		for i := range s.Signatures {
			if s.Signatures[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("signature %s not found", id)
		}
		if name != nil {
			s.Signatures[idx].Name = *name
		}
		if content != nil {
			s.Signatures[idx].Content = *content
		}
		if isDefault != nil {
			if *isDefault {
				for i := range s.Signatures {
					s.Signatures[i].IsDefault = false
				}
			}
			s.Signatures[idx].IsDefault = *isDefault
		}
		return nil
	})
}

func (r *Settings) DeleteSignature(ctx context.Context, id string) repository.Result[model.Settings] {
	return r.edit(ctx, func(s *model.Settings) error {
		kept := s.Signatures[:0]
		for _, sig := range s.Signatures {
			if sig.ID != id {
				kept = append(kept, sig)
			}
		}
		s.Signatures = kept
		return nil
	})
}

func (r *Settings) AddFilter(ctx context.Context, rule model.FilterRule) repository.Result[model.Settings] {
	return r.edit(ctx, func(s *model.Settings) error {
		if rule.ID == "" {
			rule.ID = uuid.NewString()
		}
		now := time.Now()
		rule.CreatedAt = now
		rule.UpdatedAt = now
		s.Filters = append(s.Filters, rule)
		return nil
	})
}

func (r *Settings) UpdateFilter(ctx context.Context, id string, patch model.FilterRulePatch) repository.Result[model.Settings] {
	return r.edit(ctx, func(s *model.Settings) error {
		idx := -1
		for i := range s.Filters {
			if s.Filters[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("filter %s not found", id)
		}
		f := &s.Filters[idx]
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.Enabled != nil {
			f.Enabled = *patch.Enabled
		}
		if patch.MatchAll != nil {
			f.MatchAll = *patch.MatchAll
		}
		if patch.Conditions != nil {
			f.Conditions = patch.Conditions
		}
		if patch.Actions != nil {
			f.Actions = patch.Actions
		}
		f.UpdatedAt = time.Now()
		return nil
	})
}

func (r *Settings) DeleteFilter(ctx context.Context, id string) repository.Result[model.Settings] {
	return r.edit(ctx, func(s *model.Settings) error {
		kept := s.Filters[:0]
		for _, f := range s.Filters {
			if f.ID != id {
				kept = append(kept, f)
			}
		}
		s.Filters = kept
		return nil
	})
}

// BlockAddress appends the address to the blocklist. Blocking an
// already blocked address is a no-op rather than a duplicate.
func (r *Settings) BlockAddress(ctx context.Context, email string) repository.Result[model.Settings] {
	return r.edit(ctx, func(s *model.Settings) error {
		for _, b := range s.BlockedAddresses {
			if b.Email == email {
				return nil
			}
		}
		s.BlockedAddresses = append(s.BlockedAddresses, model.BlockedAddress{
			ID:        uuid.NewString(),
			Email:     email,
			CreatedAt: time.Now(),
		})
		return nil
	})
}

func (r *Settings) UnblockAddress(ctx context.Context, email string) repository.Result[model.Settings] {
	return r.edit(ctx, func(s *model.Settings) error {
		kept := s.BlockedAddresses[:0]
		for _, b := range s.BlockedAddresses {
			if b.Email != email {
				kept = append(kept, b)
			}
		}
		s.BlockedAddresses = kept
		return nil
	})
}
