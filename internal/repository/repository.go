// Package repository defines the typed data-access contracts for every
// entity family. Each contract has exactly two implementations: a
// network-backed one (remote) and a SQLite-backed simulated one
// (local), selected at composition time.
//
// Behavioral contract shared by all implementations: lookups that miss
// return an absent value with a nil error; mutations never return Go
// errors, they report through Result/Status so UI code branches on a
// flag instead of the error taxonomy.
package repository

import (
	"context"

	"github.com/mchen04/penguin-mail/internal/model"
)

// Result is the uniform outcome of a data-returning mutation.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Status is the uniform outcome of a mutation with no return value.
type Status struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// OK wraps a successful mutation result.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail converts a classified error into a failed result.
func Fail[T any](err error) Result[T] {
	return Result[T]{Error: err.Error()}
}

// Done is a successful void outcome.
func Done() Status {
	return Status{Success: true}
}

// Failed converts a classified error into a failed void outcome.
func Failed(err error) Status {
	return Status{Error: err.Error()}
}

// Emails is the message repository.
type Emails interface {
	GetByID(ctx context.Context, id string) (*model.Email, error)
	ListByFolder(ctx context.Context, folder, accountID string, page model.PageRequest) (model.Page[model.Email], error)
	ListByThread(ctx context.Context, threadID string) ([]model.Email, error)
	Search(ctx context.Context, q model.EmailQuery, page model.PageRequest) (model.Page[model.Email], error)
	UnreadCount(ctx context.Context, folder, accountID string) (int, error)

	Create(ctx context.Context, input model.EmailCreateInput) Result[model.Email]
	SaveDraft(ctx context.Context, input model.EmailCreateInput) Result[model.Email]
	Update(ctx context.Context, id string, patch model.EmailPatch) Result[model.Email]
	Delete(ctx context.Context, id string) Status
	DeletePermanently(ctx context.Context, ids []string) Status

	MarkRead(ctx context.Context, ids []string) Status
	MarkUnread(ctx context.Context, ids []string) Status
	Star(ctx context.Context, ids []string) Status
	Unstar(ctx context.Context, ids []string) Status
	Move(ctx context.Context, ids []string, folder string) Status
	Archive(ctx context.Context, ids []string) Status
	AddLabels(ctx context.Context, ids, labelIDs []string) Status
	RemoveLabels(ctx context.Context, ids, labelIDs []string) Status
	DeleteMany(ctx context.Context, ids []string) Status
}

// Folders is the custom-folder repository.
type Folders interface {
	List(ctx context.Context) ([]model.CustomFolder, error)
	GetByID(ctx context.Context, id string) (*model.CustomFolder, error)
	Create(ctx context.Context, name, color string, parentID *string) Result[model.CustomFolder]
	Update(ctx context.Context, id string, patch model.FolderPatch) Result[model.CustomFolder]
	Delete(ctx context.Context, id string) Status
	Reorder(ctx context.Context, id string, order int) Status
}

// Labels is the label repository.
type Labels interface {
	List(ctx context.Context) ([]model.Label, error)
	GetByID(ctx context.Context, id string) (*model.Label, error)
	Create(ctx context.Context, name, color string) Result[model.Label]
	Update(ctx context.Context, id string, patch model.LabelPatch) Result[model.Label]
	Delete(ctx context.Context, id string) Status
}

// Accounts is the mail-account repository.
type Accounts interface {
	List(ctx context.Context) ([]model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	Default(ctx context.Context) (*model.Account, error)
	Create(ctx context.Context, input model.AccountCreateInput) Result[model.Account]
	Update(ctx context.Context, id string, patch model.AccountPatch) Result[model.Account]
	Delete(ctx context.Context, id string) Status
	SetDefault(ctx context.Context, id string) Result[model.Account]
}

// Contacts is the address-book repository.
type Contacts interface {
	List(ctx context.Context, page model.PageRequest) (model.Page[model.Contact], error)
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	GetByEmail(ctx context.Context, email string) (*model.Contact, error)
	Search(ctx context.Context, query string, page model.PageRequest) (model.Page[model.Contact], error)
	Favorites(ctx context.Context) ([]model.Contact, error)
	ByGroup(ctx context.Context, groupID string) ([]model.Contact, error)
	Create(ctx context.Context, input model.ContactCreateInput) Result[model.Contact]
	Update(ctx context.Context, id string, patch model.ContactPatch) Result[model.Contact]
	Delete(ctx context.Context, id string) Status
	ToggleFavorite(ctx context.Context, id string) Result[model.Contact]
}

// ContactGroups is the contact-group repository.
type ContactGroups interface {
	List(ctx context.Context) ([]model.ContactGroup, error)
	GetByID(ctx context.Context, id string) (*model.ContactGroup, error)
	Create(ctx context.Context, name, color string) Result[model.ContactGroup]
	Update(ctx context.Context, id string, patch model.ContactGroupPatch) Result[model.ContactGroup]
	Delete(ctx context.Context, id string) Status
}

// Settings is the per-user settings repository. Filter rules and the
// blocklist are sub-resources of the settings document.
type Settings interface {
	Get(ctx context.Context) (model.Settings, error)
	Update(ctx context.Context, patch model.SettingsPatch) Result[model.Settings]
	Reset(ctx context.Context) Result[model.Settings]

	AddSignature(ctx context.Context, name, content string, isDefault bool) Result[model.Settings]
	UpdateSignature(ctx context.Context, id string, name, content *string, isDefault *bool) Result[model.Settings]
	DeleteSignature(ctx context.Context, id string) Result[model.Settings]

	AddFilter(ctx context.Context, rule model.FilterRule) Result[model.Settings]
	UpdateFilter(ctx context.Context, id string, patch model.FilterRulePatch) Result[model.Settings]
	DeleteFilter(ctx context.Context, id string) Result[model.Settings]

	BlockAddress(ctx context.Context, email string) Result[model.Settings]
	UnblockAddress(ctx context.Context, email string) Result[model.Settings]
}

// Set bundles one implementation of every repository, chosen by the
// composition root.
type Set struct {
	Emails        Emails
	Folders       Folders
	Labels        Labels
	Accounts      Accounts
	Contacts      Contacts
	ContactGroups ContactGroups
	Settings      Settings
}
