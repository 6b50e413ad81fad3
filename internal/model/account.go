package model

import "time"

// Account colors available for the sidebar indicator.
const (
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorPurple = "purple"
	ColorOrange = "orange"
	ColorPink   = "pink"
	ColorTeal   = "teal"
	ColorRed    = "red"
	ColorIndigo = "indigo"
)

// Account is a mail account the user reads and sends from. Exactly one
// account is the default sender at any time.
type Account struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Color              string    `json:"color"`
	DisplayName        string    `json:"displayName,omitempty"`
	Signature          string    `json:"signature,omitempty"`
	DefaultSignatureID string    `json:"defaultSignatureId,omitempty"`
	IsDefault          bool      `json:"isDefault"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// AccountCreateInput holds the fields required to register an account.
type AccountCreateInput struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Signature   string `json:"signature,omitempty"`
}

// AccountPatch is a partial account update.
type AccountPatch struct {
	Name               *string `json:"name,omitempty"`
	Color              *string `json:"color,omitempty"`
	DisplayName        *string `json:"displayName,omitempty"`
	Signature          *string `json:"signature,omitempty"`
	DefaultSignatureID *string `json:"defaultSignatureId,omitempty"`
	IsDefault          *bool   `json:"isDefault,omitempty"`
}
