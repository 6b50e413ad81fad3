package model

import "time"

// Contact is an address-book entry. Groups holds the IDs of every
// contact group the contact belongs to.
type Contact struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Company    string    `json:"company,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	IsFavorite bool      `json:"isFavorite"`
	Groups     []string  `json:"groups,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ContactCreateInput holds the fields for creating a contact.
type ContactCreateInput struct {
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Avatar  string   `json:"avatar"`
	Phone   string   `json:"phone"`
	Company string   `json:"company"`
	Notes   string   `json:"notes"`
	Groups  []string `json:"groups"`
}

// ContactPatch is a partial contact update.
type ContactPatch struct {
	Email      *string  `json:"email,omitempty"`
	Name       *string  `json:"name,omitempty"`
	Avatar     *string  `json:"avatar,omitempty"`
	Phone      *string  `json:"phone,omitempty"`
	Company    *string  `json:"company,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	IsFavorite *bool    `json:"isFavorite,omitempty"`
	Groups     []string `json:"groups,omitempty"`
}

// ContactGroup is a named collection of contacts.
type ContactGroup struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	ContactIDs []string  `json:"contactIds,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ContactGroupPatch is a partial contact-group update.
type ContactGroupPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}
