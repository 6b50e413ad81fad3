package model

import "time"

// CustomFolder is a user-created folder. ParentID is nil for top-level
// folders; Order controls sidebar position among siblings.
type CustomFolder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	ParentID  *string   `json:"parentId"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FolderPatch is a partial folder update.
type FolderPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Label is a user-defined tag that can be attached to any message.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// LabelPatch is a partial label update.
type LabelPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}
