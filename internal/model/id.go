package model

import "github.com/google/uuid"

// ID distinguishes locally fabricated identifiers (awaiting server
// confirmation) from server-assigned ones, so an optimistic entity can
// never be mistaken for a confirmed one.
type ID struct {
	value   string
	pending bool
}

// PendingID fabricates a new local identifier for an entity that has
// not yet been acknowledged by the server.
func PendingID() ID {
	return ID{value: "local-" + uuid.NewString(), pending: true}
}

// ConfirmedID wraps a server-assigned identifier.
func ConfirmedID(v string) ID {
	return ID{value: v}
}

// String returns the raw identifier value.
func (id ID) String() string { return id.value }

// Pending reports whether the identifier is still awaiting server
// confirmation.
func (id ID) Pending() bool { return id.pending }

// Confirm returns the confirmed identifier for a pending one once the
// server has assigned the real value.
func (id ID) Confirm(server string) ID {
	return ID{value: server}
}
