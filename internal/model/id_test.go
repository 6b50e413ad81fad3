package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingIDIsMarkedAndPrefixed(t *testing.T) {
	id := PendingID()

	assert.True(t, id.Pending())
	assert.True(t, strings.HasPrefix(id.String(), "local-"))

	other := PendingID()
	assert.NotEqual(t, id.String(), other.String())
}

func TestConfirmReplacesValueAndClearsPending(t *testing.T) {
	id := PendingID()

	confirmed := id.Confirm("srv-42")
	assert.False(t, confirmed.Pending())
	assert.Equal(t, "srv-42", confirmed.String())

	// The original pending value is untouched.
	assert.True(t, id.Pending())
}

func TestConfirmedIDIsNeverPending(t *testing.T) {
	id := ConfirmedID("srv-1")
	assert.False(t, id.Pending())
	assert.Equal(t, "srv-1", id.String())
}
