package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchen04/penguin-mail/internal/model"
)

const settingsDoc = `{
	"appearance": {"theme": "dark", "density": "compact"},
	"inboxBehavior": {"defaultReplyBehavior": "replyAll", "conversationView": true},
	"signatures": [{"id": "s1", "name": "Work", "content": "Regards", "isDefault": true}],
	"vacationResponder": {"enabled": true, "subject": "OOO", "message": "back soon",
		"startDate": "2026-09-01T00:00:00Z", "endDate": null},
	"filters": [{
		"id": "f1", "name": "newsletters", "enabled": true, "matchAll": false,
		"conditions": [{"field": "subject", "operator": "contains", "value": "newsletter"}],
		"actions": [{"type": "archive"}],
		"createdAt": "2026-01-01T00:00:00Z", "updatedAt": "2026-01-02T00:00:00Z"
	}],
	"blockedAddresses": [{"id": "b1", "email": "spam@x.y", "createdAt": "2026-01-03T00:00:00Z"}]
}`

func TestSettingsGetMapsFullDocument(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/settings/", r.URL.Path)
		io.WriteString(w, settingsDoc)
	}))

	s, err := repos.Settings.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "dark", s.Appearance.Theme)
	assert.Equal(t, "replyAll", s.Inbox.DefaultReplyBehavior)
	require.Len(t, s.Signatures, 1)
	assert.True(t, s.Signatures[0].IsDefault)

	assert.True(t, s.Vacation.Enabled)
	require.NotNil(t, s.Vacation.StartDate)
	assert.Nil(t, s.Vacation.EndDate)

	require.Len(t, s.Filters, 1)
	assert.Equal(t, model.FieldSubject, s.Filters[0].Conditions[0].Field)
	assert.Equal(t, 2026, s.Filters[0].CreatedAt.Year())

	require.Len(t, s.BlockedAddresses, 1)
	assert.Equal(t, "spam@x.y", s.BlockedAddresses[0].Email)
}

func TestAddFilterPostsRuleAndReturnsRefreshedDocument(t *testing.T) {
	var got map[string]any
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/settings/filters", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, settingsDoc)
	}))

	res := repos.Settings.AddFilter(context.Background(), model.FilterRule{
		Name:    "newsletters",
		Enabled: true,
		Conditions: []model.Condition{
			{Field: model.FieldSubject, Operator: model.OperatorContains, Value: "newsletter"},
		},
		Actions: []model.Action{{Type: model.ActionArchive}},
	})
	require.True(t, res.Success, res.Error)

	assert.Equal(t, "newsletters", got["name"])
	assert.Equal(t, true, got["enabled"])
	assert.Len(t, res.Data.Filters, 1)
}

func TestDeleteFilterRefetchesDocument(t *testing.T) {
	var calls []string
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		io.WriteString(w, settingsDoc)
	}))

	res := repos.Settings.DeleteFilter(context.Background(), "f1")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, []string{"DELETE /settings/filters/f1", "GET /settings/"}, calls)
}

func TestBlockAddressSendsEmail(t *testing.T) {
	var got map[string]string
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/settings/blocked-addresses", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, settingsDoc)
	}))

	res := repos.Settings.BlockAddress(context.Background(), "spam@x.y")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "spam@x.y", got["email"])
}

func TestUnblockAddressEscapesThePath(t *testing.T) {
	var deletePath string
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletePath = r.URL.EscapedPath()
			w.WriteHeader(http.StatusNoContent)
			return
		}
		io.WriteString(w, settingsDoc)
	}))

	res := repos.Settings.UnblockAddress(context.Background(), "a b@x.y")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "/settings/blocked-addresses/a%20b@x.y", deletePath)
}

func TestUpdateSignatureSendsOnlyProvidedFields(t *testing.T) {
	var got map[string]any
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/settings/signatures/s1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, settingsDoc)
	}))

	name := "Personal"
	res := repos.Settings.UpdateSignature(context.Background(), "s1", &name, nil, nil)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, map[string]any{"name": "Personal"}, got)
}

func TestSettingsMutationFailureMapsToResult(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail": "invalid email"}`)
	}))

	res := repos.Settings.BlockAddress(context.Background(), "not-an-email")
	assert.False(t, res.Success)
	assert.Equal(t, "invalid email", res.Error)
}
