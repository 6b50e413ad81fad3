package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchen04/penguin-mail/internal/api"
	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
	"github.com/mchen04/penguin-mail/internal/session"
)

func newTestSet(t *testing.T, handler http.Handler) repository.Set {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	require.NoError(t, store.Save(session.Credentials{Access: "token", Refresh: "refresh"}))
	return New(api.NewClient(srv.URL, store))
}

func TestGetByIDParsesWirePayload(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/emails/e1", r.URL.Path)
		io.WriteString(w, `{
			"id": "e1",
			"accountId": "acc1",
			"from_": {"name": "Sam", "email": "sam@example.com"},
			"to": [{"name": "Pat", "email": "pat@example.com"}],
			"subject": "hello",
			"date": "2026-08-29T10:30:00.123456",
			"isRead": false,
			"labels": ["l1"]
		}`)
	}))

	e, err := repos.Emails.GetByID(context.Background(), "e1")
	require.NoError(t, err)
	require.NotNil(t, e)

	assert.Equal(t, "sam@example.com", e.From.Email)
	assert.Equal(t, []string{"l1"}, e.Labels)
	// No threadId on the wire means the message anchors its own thread.
	assert.Equal(t, "e1", e.ThreadID)
	// Django-style naive timestamps still parse.
	assert.Equal(t, 2026, e.Date.Year())
	assert.Equal(t, time.August, e.Date.Month())
}

func TestGetByIDSwallowsNotFound(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	e, err := repos.Emails.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestListByFolderPassesPaginationThrough(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails/", r.URL.Path)
		assert.Equal(t, "inbox", r.URL.Query().Get("folder"))
		assert.Equal(t, "acc1", r.URL.Query().Get("accountId"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("pageSize"))
		io.WriteString(w, `{
			"data": [{"id": "e1", "from": {"name": "", "email": "a@b.c"}}],
			"page": 3, "pageSize": 25, "total": 51, "totalPages": 3
		}`)
	}))

	page, err := repos.Emails.ListByFolder(context.Background(), model.FolderInbox, "acc1",
		model.PageRequest{Page: 3, PageSize: 25})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 51, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "a@b.c", page.Data[0].From.Email)
}

func TestSearchSendsOnlySetFilters(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "invoice", q.Get("search"))
		assert.Equal(t, "true", q.Get("isStarred"))
		assert.Equal(t, "l1,l2", q.Get("labelIds"))
		assert.False(t, q.Has("isRead"))
		assert.False(t, q.Has("hasAttachment"))
		assert.False(t, q.Has("folder"))
		io.WriteString(w, `{"data": [], "page": 1, "pageSize": 50, "total": 0, "totalPages": 0}`)
	}))

	starred := true
	_, err := repos.Emails.Search(context.Background(), model.EmailQuery{
		Text:      "invoice",
		IsStarred: &starred,
		Labels:    []string{"l1", "l2"},
	}, model.PageRequest{})
	require.NoError(t, err)
}

func TestUnreadCountUsesServerTotal(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "false", q.Get("isRead"))
		assert.Equal(t, "1", q.Get("pageSize"))
		io.WriteString(w, `{"data": [{"id": "e9"}], "page": 1, "pageSize": 1, "total": 42, "totalPages": 42}`)
	}))

	n, err := repos.Emails.UnreadCount(context.Background(), model.FolderInbox, "")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestUpdateOmitsUnsetPatchFields(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, map[string]any{"isRead": true}, payload)

		io.WriteString(w, `{"id": "e1", "isRead": true, "from": {"name": "", "email": "a@b.c"}}`)
	}))

	isRead := true
	res := repos.Emails.Update(context.Background(), "e1", model.EmailPatch{IsRead: &isRead})
	require.True(t, res.Success, res.Error)
	assert.True(t, res.Data.IsRead)
}

func TestCreateFailureReportsThroughResult(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail": "recipient required"}`)
	}))

	res := repos.Emails.Create(context.Background(), model.EmailCreateInput{Subject: "x"})
	assert.False(t, res.Success)
	assert.Equal(t, "recipient required", res.Error)
}

func TestBulkOperations(t *testing.T) {
	tests := []struct {
		name string
		call func(e repository.Emails) repository.Status
		want map[string]any
	}{
		{
			name: "mark read",
			call: func(e repository.Emails) repository.Status {
				return e.MarkRead(context.Background(), []string{"a", "b"})
			},
			want: map[string]any{"ids": []any{"a", "b"}, "operation": "markRead"},
		},
		{
			name: "move carries the folder",
			call: func(e repository.Emails) repository.Status {
				return e.Move(context.Background(), []string{"a"}, "receipts")
			},
			want: map[string]any{"ids": []any{"a"}, "operation": "move", "folder": "receipts"},
		},
		{
			name: "add labels carries label ids",
			call: func(e repository.Emails) repository.Status {
				return e.AddLabels(context.Background(), []string{"a"}, []string{"l1"})
			},
			want: map[string]any{"ids": []any{"a"}, "operation": "addLabel", "labelIds": []any{"l1"}},
		},
		{
			name: "delete many is a soft delete",
			call: func(e repository.Emails) repository.Status {
				return e.DeleteMany(context.Background(), []string{"a"})
			},
			want: map[string]any{"ids": []any{"a"}, "operation": "delete"},
		},
		{
			name: "permanent delete",
			call: func(e repository.Emails) repository.Status {
				return e.DeletePermanently(context.Background(), []string{"a"})
			},
			want: map[string]any{"ids": []any{"a"}, "operation": "deletePermanent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/emails/bulk", r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(http.StatusNoContent)
			}))

			st := tt.call(repos.Emails)
			require.True(t, st.Success, st.Error)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeleteSingleUsesRestDelete(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/emails/e1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	st := repos.Emails.Delete(context.Background(), "e1")
	assert.True(t, st.Success)
}

func TestSaveDraftPostsToDraftEndpoint(t *testing.T) {
	repos := newTestSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails/draft", r.URL.Path)
		io.WriteString(w, `{"id": "d1", "isDraft": true, "from": {"name": "", "email": "me@x.y"}}`)
	}))

	res := repos.Emails.SaveDraft(context.Background(), model.EmailCreateInput{Subject: "wip"})
	require.True(t, res.Success, res.Error)
	assert.True(t, res.Data.IsDraft)
}
