package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchen04/penguin-mail/internal/session"
)

// countingStore wraps a memory store and records Save/Clear calls.
type countingStore struct {
	session.MemoryStore
	mu     sync.Mutex
	saves  int
	clears int
}

func (s *countingStore) Save(creds session.Credentials) error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return s.MemoryStore.Save(creds)
}

func (s *countingStore) Clear() error {
	s.mu.Lock()
	s.clears++
	s.mu.Unlock()
	return s.MemoryStore.Clear()
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *countingStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := &countingStore{}
	require.NoError(t, store.Save(session.Credentials{Access: "old-access", Refresh: "refresh-1"}))
	store.mu.Lock()
	store.saves = 0
	store.mu.Unlock()

	return NewClient(srv.URL, store), store
}

func TestGetDecodesResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer old-access", r.Header.Get("Authorization"))
		assert.Equal(t, "/things", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(map[string]string{"name": "ok"})
	}))

	var out struct {
		Name string `json:"name"`
	}
	q := url.Values{"page": {"7"}}
	require.NoError(t, client.Get(context.Background(), "/things", q, &out))
	assert.Equal(t, "ok", out.Name)
}

func TestExpiredTokenIsRefreshedAndRetriedOnce(t *testing.T) {
	var mu sync.Mutex
	var calls []string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.URL.Path)
		mu.Unlock()

		switch r.URL.Path {
		case "/auth/refresh":
			var body struct {
				RefreshToken string `json:"refresh_token"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body.RefreshToken)
			json.NewEncoder(w).Encode(map[string]string{"access_token": "new-access"})
		case "/emails/":
			if r.Header.Get("Authorization") != "Bearer new-access" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "fresh"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	client, store := newTestClient(t, handler)

	var out struct {
		Status string `json:"status"`
	}
	require.NoError(t, client.Get(context.Background(), "/emails/", nil, &out))
	assert.Equal(t, "fresh", out.Status)

	mu.Lock()
	assert.Equal(t, []string{"/emails/", "/auth/refresh", "/emails/"}, calls)
	mu.Unlock()

	// Only the refresh saved credentials, and only the access half moved.
	assert.Equal(t, 1, store.saves)
	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new-access", creds.Access)
	assert.Equal(t, "refresh-1", creds.Refresh)
}

func TestSecondUnauthorizedEndsSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "still-bad"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	client, store := newTestClient(t, handler)

	var callbacks int
	client.SetOnUnauthorized(func() { callbacks++ })

	err := client.Get(context.Background(), "/emails/", nil, nil)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)

	assert.Equal(t, 1, callbacks)
	assert.Equal(t, 1, store.clears)
	assert.False(t, store.Authenticated())
}

func TestFailedRefreshEndsSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	client, store := newTestClient(t, handler)

	var callbacks int
	client.SetOnUnauthorized(func() { callbacks++ })

	err := client.Get(context.Background(), "/emails/", nil, nil)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 1, callbacks)
	assert.False(t, store.Authenticated())
}

func TestServerErrorCarriesDetail(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "database on fire"})
	}))

	err := client.Get(context.Background(), "/emails/", nil, nil)
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, "database on fire", se.Detail)
}

func TestServerErrorWithoutDetailGetsFallbackMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>nope</html>"))
	}))

	err := client.Get(context.Background(), "/emails/", nil, nil)
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "request failed: 502", se.Error())
}

func TestUnprocessableEntityIsValidationError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "subject required"})
	}))

	err := client.Post(context.Background(), "/emails/", map[string]string{}, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "subject required", ve.Detail)

	// Callers matching on the base type still see the status.
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.Status)
}

func TestNotFoundIsDetectable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	err := client.Get(context.Background(), "/emails/missing", nil, nil)
	assert.True(t, IsNotFound(err))
}

func TestNoContentNeedsNoBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	var out map[string]string
	require.NoError(t, client.Delete(context.Background(), "/emails/x", &out))
	assert.Nil(t, out)
}

func TestNetworkFailureIsClassified(t *testing.T) {
	store := session.NewMemoryStore()
	client := NewClient("http://127.0.0.1:1", store)

	err := client.Get(context.Background(), "/emails/", nil, nil)
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
}

func TestUploadDoesNotRetryOnUnauthorized(t *testing.T) {
	var mu sync.Mutex
	var paths []string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := client.Upload(context.Background(), "/attachments/", "a.txt", strings.NewReader("hi"), nil)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)

	mu.Lock()
	assert.Equal(t, []string{"/attachments/"}, paths)
	mu.Unlock()
}

func TestUploadSendsMultipartFile(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "notes.txt", header.Filename)
		json.NewEncoder(w).Encode(map[string]string{"id": "att-1"})
	}))

	var out struct {
		ID string `json:"id"`
	}
	err := client.Upload(context.Background(), "/attachments/", "notes.txt", strings.NewReader("body"), &out)
	require.NoError(t, err)
	assert.Equal(t, "att-1", out.ID)
}

func TestLoginStoresCredentialPair(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u@example.com", body.Email)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "a1",
			"refresh_token": "r1",
			"expires_in":    3600,
		})
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()

	store := session.NewMemoryStore()
	client := NewClient(srv.URL, store)

	require.NoError(t, client.Login(context.Background(), "u@example.com", "secret"))
	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "a1", creds.Access)
	assert.Equal(t, "r1", creds.Refresh)
}

func TestLogoutClearsCredentialsEvenOnServerError(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.Logout(context.Background())
	assert.Error(t, err)
	assert.False(t, store.Authenticated())
}
