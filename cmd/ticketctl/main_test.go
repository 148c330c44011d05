package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

type fakeTicketAPI struct {
	mu      sync.Mutex
	tickets []map[string]string
	patches []map[string]any
}

func (f *fakeTicketAPI) handler(t *testing.T) http.Handler {
	token := func() string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte("k"))
		require.NoError(t, err)
		return s
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/user/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		role, id := "user", "u-1"
		if body.Email == "admin@x.com" {
			role, id = "admin", "u-admin"
		}
		reply(w, http.StatusOK, map[string]any{"token": token(), "user": map[string]string{"user_id": id, "email": body.Email, "role": role, "fullname": "Someone"}})
	})
	mux.HandleFunc("GET /auth/user", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{
			"data": []map[string]string{
				{"_id": "u-admin", "fullname": "Root Admin", "email": "admin@x.com"},
				{"_id": "u-1", "fullname": "Ada Lovelace", "email": "ada@x.com"},
			},
			"pagination": map[string]int{"totalCount": 2},
		})
	})
	mux.HandleFunc("GET /auth/tickets/my/{uid}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, map[string]any{"data": f.tickets})
	})
	mux.HandleFunc("POST /auth/tickets", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		ticket := map[string]string{"ticket_id": "t-9", "title": body["title"], "description": body["description"], "status": "Open", "createdBy": body["createdBy"]}
		f.tickets = append(f.tickets, ticket)
		reply(w, http.StatusCreated, ticket)
	})
	mux.HandleFunc("PATCH /auth/tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.patches = append(f.patches, body)
		for _, ticket := range f.tickets {
			if ticket["ticket_id"] == r.PathValue("id") {
				if v, ok := body["status"].(string); ok {
					ticket["status"] = v
				}
				reply(w, http.StatusOK, map[string]any{"data": ticket})
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "ticket not found"})
	})
	return mux
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type harness struct {
	t   *testing.T
	api *fakeTicketAPI
	url string
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("SESSION_SECRET", "cli-test")
	api := &fakeTicketAPI{}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return &harness{t: t, api: api, url: srv.URL, dir: t.TempDir()}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--api", h.url, "--session-dir", h.dir}, args...)
	err := run(context.Background(), full, &out, &errOut)
	return out.String(), err
}

func TestTicketctl_AdminSession(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("login", "--email", "admin@x.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "admin dashboard")

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "role: admin")

	out, err = h.run("users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.NotContains(t, out, "Root Admin")
	assert.Contains(t, out, "page 1 of 1")

	_, err = h.run("tickets", "mine")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	out, err = h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "signed out")

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "not signed in")
}

func TestTicketctl_UserTickets(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("tickets", "mine")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	_, err = h.run("login", "--email", "ada@x.com", "--password", "pw")
	require.NoError(t, err)

	out, err := h.run("tickets", "create", "--title", "Broken chair", "--description", "wobbles")
	require.NoError(t, err)
	assert.Contains(t, out, "created ticket t-9")

	out, err = h.run("tickets", "mine")
	require.NoError(t, err)
	assert.Contains(t, out, "Broken chair")

	out, err = h.run("tickets", "update", "t-9", "--title", "Broken chair", "--status", "closed")
	require.NoError(t, err)
	assert.Contains(t, out, "updated ticket t-9")

	h.api.mu.Lock()
	defer h.api.mu.Unlock()
	require.Len(t, h.api.patches, 1)
	assert.Equal(t, map[string]any{"status": "Closed"}, h.api.patches[0])
}

func TestTicketctl_Usage(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), nil, &out, &errOut)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, errOut.String(), "Commands:")

	h := newHarness(t)
	_, err = h.run("frobnicate")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
