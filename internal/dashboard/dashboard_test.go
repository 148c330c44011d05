package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/gateway"
	"github.com/spec-kit/ticket-console/internal/listing"
	"github.com/spec-kit/ticket-console/internal/session"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// fakeAPI is an in-memory ticket backend speaking the remote API's routes.
type fakeAPI struct {
	mu      sync.Mutex
	users   []domain.User
	tickets []domain.Ticket
	patches []map[string]any
	nextID  int
}

func newFakeAPI() *fakeAPI {
	api := &fakeAPI{}
	api.users = []domain.User{
		{ID: "u-admin", FullName: "Root Admin", Email: "admin@x.com"},
		{ID: "u-1", FullName: "Ada Lovelace", Email: "ada@x.com"},
		{ID: "u-2", FullName: "Grace Hopper", Email: "grace@x.com"},
	}
	for i := 1; i <= 7; i++ {
		status := domain.TicketStatusOpen
		if i%3 == 0 {
			status = domain.TicketStatusClosed
		}
		owner := "u-1"
		if i > 4 {
			owner = "u-2"
		}
		api.tickets = append(api.tickets, domain.Ticket{
			TicketID: fmt.Sprintf("t-%d", i), Title: fmt.Sprintf("Issue %d", i), Description: "details",
			Status: status, CreatedBy: owner,
		})
	}
	api.nextID = len(api.tickets)
	return api
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/user", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		page := listing.Window(f.users, atoi(r, "page"), atoi(r, "size"))
		writeJSON(w, http.StatusOK, map[string]any{"data": page.Items, "pagination": map[string]int{"totalCount": page.TotalCount}})
	})
	mux.HandleFunc("DELETE /auth/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, u := range f.users {
			if u.ID == r.PathValue("id") {
				f.users = append(f.users[:i], f.users[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
	})
	mux.HandleFunc("GET /auth/tickets", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		page := listing.Window(f.tickets, atoi(r, "page"), atoi(r, "size"))
		writeJSON(w, http.StatusOK, map[string]any{"data": page.Items, "pagination": map[string]int{"totalCount": page.TotalCount}})
	})
	mux.HandleFunc("GET /auth/tickets/my/{uid}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		mine := []domain.Ticket{}
		for _, t := range f.tickets {
			if t.CreatedBy == r.PathValue("uid") {
				mine = append(mine, t)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": mine})
	})
	mux.HandleFunc("POST /auth/tickets", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			CreatedBy   string `json:"createdBy"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextID++
		t := domain.Ticket{TicketID: fmt.Sprintf("t-%d", f.nextID), Title: body.Title, Description: body.Description, Status: domain.TicketStatusOpen, CreatedBy: body.CreatedBy}
		f.tickets = append(f.tickets, t)
		writeJSON(w, http.StatusCreated, t)
	})
	mux.HandleFunc("PATCH /auth/tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.patches = append(f.patches, body)
		for i, t := range f.tickets {
			if t.TicketID != r.PathValue("id") {
				continue
			}
			if v, ok := body["title"].(string); ok {
				t.Title = v
			}
			if v, ok := body["description"].(string); ok {
				t.Description = v
			}
			if v, ok := body["status"].(string); ok {
				t.Status = domain.TicketStatus(v)
			}
			f.tickets[i] = t
			writeJSON(w, http.StatusOK, map[string]any{"data": t})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "ticket not found"})
	})
	mux.HandleFunc("DELETE /auth/tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, t := range f.tickets {
			if t.TicketID == r.PathValue("id") {
				f.tickets = append(f.tickets[:i], f.tickets[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "ticket not found"})
	})
	return mux
}

func (f *fakeAPI) sentPatches() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.patches...)
}

func atoi(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) subscribe(d events.Dispatcher) {
	for _, t := range events.AllEventTypes {
		d.Subscribe(t, func(_ context.Context, e events.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, e)
			return nil
		})
	}
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func setup(t *testing.T, profile domain.UserProfile) (Deps, *fakeAPI, *recorder) {
	t.Helper()
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryBackend(), "visitor", nil, 0)
	require.NoError(t, store.Save(context.Background(), "tok", profile))

	dispatcher := events.NewInMemoryDispatcher(nil)
	rec := &recorder{}
	rec.subscribe(dispatcher)

	return Deps{
		Client:  gateway.NewWithHTTPClient(srv.URL, srv.Client(), nil, nil),
		Store:   store,
		Profile: profile,
		Events:  dispatcher,
		Options: listing.Options{PageSize: 5, FilterResetsPage: true},
	}, api, rec
}

var adminProfile = domain.UserProfile{ID: "u-admin", Email: "Admin@x.com", Role: domain.RoleAdmin}

func TestAdminShell_UsersTabHidesSelf(t *testing.T) {
	deps, _, _ := setup(t, adminProfile)
	shell := NewAdminShell(deps)

	require.NoError(t, shell.Ensure(context.Background()))

	snap := shell.Users().Snapshot()
	require.Len(t, snap.Items, 2)
	for _, u := range snap.Items {
		assert.NotEqual(t, "u-admin", u.ID)
	}
	assert.Equal(t, TabUsers, shell.Tab())
}

func TestAdminShell_TicketsTabAndSummary(t *testing.T) {
	ctx := context.Background()
	deps, _, _ := setup(t, adminProfile)
	shell := NewAdminShell(deps)

	require.NoError(t, shell.SelectTab(ctx, TabTickets))

	snap := shell.Tickets().Snapshot()
	assert.Len(t, snap.Items, 5)
	assert.Equal(t, 7, snap.TotalCount)
	assert.Equal(t, domain.StatusSummary{Open: 4, Closed: 1}, shell.StatusSummary())
}

func TestAdminShell_UpdateTicketStatusSendsOnlyStatus(t *testing.T) {
	ctx := context.Background()
	deps, api, rec := setup(t, adminProfile)
	shell := NewAdminShell(deps)
	require.NoError(t, shell.SelectTab(ctx, TabTickets))

	updated, err := shell.UpdateTicketStatus(ctx, "t-2", domain.TicketStatusClosed)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
	assert.Equal(t, []map[string]any{{"status": "Closed"}}, api.sentPatches())
	got, _ := shell.Tickets().Find("t-2")
	assert.Equal(t, domain.TicketStatusClosed, got.Status)
	assert.Equal(t, []events.EventType{events.EventTicketUpdated}, rec.types())
}

func TestAdminShell_UpdateUnknownTicket(t *testing.T) {
	ctx := context.Background()
	deps, api, _ := setup(t, adminProfile)
	shell := NewAdminShell(deps)
	require.NoError(t, shell.SelectTab(ctx, TabTickets))

	_, err := shell.UpdateTicketStatus(ctx, "t-7", domain.TicketStatusClosed)

	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, api.sentPatches())
	assert.NotEmpty(t, shell.Tickets().TakeNotice())
}

func TestAdminShell_DeleteUserAndTicket(t *testing.T) {
	ctx := context.Background()
	deps, _, rec := setup(t, adminProfile)
	shell := NewAdminShell(deps)
	require.NoError(t, shell.Ensure(ctx))
	require.NoError(t, shell.SelectTab(ctx, TabTickets))

	require.NoError(t, shell.DeleteUser(ctx, "u-1"))
	require.NoError(t, shell.DeleteTicket(ctx, "t-1"))

	_, found := shell.Users().Find("u-1")
	assert.False(t, found)
	_, found = shell.Tickets().Find("t-1")
	assert.False(t, found)
	assert.Equal(t, []events.EventType{events.EventUserDeleted, events.EventTicketDeleted}, rec.types())
}

func TestAdminShell_DeleteMissingTicketKeepsList(t *testing.T) {
	ctx := context.Background()
	deps, _, rec := setup(t, adminProfile)
	shell := NewAdminShell(deps)
	require.NoError(t, shell.SelectTab(ctx, TabTickets))

	err := shell.DeleteTicket(ctx, "t-404")

	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Len(t, shell.Tickets().Snapshot().Items, 5)
	assert.Equal(t, "ticket not found", shell.Tickets().TakeNotice())
	assert.Empty(t, rec.types())
}

func TestShell_Logout(t *testing.T) {
	ctx := context.Background()
	deps, _, _ := setup(t, adminProfile)
	var ended bool
	deps.OnLogout = func(context.Context) { ended = true }
	shell := NewAdminShell(deps)

	dest, err := shell.Logout(ctx)
	require.NoError(t, err)

	assert.Equal(t, auth.RedirectLogin, dest)
	assert.True(t, ended)
	_, err = deps.Store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

var userProfile = domain.UserProfile{ID: "u-1", Email: "ada@x.com", Role: domain.RoleUser}

func TestUserShell_ListsOwnTickets(t *testing.T) {
	deps, _, _ := setup(t, userProfile)
	shell := NewUserShell(deps)

	require.NoError(t, shell.Ensure(context.Background()))

	snap := shell.Tickets().Snapshot()
	assert.Len(t, snap.Items, 4)
	assert.Equal(t, 4, snap.TotalCount)
	for _, ticket := range snap.Items {
		assert.Equal(t, "u-1", ticket.CreatedBy)
	}
}

func TestUserShell_CreateTicket(t *testing.T) {
	ctx := context.Background()
	deps, _, rec := setup(t, userProfile)
	shell := NewUserShell(deps)
	require.NoError(t, shell.Ensure(ctx))
	title, desc := "VPN down", "cannot connect"

	created, err := shell.SubmitTicket(ctx, domain.TicketFields{Title: &title, Description: &desc}, "")
	require.NoError(t, err)

	assert.Equal(t, "u-1", created.CreatedBy)
	snap := shell.Tickets().Snapshot()
	assert.Len(t, snap.Items, 5)
	assert.Equal(t, created.TicketID, snap.Items[4].TicketID)
	assert.Equal(t, []events.EventType{events.EventTicketCreated}, rec.types())
}

func TestUserShell_EditSendsOnlyChangedFields(t *testing.T) {
	ctx := context.Background()
	deps, api, _ := setup(t, userProfile)
	shell := NewUserShell(deps)
	require.NoError(t, shell.Ensure(ctx))
	existing, _ := shell.Tickets().Find("t-2")
	title, desc := "Issue 2 (printer)", existing.Description

	_, err := shell.SubmitTicket(ctx, domain.TicketFields{Title: &title, Description: &desc}, "t-2")
	require.NoError(t, err)

	assert.Equal(t, []map[string]any{{"title": "Issue 2 (printer)"}}, api.sentPatches())
}

func TestUserShell_UnchangedEditSendsNothing(t *testing.T) {
	ctx := context.Background()
	deps, api, rec := setup(t, userProfile)
	shell := NewUserShell(deps)
	require.NoError(t, shell.Ensure(ctx))
	existing, _ := shell.Tickets().Find("t-2")
	shell.Tickets().SelectForEdit(existing)

	_, err := shell.SubmitTicket(ctx, domain.TicketFields{Title: &existing.Title}, "t-2")
	require.NoError(t, err)

	assert.Empty(t, api.sentPatches())
	assert.Empty(t, rec.types())
	assert.Equal(t, listing.PanelNone, shell.Tickets().Snapshot().Panel)
}

func TestUserShell_MissingUserID(t *testing.T) {
	deps, _, _ := setup(t, domain.UserProfile{Role: domain.RoleUser})
	shell := NewUserShell(deps)
	title, desc := "a", "b"

	_, err := shell.SubmitTicket(context.Background(), domain.TicketFields{Title: &title, Description: &desc}, "")
	assert.True(t, apperrors.IsValidation(err))

	err = shell.Ensure(context.Background())
	assert.True(t, apperrors.IsValidation(err))
}

func TestParseTab(t *testing.T) {
	tab, ok := ParseTab(" Tickets ")
	assert.True(t, ok)
	assert.Equal(t, TabTickets, tab)

	_, ok = ParseTab("staff")
	assert.False(t, ok)
}
