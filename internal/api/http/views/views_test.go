package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/listing"
)

func TestRenderer_AdminTickets(t *testing.T) {
	r := NewRenderer()
	selected := domain.Ticket{TicketID: "t-1", Title: "Printer <jammed>", Status: domain.TicketStatusOpen}

	out, err := r.Render(PageAdmin, AdminData{
		Profile: domain.UserProfile{Email: "admin@x.com"},
		Tab:     "tickets",
		Tickets: listing.Snapshot[domain.Ticket]{
			Items:      []domain.Ticket{selected},
			Visible:    []domain.Ticket{selected},
			Page:       1,
			TotalPages: 3,
			TotalCount: 12,
			Selected:   &selected,
			Panel:      listing.PanelView,
		},
		Summary:  domain.StatusSummary{Open: 1},
		Statuses: domain.TicketStatuses,
		Notice:   "ticket service unreachable",
	})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "Page 1 of 3 (12 total)")
	assert.Contains(t, html, "Printer &lt;jammed&gt;")
	assert.Contains(t, html, `class="badge badge-open"`)
	assert.Contains(t, html, "ticket service unreachable")
	assert.Contains(t, html, `/admin-dashboard/tickets/t-1/status`)
}

func TestRenderer_AdminUsers(t *testing.T) {
	user := domain.User{ID: "u1", FullName: "ada lovelace", Email: "ada@x.com", CreatedAt: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)}
	out, err := NewRenderer().Render(PageAdmin, AdminData{
		Tab:   "users",
		Users: listing.Snapshot[domain.User]{Items: []domain.User{user}, Visible: []domain.User{user}, Page: 1, TotalPages: 1},
	})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "2026-03-04")
	assert.Contains(t, html, "<td>A</td>")
	assert.NotContains(t, html, "Open <span")
}

func TestRenderer_UserEditForm(t *testing.T) {
	ticket := domain.Ticket{TicketID: "t-9", Title: "VPN", Description: "down", Status: domain.TicketStatusClosed}
	out, err := NewRenderer().Render(PageUser, UserData{
		Tickets:  listing.Snapshot[domain.Ticket]{Visible: []domain.Ticket{ticket}, Page: 1, TotalPages: 1, Selected: &ticket, Panel: listing.PanelEdit},
		Statuses: domain.TicketStatuses,
	})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `name="id" value="t-9"`)
	assert.Contains(t, html, `<option value="Closed" selected>`)
}

func TestRenderer_LoginAndUnknownPage(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render(PageLogin, LoginData{Email: "a@x.com", Notice: "Invalid credentials"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `value="a@x.com"`)

	_, err = r.Render("missing", nil)
	assert.Error(t, err)
}
