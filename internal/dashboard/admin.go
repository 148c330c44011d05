package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/listing"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// Tab is an admin dashboard tab.
type Tab string

const (
	TabUsers   Tab = "users"
	TabTickets Tab = "tickets"
)

// ParseTab accepts "users" or "tickets".
func ParseTab(s string) (Tab, bool) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabUsers:
		return TabUsers, true
	case TabTickets:
		return TabTickets, true
	}
	return "", false
}

// AdminShell is the administrator's dashboard: users and tickets tabs.
type AdminShell struct {
	shell
	users   *listing.Controller[domain.User, UserPayload]
	tickets *listing.Controller[domain.Ticket, domain.TicketFields]

	mu  sync.Mutex
	tab Tab
}

// NewAdminShell builds the admin dashboard, starting on the users tab.
func NewAdminShell(d Deps) *AdminShell {
	s := &AdminShell{shell: newShell(d), tab: TabUsers}
	s.users = listing.New[domain.User, UserPayload](
		NewUserResource(s.client, d.Profile.Email), UserDescriptor, d.Options, s.logger)
	s.tickets = listing.New[domain.Ticket, domain.TicketFields](
		NewTicketResource(s.client, d.Profile.ID), TicketDescriptor, d.Options, s.logger)
	return s
}

// Users is the users tab controller.
func (s *AdminShell) Users() *listing.Controller[domain.User, UserPayload] { return s.users }

// Tickets is the tickets tab controller.
func (s *AdminShell) Tickets() *listing.Controller[domain.Ticket, domain.TicketFields] {
	return s.tickets
}

// Tab returns the selected tab.
func (s *AdminShell) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// SelectTab switches tabs and loads the tab's list the first time it is shown.
func (s *AdminShell) SelectTab(ctx context.Context, tab Tab) error {
	s.mu.Lock()
	s.tab = tab
	s.mu.Unlock()
	return s.Ensure(ctx)
}

// Ensure loads the selected tab's list unless it already holds a page.
func (s *AdminShell) Ensure(ctx context.Context) error {
	if s.Tab() == TabTickets {
		return ensure(ctx, s.tickets)
	}
	return ensure(ctx, s.users)
}

// Refresh refetches the current page of the selected tab.
func (s *AdminShell) Refresh(ctx context.Context) error {
	if s.Tab() == TabTickets {
		return s.tickets.Mount(ctx)
	}
	return s.users.Mount(ctx)
}

// UpdateTicketStatus changes only the status of a loaded ticket.
func (s *AdminShell) UpdateTicketStatus(ctx context.Context, id string, status domain.TicketStatus) (domain.Ticket, error) {
	existing, ok := s.tickets.Find(id)
	if !ok {
		return domain.Ticket{}, s.tickets.Report(apperrors.NewValidationError("ticket is not on the current page", map[string]any{"ticket_id": id}))
	}
	if _, err := domain.ParseTicketStatus(string(status)); err != nil {
		return domain.Ticket{}, s.tickets.Report(apperrors.NewValidationError(err.Error(), nil))
	}
	fields := domain.TicketFields{Status: &status}
	updated, err := s.tickets.Save(ctx, fields, &existing)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, events.EventTicketUpdated, updated.TicketID, events.TicketPayloadFor(updated, fields))
	return updated, nil
}

// DeleteTicket removes a ticket and drops it from the tickets tab.
func (s *AdminShell) DeleteTicket(ctx context.Context, id string) error {
	existing, _ := s.tickets.Find(id)
	if err := s.tickets.Remove(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventTicketDeleted, id, events.TicketPayload{Title: existing.Title, Status: existing.Status})
	return nil
}

// DeleteUser removes an account and drops it from the users tab.
func (s *AdminShell) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Remove(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventUserDeleted, id, nil)
	return nil
}

// StatusSummary counts the loaded ticket page by status.
func (s *AdminShell) StatusSummary() domain.StatusSummary {
	return domain.SummarizeStatuses(s.tickets.Snapshot().Items)
}
