package dashboard

import (
	"context"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/listing"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// UserShell is an end user's dashboard over their own tickets.
type UserShell struct {
	shell
	tickets *listing.Controller[domain.Ticket, domain.TicketFields]
}

// NewUserShell builds the user dashboard.
func NewUserShell(d Deps) *UserShell {
	s := &UserShell{shell: newShell(d)}
	s.tickets = listing.New[domain.Ticket, domain.TicketFields](
		NewMyTicketResource(s.client, d.Profile.ID), TicketDescriptor, d.Options, s.logger)
	return s
}

// Tickets is the "my tickets" controller.
func (s *UserShell) Tickets() *listing.Controller[domain.Ticket, domain.TicketFields] {
	return s.tickets
}

// Ensure loads the ticket list unless it already holds a page.
func (s *UserShell) Ensure(ctx context.Context) error {
	return ensure(ctx, s.tickets)
}

// Refresh refetches the current page.
func (s *UserShell) Refresh(ctx context.Context) error {
	return s.tickets.Mount(ctx)
}

// SubmitTicket creates a ticket when existingID is empty. Otherwise it sends
// only the fields that differ from the loaded ticket; a form with no changes
// closes without a request.
func (s *UserShell) SubmitTicket(ctx context.Context, fields domain.TicketFields, existingID string) (domain.Ticket, error) {
	if s.profile.ID == "" {
		return domain.Ticket{}, s.tickets.Report(apperrors.NewValidationError("signed-in user has no id", nil))
	}

	if existingID == "" {
		created, err := s.tickets.Save(ctx, fields, nil)
		if err != nil {
			return domain.Ticket{}, err
		}
		s.publish(ctx, events.EventTicketCreated, created.TicketID, events.TicketPayloadFor(created, fields))
		return created, nil
	}

	existing, ok := s.tickets.Find(existingID)
	if !ok {
		return domain.Ticket{}, s.tickets.Report(apperrors.NewValidationError("ticket is not on the current page", map[string]any{"ticket_id": existingID}))
	}
	changed := fields.ChangedFrom(existing)
	if changed.Empty() {
		s.tickets.ClosePanel()
		return existing, nil
	}
	updated, err := s.tickets.Save(ctx, changed, &existing)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publish(ctx, events.EventTicketUpdated, updated.TicketID, events.TicketPayloadFor(updated, changed))
	return updated, nil
}

// DeleteTicket removes one of the user's tickets.
func (s *UserShell) DeleteTicket(ctx context.Context, id string) error {
	existing, _ := s.tickets.Find(id)
	if err := s.tickets.Remove(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventTicketDeleted, id, events.TicketPayload{Title: existing.Title, Status: existing.Status})
	return nil
}
