package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// ListTickets fetches one page of all tickets.
func (c *Client) ListTickets(ctx context.Context, page, size int) (domain.Page[domain.Ticket], error) {
	if err := validatePage(page, size); err != nil {
		return domain.Page[domain.Ticket]{}, err
	}
	var resp dto.ListResponse[domain.Ticket]
	req := call{op: "list tickets", method: http.MethodGet, path: "/auth/tickets", query: pageQuery(page, size)}
	if err := c.do(ctx, req, &resp); err != nil {
		return domain.Page[domain.Ticket]{}, err
	}
	return toPage(c, req, resp, size)
}

// ListMyTickets fetches every ticket created by userID. The endpoint is not paginated.
func (c *Client) ListMyTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id required", nil)
	}
	var resp dto.ListResponse[domain.Ticket]
	req := call{op: "list my tickets", method: http.MethodGet, path: "/auth/tickets/my/" + pathID(userID)}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, c.rejected(req, errors.New(`response carries no "data"`))
	}
	return *resp.Data, nil
}

// CreateTicket opens a new ticket.
func (c *Client) CreateTicket(ctx context.Context, payload dto.CreateTicketRequest) (domain.Ticket, error) {
	if strings.TrimSpace(payload.Title) == "" || strings.TrimSpace(payload.Description) == "" {
		return domain.Ticket{}, apperrors.NewValidationError("title and description required", nil)
	}
	if payload.CreatedBy == "" {
		return domain.Ticket{}, apperrors.NewValidationError("ticket owner required", nil)
	}
	return c.ticketCall(ctx, call{op: "create ticket", method: http.MethodPost, path: "/auth/tickets", body: payload})
}

// PatchTicket changes only the fields set in payload.
func (c *Client) PatchTicket(ctx context.Context, id string, payload dto.PatchTicketRequest) (domain.Ticket, error) {
	if id == "" {
		return domain.Ticket{}, apperrors.NewValidationError("ticket id required", nil)
	}
	if payload.Title == nil && payload.Description == nil && payload.Status == nil {
		return domain.Ticket{}, apperrors.NewValidationError("nothing to update", nil)
	}
	return c.ticketCall(ctx, call{op: "patch ticket", method: http.MethodPatch, path: "/auth/tickets/" + pathID(id), body: payload})
}

// ReplaceTicket overwrites every editable field of a ticket.
func (c *Client) ReplaceTicket(ctx context.Context, id string, payload dto.ReplaceTicketRequest) (domain.Ticket, error) {
	if id == "" {
		return domain.Ticket{}, apperrors.NewValidationError("ticket id required", nil)
	}
	if strings.TrimSpace(payload.Title) == "" || payload.Status == "" {
		return domain.Ticket{}, apperrors.NewValidationError("title and status required for a full replace", nil)
	}
	return c.ticketCall(ctx, call{op: "replace ticket", method: http.MethodPut, path: "/auth/tickets/" + pathID(id), body: payload})
}

// DeleteTicket removes a ticket.
func (c *Client) DeleteTicket(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("ticket id required", nil)
	}
	return c.do(ctx, call{op: "delete ticket", method: http.MethodDelete, path: "/auth/tickets/" + pathID(id)}, nil)
}

func (c *Client) ticketCall(ctx context.Context, req call) (domain.Ticket, error) {
	var raw json.RawMessage
	if err := c.do(ctx, req, &raw); err != nil {
		return domain.Ticket{}, err
	}
	ticket, err := decodeTicket(raw)
	if err != nil {
		return domain.Ticket{}, c.rejected(req, err)
	}
	return ticket, nil
}

// decodeTicket accepts a bare ticket or one wrapped in "data" or "ticket".
func decodeTicket(raw json.RawMessage) (domain.Ticket, error) {
	var bare domain.Ticket
	if err := json.Unmarshal(raw, &bare); err == nil && bare.TicketID != "" {
		return bare, nil
	}
	var wrapped struct {
		Data   *domain.Ticket `json:"data"`
		Ticket *domain.Ticket `json:"ticket"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		for _, t := range []*domain.Ticket{wrapped.Data, wrapped.Ticket} {
			if t != nil && t.TicketID != "" {
				return *t, nil
			}
		}
	}
	return domain.Ticket{}, errors.New("response carries no ticket_id")
}
