package domain

import (
	"fmt"
	"strings"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "Open"
	TicketStatusClosed TicketStatus = "Closed"
	TicketStatusOther  TicketStatus = "Other"
)

// TicketStatuses lists the statuses in display order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusClosed, TicketStatusOther}

// ParseTicketStatus matches s case-insensitively against the known statuses.
func ParseTicketStatus(s string) (TicketStatus, error) {
	for _, status := range TicketStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown ticket status %q", s)
}

// Ticket is a support request. TicketID is its stable identity and never
// changes across updates.
type Ticket struct {
	TicketID    string       `json:"ticket_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	CreatedBy   string       `json:"createdBy"`
}

// TicketFields carries the ticket fields a form intends to set. Nil fields are
// left alone.
type TicketFields struct {
	Title       *string
	Description *string
	Status      *TicketStatus
}

// Empty reports whether no field is set.
func (f TicketFields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.Status == nil
}

// ChangedFrom returns only the fields whose value differs from t.
func (f TicketFields) ChangedFrom(t Ticket) TicketFields {
	var out TicketFields
	if f.Title != nil && *f.Title != t.Title {
		out.Title = f.Title
	}
	if f.Description != nil && *f.Description != t.Description {
		out.Description = f.Description
	}
	if f.Status != nil && *f.Status != t.Status {
		out.Status = f.Status
	}
	return out
}

// StatusSummary counts tickets per status bucket.
type StatusSummary struct {
	Open   int
	Closed int
	Other  int
}

// SummarizeStatuses partitions tickets into open, closed and everything else.
func SummarizeStatuses(tickets []Ticket) StatusSummary {
	var s StatusSummary
	for _, t := range tickets {
		switch t.Status {
		case TicketStatusOpen:
			s.Open++
		case TicketStatusClosed:
			s.Closed++
		default:
			s.Other++
		}
	}
	return s
}
