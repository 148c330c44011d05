package dto

import "github.com/spec-kit/ticket-console/internal/domain"

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedBy   string `json:"createdBy"`
}

// PatchTicketRequest carries only the fields meant to change; unset fields are
// omitted from the body so the backend leaves them alone.
type PatchTicketRequest struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Status      *domain.TicketStatus `json:"status,omitempty"`
}

// NewPatchTicketRequest converts form fields into a patch body.
func NewPatchTicketRequest(fields domain.TicketFields) PatchTicketRequest {
	return PatchTicketRequest{
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
	}
}

// ReplaceTicketRequest is a full overwrite of a ticket's editable fields.
type ReplaceTicketRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	CreatedBy   string              `json:"createdBy"`
}
