package dashboard

import (
	"context"
	"strings"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/gateway"
	"github.com/spec-kit/ticket-console/internal/listing"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// UserPayload is empty: accounts are created through sign-up and never edited
// from the console.
type UserPayload struct{}

// UserDescriptor identifies users by id and filters them by full name.
var UserDescriptor = listing.Descriptor[domain.User]{
	ID:      func(u domain.User) string { return u.ID },
	Display: func(u domain.User) string { return u.FullName },
}

// TicketDescriptor identifies tickets by ticket id and filters them by title.
var TicketDescriptor = listing.Descriptor[domain.Ticket]{
	ID:      func(t domain.Ticket) string { return t.TicketID },
	Display: func(t domain.Ticket) string { return t.Title },
}

// UserResource lists backend accounts, leaving out the signed-in administrator.
type UserResource struct {
	client       *gateway.Client
	excludeEmail string
}

// NewUserResource builds the admin users resource. Accounts whose email
// matches excludeEmail are hidden.
func NewUserResource(client *gateway.Client, excludeEmail string) *UserResource {
	return &UserResource{client: client, excludeEmail: excludeEmail}
}

func (r *UserResource) List(ctx context.Context, page, size int) (domain.Page[domain.User], error) {
	result, err := r.client.ListUsers(ctx, page, size)
	if err != nil || r.excludeEmail == "" {
		return result, err
	}
	kept := result.Items[:0:0]
	for _, u := range result.Items {
		if !strings.EqualFold(u.Email, r.excludeEmail) {
			kept = append(kept, u)
		}
	}
	result.Items = kept
	return result, nil
}

func (r *UserResource) Create(context.Context, UserPayload) (domain.User, error) {
	return domain.User{}, apperrors.NewValidationError("users are created through sign-up", nil)
}

func (r *UserResource) Update(context.Context, string, UserPayload) (domain.User, error) {
	return domain.User{}, apperrors.NewValidationError("users cannot be edited from the console", nil)
}

func (r *UserResource) Remove(ctx context.Context, id string) error {
	return r.client.DeleteUser(ctx, id)
}

// TicketResource is the paginated collection of every ticket.
type TicketResource struct {
	client    *gateway.Client
	createdBy string
}

// NewTicketResource builds the admin tickets resource. createdBy is recorded
// as the owner of tickets created through it.
func NewTicketResource(client *gateway.Client, createdBy string) *TicketResource {
	return &TicketResource{client: client, createdBy: createdBy}
}

func (r *TicketResource) List(ctx context.Context, page, size int) (domain.Page[domain.Ticket], error) {
	return r.client.ListTickets(ctx, page, size)
}

func (r *TicketResource) Create(ctx context.Context, fields domain.TicketFields) (domain.Ticket, error) {
	return createTicket(ctx, r.client, r.createdBy, fields)
}

func (r *TicketResource) Update(ctx context.Context, id string, fields domain.TicketFields) (domain.Ticket, error) {
	return r.client.PatchTicket(ctx, id, dto.NewPatchTicketRequest(fields))
}

func (r *TicketResource) Remove(ctx context.Context, id string) error {
	return r.client.DeleteTicket(ctx, id)
}

// MyTicketResource is the signed-in user's tickets. The backend returns them
// all at once, so pages are cut locally.
type MyTicketResource struct {
	client *gateway.Client
	userID string
}

// NewMyTicketResource builds the user dashboard's ticket resource.
func NewMyTicketResource(client *gateway.Client, userID string) *MyTicketResource {
	return &MyTicketResource{client: client, userID: userID}
}

func (r *MyTicketResource) List(ctx context.Context, page, size int) (domain.Page[domain.Ticket], error) {
	if r.userID == "" {
		return domain.Page[domain.Ticket]{}, apperrors.NewValidationError("signed-in user has no id", nil)
	}
	all, err := r.client.ListMyTickets(ctx, r.userID)
	if err != nil {
		return domain.Page[domain.Ticket]{}, err
	}
	return listing.Window(all, page, size), nil
}

func (r *MyTicketResource) Create(ctx context.Context, fields domain.TicketFields) (domain.Ticket, error) {
	return createTicket(ctx, r.client, r.userID, fields)
}

func (r *MyTicketResource) Update(ctx context.Context, id string, fields domain.TicketFields) (domain.Ticket, error) {
	return r.client.PatchTicket(ctx, id, dto.NewPatchTicketRequest(fields))
}

func (r *MyTicketResource) Remove(ctx context.Context, id string) error {
	return r.client.DeleteTicket(ctx, id)
}

func createTicket(ctx context.Context, client *gateway.Client, owner string, fields domain.TicketFields) (domain.Ticket, error) {
	if owner == "" {
		return domain.Ticket{}, apperrors.NewValidationError("signed-in user has no id", nil)
	}
	if fields.Title == nil || fields.Description == nil {
		return domain.Ticket{}, apperrors.NewValidationError("title and description required", nil)
	}
	return client.CreateTicket(ctx, dto.CreateTicketRequest{
		Title:       *fields.Title,
		Description: *fields.Description,
		CreatedBy:   owner,
	})
}
