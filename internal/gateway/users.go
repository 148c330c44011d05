package gateway

import (
	"context"
	"net/http"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, page, size int) (domain.Page[domain.User], error) {
	if err := validatePage(page, size); err != nil {
		return domain.Page[domain.User]{}, err
	}
	var resp dto.ListResponse[domain.User]
	req := call{op: "list users", method: http.MethodGet, path: "/auth/user", query: pageQuery(page, size)}
	if err := c.do(ctx, req, &resp); err != nil {
		return domain.Page[domain.User]{}, err
	}
	return toPage(c, req, resp, size)
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("user id required", nil)
	}
	return c.do(ctx, call{op: "delete user", method: http.MethodDelete, path: "/auth/user/" + pathID(id)}, nil)
}
