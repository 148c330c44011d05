package gateway

import (
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/domain"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

func validatePage(page, size int) error {
	if page < 1 || size < 1 {
		return apperrors.NewValidationError("page and size must be positive", map[string]any{"page": page, "size": size})
	}
	return nil
}

// toPage checks the envelope shape. The total never understates the items
// received and the page never holds more than size items.
func toPage[T any](c *Client, req call, resp dto.ListResponse[T], size int) (domain.Page[T], error) {
	if resp.Data == nil {
		return domain.Page[T]{}, c.rejected(req, errors.New(`response carries no "data"`))
	}
	items := *resp.Data
	total := len(items)
	if resp.Pagination != nil && resp.Pagination.TotalCount > total {
		total = resp.Pagination.TotalCount
	}
	if len(items) > size {
		c.logger.Warn("api returned more items than requested", zapOp(req.op), zap.Int("size", size), zap.Int("got", len(items)))
		items = items[:size]
	}
	return domain.Page[T]{Items: items, TotalCount: total}, nil
}

func (c *Client) rejected(req call, err error) error {
	decodeErr := &apperrors.DecodeError{Op: req.op, Err: err}
	c.logger.Warn("api response rejected",
		zapOp(req.op),
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Error(decodeErr))
	return decodeErr
}

func zapOp(op string) zap.Field { return zap.String("op", op) }
