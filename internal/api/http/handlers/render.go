package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/api/http/views"
	"github.com/spec-kit/ticket-console/internal/listing"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

func renderPage(c *fiber.Ctx, renderer *views.Renderer, status int, page string, data any) error {
	body, err := renderer.Render(page, data)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(body)
}

// listControls is the part of a list controller the page actions drive.
type listControls interface {
	Mount(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	GoTo(ctx context.Context, page int) error
	SetFilter(ctx context.Context, text string) error
	Open(id string, panel listing.Panel) bool
	ClosePanel()
	Report(err error) error
}

// turnPage applies the "dir" (prev, next, refresh) or "page" form value.
func turnPage(c *fiber.Ctx, ctl listControls) error {
	ctx := c.UserContext()
	switch c.FormValue("dir") {
	case "next":
		return ctl.Next(ctx)
	case "prev":
		return ctl.Prev(ctx)
	case "refresh":
		return ctl.Mount(ctx)
	}
	page, err := strconv.Atoi(c.FormValue("page"))
	if err != nil {
		return ctl.Report(apperrors.NewValidationError("page must be a number", nil))
	}
	return ctl.GoTo(ctx, page)
}

func openPanel(ctl listControls, id string, panel listing.Panel, what string) error {
	if !ctl.Open(id, panel) {
		return ctl.Report(apperrors.NewValidationError(what+" is not on the current page", map[string]any{"id": id}))
	}
	return nil
}

// backTo redirects to a dashboard after an action. Failed actions have
// already been recorded as the list's notice.
func backTo(c *fiber.Ctx, logger *zap.Logger, path string, err error) error {
	if err != nil {
		logger.Debug("dashboard action failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Redirect(path, fiber.StatusSeeOther)
}

func joinNotices(notices ...string) string {
	var kept []string
	for _, n := range notices {
		if n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, "; ")
}
