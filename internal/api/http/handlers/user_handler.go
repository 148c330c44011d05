package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/api/http/views"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/dashboard"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/listing"
	"github.com/spec-kit/ticket-console/internal/service"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// UserHandler serves the end-user dashboard and its ticket actions.
type UserHandler struct {
	workspaces *service.WorkspaceRegistry
	stores     auth.StoreResolver
	renderer   *views.Renderer
	logger     *zap.Logger
}

// NewUserHandler constructs handler.
func NewUserHandler(workspaces *service.WorkspaceRegistry, stores auth.StoreResolver, renderer *views.Renderer, logger *zap.Logger) *UserHandler {
	return &UserHandler{workspaces: workspaces, stores: stores, renderer: renderer, logger: logger}
}

func (h *UserHandler) shell(c *fiber.Ctx) (*dashboard.UserShell, error) {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("sign in required")
	}
	ws := h.workspaces.Acquire(auth.VisitorID(c), h.stores(c), sess.Profile)
	if ws.User == nil {
		return nil, apperrors.NewForbidden("user access required")
	}
	if err := ws.User.Ensure(c.UserContext()); err != nil {
		h.logger.Debug("ticket list load failed", zap.Error(err))
	}
	return ws.User, nil
}

// Show handles GET /user-dashboard.
func (h *UserHandler) Show(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	data := views.UserData{
		Profile:  shell.Profile(),
		Tickets:  shell.Tickets().Snapshot(),
		Statuses: domain.TicketStatuses,
		Notice:   shell.Tickets().TakeNotice(),
	}
	return renderPage(c, h.renderer, http.StatusOK, views.PageUser, data)
}

// Page handles POST /user-dashboard/tickets/page.
func (h *UserHandler) Page(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	return backTo(c, h.logger, auth.UserDashboardPath, turnPage(c, shell.Tickets()))
}

// Filter handles POST /user-dashboard/tickets/filter.
func (h *UserHandler) Filter(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	return backTo(c, h.logger, auth.UserDashboardPath, shell.Tickets().SetFilter(c.UserContext(), c.FormValue("q")))
}

// New handles POST /user-dashboard/tickets/new.
func (h *UserHandler) New(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	shell.Tickets().OpenCreate()
	return c.Redirect(auth.UserDashboardPath, fiber.StatusSeeOther)
}

// View handles POST /user-dashboard/tickets/:id/view.
func (h *UserHandler) View(c *fiber.Ctx) error {
	return h.open(c, listing.PanelView)
}

// Edit handles POST /user-dashboard/tickets/:id/edit.
func (h *UserHandler) Edit(c *fiber.Ctx) error {
	return h.open(c, listing.PanelEdit)
}

func (h *UserHandler) open(c *fiber.Ctx, panel listing.Panel) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	return backTo(c, h.logger, auth.UserDashboardPath, openPanel(shell.Tickets(), c.Params("id"), panel, "ticket"))
}

// ClosePanel handles POST /user-dashboard/panel/close.
func (h *UserHandler) ClosePanel(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	shell.Tickets().ClosePanel()
	return c.Redirect(auth.UserDashboardPath, fiber.StatusSeeOther)
}

// Submit handles POST /user-dashboard/tickets. An "id" form value edits that
// ticket; without one a ticket is created.
func (h *UserHandler) Submit(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	description := strings.TrimSpace(c.FormValue("description"))
	fields := domain.TicketFields{Title: &title, Description: &description}
	if raw := c.FormValue("status"); raw != "" {
		status, err := domain.ParseTicketStatus(raw)
		if err != nil {
			return backTo(c, h.logger, auth.UserDashboardPath, shell.Tickets().Report(apperrors.NewValidationError(err.Error(), nil)))
		}
		fields.Status = &status
	}
	if title == "" || description == "" {
		return backTo(c, h.logger, auth.UserDashboardPath, shell.Tickets().Report(apperrors.NewValidationError("title and description required", nil)))
	}
	_, err = shell.SubmitTicket(c.UserContext(), fields, c.FormValue("id"))
	return backTo(c, h.logger, auth.UserDashboardPath, err)
}

// Delete handles POST /user-dashboard/tickets/:id/delete.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	return backTo(c, h.logger, auth.UserDashboardPath, shell.DeleteTicket(c.UserContext(), c.Params("id")))
}
