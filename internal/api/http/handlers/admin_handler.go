package handlers

import (
	"net/http"

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

// AdminHandler serves the admin dashboard and its actions.
type AdminHandler struct {
	workspaces *service.WorkspaceRegistry
	stores     auth.StoreResolver
	audit      *service.AuditService
	renderer   *views.Renderer
	logger     *zap.Logger
}

// NewAdminHandler constructs handler. audit may be nil.
func NewAdminHandler(workspaces *service.WorkspaceRegistry, stores auth.StoreResolver, audit *service.AuditService, renderer *views.Renderer, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{workspaces: workspaces, stores: stores, audit: audit, renderer: renderer, logger: logger}
}

func (h *AdminHandler) shell(c *fiber.Ctx) (*dashboard.AdminShell, error) {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("sign in required")
	}
	ws := h.workspaces.Acquire(auth.VisitorID(c), h.stores(c), sess.Profile)
	if ws.Admin == nil {
		return nil, apperrors.NewForbidden("admin access required")
	}
	return ws.Admin, nil
}

// controls resolves the :resource route parameter and makes it the active tab.
func (h *AdminHandler) controls(c *fiber.Ctx, shell *dashboard.AdminShell) (listControls, error) {
	tab, ok := dashboard.ParseTab(c.Params("resource"))
	if !ok {
		return nil, apperrors.NewNotFound("unknown resource", nil)
	}
	if err := shell.SelectTab(c.UserContext(), tab); err != nil {
		h.logger.Debug("tab load failed", zap.Error(err))
	}
	if tab == dashboard.TabTickets {
		return shell.Tickets(), nil
	}
	return shell.Users(), nil
}

// Show handles GET /admin-dashboard.
func (h *AdminHandler) Show(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if tab, ok := dashboard.ParseTab(c.Query("tab")); ok {
		err = shell.SelectTab(ctx, tab)
	} else {
		err = shell.Ensure(ctx)
	}
	if err != nil {
		h.logger.Debug("dashboard load failed", zap.Error(err))
	}

	data := views.AdminData{
		Profile:  shell.Profile(),
		Tab:      string(shell.Tab()),
		Users:    shell.Users().Snapshot(),
		Tickets:  shell.Tickets().Snapshot(),
		Summary:  shell.StatusSummary(),
		Statuses: domain.TicketStatuses,
		Notice:   joinNotices(shell.Users().TakeNotice(), shell.Tickets().TakeNotice()),
	}
	return renderPage(c, h.renderer, http.StatusOK, views.PageAdmin, data)
}

// Page handles POST /admin-dashboard/:resource/page.
func (h *AdminHandler) Page(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	ctl, err := h.controls(c, shell)
	if err != nil {
		return err
	}
	return backTo(c, h.logger, auth.AdminDashboardPath, turnPage(c, ctl))
}

// Filter handles POST /admin-dashboard/:resource/filter.
func (h *AdminHandler) Filter(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	ctl, err := h.controls(c, shell)
	if err != nil {
		return err
	}
	return backTo(c, h.logger, auth.AdminDashboardPath, ctl.SetFilter(c.UserContext(), c.FormValue("q")))
}

// View handles POST /admin-dashboard/:resource/:id/view.
func (h *AdminHandler) View(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	ctl, err := h.controls(c, shell)
	if err != nil {
		return err
	}
	return backTo(c, h.logger, auth.AdminDashboardPath, openPanel(ctl, c.Params("id"), listing.PanelView, c.Params("resource")))
}

// ClosePanel handles POST /admin-dashboard/panel/close.
func (h *AdminHandler) ClosePanel(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	shell.Users().ClosePanel()
	shell.Tickets().ClosePanel()
	return c.Redirect(auth.AdminDashboardPath, fiber.StatusSeeOther)
}

// DeleteUser handles POST /admin-dashboard/users/:id/delete.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	return backTo(c, h.logger, auth.AdminDashboardPath, shell.DeleteUser(c.UserContext(), c.Params("id")))
}

// DeleteTicket handles POST /admin-dashboard/tickets/:id/delete.
func (h *AdminHandler) DeleteTicket(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	return backTo(c, h.logger, auth.AdminDashboardPath, shell.DeleteTicket(c.UserContext(), c.Params("id")))
}

// UpdateTicketStatus handles POST /admin-dashboard/tickets/:id/status.
func (h *AdminHandler) UpdateTicketStatus(c *fiber.Ctx) error {
	shell, err := h.shell(c)
	if err != nil {
		return err
	}
	status, err := domain.ParseTicketStatus(c.FormValue("status"))
	if err != nil {
		return backTo(c, h.logger, auth.AdminDashboardPath, shell.Tickets().Report(apperrors.NewValidationError(err.Error(), nil)))
	}
	_, err = shell.UpdateTicketStatus(c.UserContext(), c.Params("id"), status)
	return backTo(c, h.logger, auth.AdminDashboardPath, err)
}

// Audit handles GET /admin-dashboard/audit.
func (h *AdminHandler) Audit(c *fiber.Ctx) error {
	if _, err := h.shell(c); err != nil {
		return err
	}
	if h.audit == nil {
		return c.JSON(fiber.Map{"data": []any{}})
	}
	entries, err := h.audit.Recent(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": entries})
}
