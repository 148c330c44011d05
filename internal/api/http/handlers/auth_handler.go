package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/api/http/views"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/service"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// AuthHandler serves the login, sign-up and logout pages.
type AuthHandler struct {
	auth       *service.AuthService
	workspaces *service.WorkspaceRegistry
	stores     auth.StoreResolver
	renderer   *views.Renderer
	logger     *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, workspaces *service.WorkspaceRegistry, stores auth.StoreResolver, renderer *views.Renderer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, workspaces: workspaces, stores: stores, renderer: renderer, logger: logger}
}

// ShowLogin handles GET /login.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return renderPage(c, h.renderer, http.StatusOK, views.PageLogin, views.LoginData{})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)

	dest, err := h.auth.Login(c.UserContext(), h.stores(c), req.Email, req.Password)
	if err != nil {
		return renderPage(c, h.renderer, statusOf(err), views.PageLogin, views.LoginData{Email: req.Email, Notice: apperrors.UserMessage(err)})
	}
	if dest == auth.RedirectLogin {
		return renderPage(c, h.renderer, http.StatusUnauthorized, views.PageLogin,
			views.LoginData{Email: req.Email, Notice: "this account cannot use the console"})
	}
	return c.Redirect(dest.Path(), fiber.StatusSeeOther)
}

// ShowSignup handles GET /signup.
func (h *AuthHandler) ShowSignup(c *fiber.Ctx) error {
	return renderPage(c, h.renderer, http.StatusOK, views.PageSignup, views.SignupData{})
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.UserSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	echo := views.SignupData{FullName: req.FullName, Username: req.Username, Email: req.Email, Phone: req.Phone, Address: req.Address}

	dest, err := h.auth.SignUp(c.UserContext(), h.stores(c), req)
	if err != nil {
		echo.Notice = apperrors.UserMessage(err)
		return renderPage(c, h.renderer, statusOf(err), views.PageSignup, echo)
	}
	return c.Redirect(dest.Path(), fiber.StatusSeeOther)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ws, ok := h.workspaces.Lookup(auth.VisitorID(c)); ok {
		if _, err := ws.Logout(ctx); err != nil {
			return err
		}
		return c.Redirect(auth.LoginPath, fiber.StatusSeeOther)
	}
	if err := h.auth.Logout(ctx, h.stores(c)); err != nil {
		return err
	}
	return c.Redirect(auth.LoginPath, fiber.StatusSeeOther)
}

func statusOf(err error) int {
	return apperrors.ToDomainError(err).HTTPStatus
}
