// Package views renders the console's HTML pages.
package views

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/listing"
)

const (
	PageLogin  = "login"
	PageSignup = "signup"
	PageAdmin  = "admin"
	PageUser   = "user"
	PageError  = "error"
)

// LoginData feeds the login page.
type LoginData struct {
	Notice string
	Email  string
}

// SignupData feeds the sign-up page. The password is never echoed back.
type SignupData struct {
	Notice   string
	FullName string
	Username string
	Email    string
	Phone    string
	Address  string
}

// AdminData feeds the admin dashboard.
type AdminData struct {
	Profile  domain.UserProfile
	Tab      string
	Users    listing.Snapshot[domain.User]
	Tickets  listing.Snapshot[domain.Ticket]
	Summary  domain.StatusSummary
	Statuses []domain.TicketStatus
	Notice   string
}

// UserData feeds the user dashboard.
type UserData struct {
	Profile  domain.UserProfile
	Tickets  listing.Snapshot[domain.Ticket]
	Statuses []domain.TicketStatus
	Notice   string
}

// ErrorData feeds the error page.
type ErrorData struct {
	Status  int
	Code    string
	Message string
}

// Renderer executes the compiled page templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"badge": func(s domain.TicketStatus) string {
		switch s {
		case domain.TicketStatusOpen:
			return "badge-open"
		case domain.TicketStatusClosed:
			return "badge-closed"
		default:
			return "badge-other"
		}
	},
	"panel": func(p listing.Panel) string { return p.String() },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"initial": func(s string) string {
		r := []rune(strings.TrimSpace(s))
		if len(r) == 0 {
			return "?"
		}
		return strings.ToUpper(string(r[0]))
	},
	// pager pairs a list snapshot with the route its controls post to.
	"pager": func(action string, snap any) map[string]any {
		return map[string]any{"Action": action, "Snap": snap}
	},
}

// NewRenderer parses every page against the shared layout.
func NewRenderer() *Renderer {
	pages := map[string]string{
		PageLogin:  loginPage,
		PageSignup: signupPage,
		PageAdmin:  adminPage,
		PageUser:   userPage,
		PageError:  errorPage,
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for name, body := range pages {
		t := template.Must(template.New("layout").Funcs(funcs).Parse(layout))
		r.pages[name] = template.Must(t.New(name).Parse(body))
	}
	return r
}

// Render executes page with data.
func (r *Renderer) Render(page string, data any) ([]byte, error) {
	t, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}
