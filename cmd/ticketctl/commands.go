package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/dashboard"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/gateway"
	"github.com/spec-kit/ticket-console/internal/listing"
	"github.com/spec-kit/ticket-console/internal/service"
	"github.com/spec-kit/ticket-console/internal/session"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

type commandLine struct {
	client     *gateway.Client
	store      session.Store
	dispatcher events.Dispatcher
	auth       *service.AuthService
	opts       options
	listOpts   listing.Options
	out        io.Writer
	logger     *zap.Logger
}

func (cl *commandLine) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "login":
		return cl.login(ctx)
	case "signup":
		return cl.signup(ctx)
	case "logout":
		return cl.logout(ctx)
	case "whoami":
		return cl.whoami(ctx)
	case "users":
		return cl.users(ctx, args[1:])
	case "tickets":
		return cl.tickets(ctx, args[1:])
	}
	return apperrors.NewValidationError(fmt.Sprintf("unknown command %q", args[0]), nil)
}

func (cl *commandLine) login(ctx context.Context) error {
	if cl.opts.email == "" || cl.opts.password == "" {
		return apperrors.NewValidationError("login needs --email and --password", nil)
	}
	dest, err := cl.auth.Login(ctx, cl.store, cl.opts.email, cl.opts.password)
	if err != nil {
		return err
	}
	return cl.signedIn(dest)
}

func (cl *commandLine) signup(ctx context.Context) error {
	req := dto.UserSignupRequest{
		FullName: cl.opts.fullName,
		Username: cl.opts.username,
		Email:    cl.opts.email,
		Password: cl.opts.password,
		Phone:    cl.opts.phone,
		Address:  cl.opts.address,
	}
	if req.FullName == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("signup needs --fullname, --username, --email and --password", nil)
	}
	dest, err := cl.auth.SignUp(ctx, cl.store, req)
	if err != nil {
		return err
	}
	return cl.signedIn(dest)
}

func (cl *commandLine) signedIn(dest auth.Destination) error {
	if dest == auth.RedirectLogin {
		return apperrors.NewUnauthorized("this account cannot use the console")
	}
	fmt.Fprintf(cl.out, "signed in; continuing to the %s\n", dest)
	return nil
}

func (cl *commandLine) logout(ctx context.Context) error {
	if err := cl.auth.Logout(ctx, cl.store); err != nil {
		return err
	}
	fmt.Fprintln(cl.out, "signed out")
	return nil
}

func (cl *commandLine) whoami(ctx context.Context) error {
	dest, sess := auth.NewGate(cl.store, time.Now, cl.logger).Resolve(ctx)
	if sess == nil {
		fmt.Fprintln(cl.out, "not signed in")
		return nil
	}
	p := sess.Profile
	fmt.Fprintf(cl.out, "%s <%s>\nrole: %s\nid: %s\ndashboard: %s\n", p.FullName, p.Email, p.Role, p.ID, dest)
	return nil
}

// admit runs the access gate and requires it to route the caller to want.
func (cl *commandLine) admit(ctx context.Context, want auth.Destination) (*session.Session, error) {
	dest, sess := auth.NewGate(cl.store, time.Now, cl.logger).Resolve(ctx)
	switch {
	case sess == nil:
		return nil, apperrors.NewUnauthorized("not signed in; run ticketctl login")
	case want != auth.Unevaluated && dest != want:
		return nil, apperrors.NewForbidden(fmt.Sprintf("this command is for the %s", want))
	}
	return sess, nil
}

func (cl *commandLine) deps(sess *session.Session) dashboard.Deps {
	return dashboard.Deps{
		Client:  cl.client,
		Store:   cl.store,
		Profile: sess.Profile,
		Events:  cl.dispatcher,
		Options: cl.listOpts,
		Logger:  cl.logger,
	}
}

func (cl *commandLine) adminShell(ctx context.Context) (*dashboard.AdminShell, error) {
	sess, err := cl.admit(ctx, auth.RedirectAdmin)
	if err != nil {
		return nil, err
	}
	return dashboard.NewAdminShell(cl.deps(sess)), nil
}

func (cl *commandLine) userShell(ctx context.Context) (*dashboard.UserShell, error) {
	sess, err := cl.admit(ctx, auth.RedirectUser)
	if err != nil {
		return nil, err
	}
	return dashboard.NewUserShell(cl.deps(sess)), nil
}

// load positions ctl on the requested page. The filter is set first so it
// does not trigger a second fetch.
func load[T any, P any](ctx context.Context, ctl *listing.Controller[T, P], page int, filter string) error {
	if err := ctl.SetFilter(ctx, filter); err != nil {
		return err
	}
	return ctl.GoTo(ctx, page)
}

func (cl *commandLine) users(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return apperrors.NewValidationError("users needs a subcommand: list, delete", nil)
	}
	shell, err := cl.adminShell(ctx)
	if err != nil {
		return err
	}
	switch args[0] {
	case "list":
		if err := load(ctx, shell.Users(), cl.opts.page, cl.opts.filter); err != nil {
			return err
		}
		printUsers(cl.out, shell.Users().Snapshot())
		return nil
	case "delete":
		id, err := argID(args)
		if err != nil {
			return err
		}
		if err := shell.DeleteUser(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cl.out, "deleted user %s\n", id)
		return nil
	}
	return apperrors.NewValidationError(fmt.Sprintf("unknown users subcommand %q", args[0]), nil)
}

func (cl *commandLine) tickets(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return apperrors.NewValidationError("tickets needs a subcommand", nil)
	}
	switch args[0] {
	case "list":
		return cl.listAllTickets(ctx)
	case "status":
		return cl.setStatus(ctx, args)
	case "replace":
		return cl.replaceTicket(ctx, args)
	case "mine":
		return cl.listMyTickets(ctx)
	case "create":
		return cl.createTicket(ctx)
	case "update":
		return cl.updateTicket(ctx, args)
	case "delete":
		return cl.deleteTicket(ctx, args)
	}
	return apperrors.NewValidationError(fmt.Sprintf("unknown tickets subcommand %q", args[0]), nil)
}

func (cl *commandLine) listAllTickets(ctx context.Context) error {
	shell, err := cl.adminShell(ctx)
	if err != nil {
		return err
	}
	if err := load(ctx, shell.Tickets(), cl.opts.page, cl.opts.filter); err != nil {
		return err
	}
	printTickets(cl.out, shell.Tickets().Snapshot(), true)
	s := shell.StatusSummary()
	fmt.Fprintf(cl.out, "open %d, closed %d, other %d on this page\n", s.Open, s.Closed, s.Other)
	return nil
}

// setStatus changes a ticket on the --page being viewed, as the dashboard's
// status selector does.
func (cl *commandLine) setStatus(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return apperrors.NewValidationError("usage: tickets status <id> <status>", nil)
	}
	status, err := domain.ParseTicketStatus(args[2])
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	shell, err := cl.adminShell(ctx)
	if err != nil {
		return err
	}
	if err := shell.Tickets().GoTo(ctx, cl.opts.page); err != nil {
		return err
	}
	updated, err := shell.UpdateTicketStatus(ctx, args[1], status)
	if err != nil {
		return err
	}
	fmt.Fprintf(cl.out, "ticket %s is now %s\n", updated.TicketID, updated.Status)
	return nil
}

func (cl *commandLine) replaceTicket(ctx context.Context, args []string) error {
	id, err := argID(args)
	if err != nil {
		return err
	}
	status, err := domain.ParseTicketStatus(cl.opts.status)
	if err != nil || cl.opts.title == "" || cl.opts.description == "" {
		return apperrors.NewValidationError("replace needs --title, --description and a valid --status", nil)
	}
	sess, err := cl.admit(ctx, auth.RedirectAdmin)
	if err != nil {
		return err
	}
	replaced, err := cl.client.WithSession(cl.store).ReplaceTicket(ctx, id, dto.ReplaceTicketRequest{
		Title:       cl.opts.title,
		Description: cl.opts.description,
		Status:      status,
		CreatedBy:   sess.Profile.ID,
	})
	if err != nil {
		return err
	}
	changed := domain.TicketFields{Title: &replaced.Title, Description: &replaced.Description, Status: &replaced.Status}
	_ = cl.dispatcher.Publish(ctx, events.New(events.EventTicketUpdated, events.ActorFrom(sess.Profile), replaced.TicketID, events.TicketPayloadFor(replaced, changed)))
	fmt.Fprintf(cl.out, "replaced ticket %s\n", replaced.TicketID)
	return nil
}

func (cl *commandLine) listMyTickets(ctx context.Context) error {
	shell, err := cl.userShell(ctx)
	if err != nil {
		return err
	}
	if err := load(ctx, shell.Tickets(), cl.opts.page, cl.opts.filter); err != nil {
		return err
	}
	printTickets(cl.out, shell.Tickets().Snapshot(), false)
	return nil
}

func (cl *commandLine) createTicket(ctx context.Context) error {
	title := strings.TrimSpace(cl.opts.title)
	description := strings.TrimSpace(cl.opts.description)
	if title == "" || description == "" {
		return apperrors.NewValidationError("create needs --title and --description", nil)
	}
	shell, err := cl.userShell(ctx)
	if err != nil {
		return err
	}
	created, err := shell.SubmitTicket(ctx, domain.TicketFields{Title: &title, Description: &description}, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(cl.out, "created ticket %s\n", created.TicketID)
	return nil
}

// updateTicket sends only the flags given, and only where they differ from
// the ticket as listed on --page.
func (cl *commandLine) updateTicket(ctx context.Context, args []string) error {
	id, err := argID(args)
	if err != nil {
		return err
	}
	var fields domain.TicketFields
	if cl.opts.title != "" {
		fields.Title = &cl.opts.title
	}
	if cl.opts.description != "" {
		fields.Description = &cl.opts.description
	}
	if cl.opts.status != "" {
		status, err := domain.ParseTicketStatus(cl.opts.status)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		fields.Status = &status
	}
	if fields.Empty() {
		return apperrors.NewValidationError("update needs at least one of --title, --description, --status", nil)
	}
	shell, err := cl.userShell(ctx)
	if err != nil {
		return err
	}
	if err := shell.Tickets().GoTo(ctx, cl.opts.page); err != nil {
		return err
	}
	updated, err := shell.SubmitTicket(ctx, fields, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cl.out, "updated ticket %s\n", updated.TicketID)
	return nil
}

func (cl *commandLine) deleteTicket(ctx context.Context, args []string) error {
	id, err := argID(args)
	if err != nil {
		return err
	}
	sess, err := cl.admit(ctx, auth.Unevaluated)
	if err != nil {
		return err
	}
	if sess.Profile.Role == domain.RoleAdmin {
		err = dashboard.NewAdminShell(cl.deps(sess)).DeleteTicket(ctx, id)
	} else {
		err = dashboard.NewUserShell(cl.deps(sess)).DeleteTicket(ctx, id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cl.out, "deleted ticket %s\n", id)
	return nil
}

func argID(args []string) (string, error) {
	if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s needs an id", args[0]), nil)
	}
	return args[1], nil
}

func printUsers(w io.Writer, snap listing.Snapshot[domain.User]) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tEMAIL\tJOINED")
	for _, u := range snap.Visible {
		joined := "-"
		if !u.CreatedAt.IsZero() {
			joined = u.CreatedAt.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.FullName, u.Username, u.Email, joined)
	}
	_ = tw.Flush()
	printPager(w, snap.Page, snap.TotalPages, snap.TotalCount)
}

func printTickets(w io.Writer, snap listing.Snapshot[domain.Ticket], withOwner bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if withOwner {
		fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tCREATED BY")
	} else {
		fmt.Fprintln(tw, "ID\tTITLE\tSTATUS")
	}
	for _, t := range snap.Visible {
		if withOwner {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.TicketID, t.Title, t.Status, t.CreatedBy)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", t.TicketID, t.Title, t.Status)
		}
	}
	_ = tw.Flush()
	printPager(w, snap.Page, snap.TotalPages, snap.TotalCount)
}

func printPager(w io.Writer, page, pages, total int) {
	fmt.Fprintf(w, "page %d of %d (%d total)\n", page, pages, total)
}
