// ticketctl drives the ticket API from a terminal with the same session,
// access and list behavior as the browser console. The session is kept
// sealed under --session-dir between invocations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/config"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/gateway"
	"github.com/spec-kit/ticket-console/internal/listing"
	"github.com/spec-kit/ticket-console/internal/observability"
	"github.com/spec-kit/ticket-console/internal/service"
	"github.com/spec-kit/ticket-console/internal/session"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

const sessionKey = "default"

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %s\n", apperrors.UserMessage(err))
		}
		os.Exit(1)
	}
}

// options holds every flag; command specific ones are ignored by the other
// commands.
type options struct {
	api        string
	sessionDir string
	page       int
	size       int
	filter     string
	verbose    bool

	email       string
	password    string
	fullName    string
	username    string
	phone       string
	address     string
	title       string
	description string
	status      string
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.api, "api", "", "ticket API base URL (default: $API_BASE_URL)")
	fs.StringVar(&o.sessionDir, "session-dir", "", "directory holding the saved session (default: $XDG_CONFIG_HOME/ticketctl)")
	fs.IntVar(&o.page, "page", 1, "page to list")
	fs.IntVar(&o.size, "size", 0, "rows per page (default: $CONSOLE_PAGE_SIZE)")
	fs.StringVar(&o.filter, "filter", "", "only show rows whose name or title contains this text")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log API calls to stderr")

	fs.StringVar(&o.email, "email", "", "account email")
	fs.StringVar(&o.password, "password", "", "account password (default: $TICKETCTL_PASSWORD)")
	fs.StringVar(&o.fullName, "fullname", "", "full name for signup")
	fs.StringVar(&o.username, "username", "", "username for signup")
	fs.StringVar(&o.phone, "phone", "", "phone for signup")
	fs.StringVar(&o.address, "address", "", "address for signup")
	fs.StringVar(&o.title, "title", "", "ticket title")
	fs.StringVar(&o.description, "description", "", "ticket description")
	fs.StringVar(&o.status, "status", "", "ticket status (Open, Closed, Other)")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := pflag.NewFlagSet("ticketctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	opts.addFlags(fs)
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if fs.NArg() == 0 {
		printUsage(stderr, fs)
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.api != "" {
		cfg.API.BaseURL = opts.api
	}
	if opts.size < 1 {
		opts.size = cfg.Console.PageSize
	}
	if opts.password == "" {
		opts.password = os.Getenv("TICKETCTL_PASSWORD")
	}
	if opts.sessionDir == "" {
		if opts.sessionDir, err = defaultSessionDir(); err != nil {
			return err
		}
	}

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = observability.NewCLILogger(cfg.Logger); err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
	}

	store := session.NewStore(session.NewFileBackend(opts.sessionDir), sessionKey, session.NewSealer(cfg.Session.Secret), 0)
	client := gateway.New(cfg.API, logger, nil)
	dispatcher := events.NewInMemoryDispatcher(logger)
	service.NewAuditService(dispatcher, nil, logger).RegisterHandlers()

	cli := &commandLine{
		client:     client,
		store:      store,
		dispatcher: dispatcher,
		auth:       service.NewAuthService(client, dispatcher, time.Now, logger),
		opts:       opts,
		listOpts:   listing.Options{PageSize: opts.size},
		out:        stdout,
		logger:     logger,
	}
	return cli.dispatch(ctx, fs.Args())
}

func defaultSessionDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "ticketctl"), nil
}

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprint(w, `ticketctl talks to the ticket API as a signed-in console user.

Usage:
  ticketctl [flags] <command> [args]

Commands:
  login --email E [--password P]      sign in and save the session
  signup --fullname N --username U --email E [--password P] [--phone] [--address]
  logout                              end the saved session
  whoami                              show the signed-in profile

  users list                          (admin) list accounts
  users delete <id>                   (admin) delete an account
  tickets list                        (admin) list every ticket
  tickets status <id> <status>        (admin) change a ticket's status
  tickets replace <id> --title --description --status
                                      (admin) overwrite a ticket
  tickets delete <id>                 delete a ticket
  tickets mine                        (user) list your tickets
  tickets create --title T --description D
                                      (user) open a ticket
  tickets update <id> [--title] [--description] [--status]
                                      (user) change only the given fields

Flags:
`)
	fmt.Fprint(w, fs.FlagUsages())
}
