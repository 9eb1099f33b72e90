package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ErlanBelekov/bookshelf/config"
	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
	"github.com/ErlanBelekov/bookshelf/internal/guard"
	ctxlog "github.com/ErlanBelekov/bookshelf/internal/log"
	"github.com/ErlanBelekov/bookshelf/internal/reqctx"
	"github.com/ErlanBelekov/bookshelf/internal/state"
	"github.com/ErlanBelekov/bookshelf/internal/tokenstore"
)

const usage = `usage: bookctl [-api URL] [-credentials PATH] <command> [args]

commands:
  register -first NAME -last NAME -email EMAIL [-password PW]
  login -email EMAIL [-password PW]
  logout
  whoami
  books list
  books show ID
  books add -title T -author A -description D -date YYYY-MM-DD -publisher P
  books update ID [-title T] [-author A] [-description D] [-date YYYY-MM-DD] [-publisher P]
  books delete ID
  upload FILE...
`

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

// app is one bookctl invocation: a state container over a file-backed token.
type app struct {
	store  *state.Store
	client *apiclient.Client
	stdin  *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return exitFail
	}

	fs := flag.NewFlagSet("bookctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	apiURL := fs.String("api", cfg.APIBaseURL, "book API base URL")
	credPath := fs.String("credentials", cfg.CredentialsPath, "credentials file (default ~/.config/bookshelf/credentials.json)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	logger := ctxlog.New(stderr, cfg.Env, cfg.SlogLevel())

	path := *credPath
	if path == "" {
		if path, err = tokenstore.DefaultPath(); err != nil {
			fmt.Fprintln(stderr, "credentials:", err)
			return exitFail
		}
	}
	tokens, err := tokenstore.NewFileStore(path)
	if err != nil {
		fmt.Fprintln(stderr, "credentials:", err)
		return exitFail
	}

	client := apiclient.New(*apiURL, tokens, cfg.APITimeout(), logger)
	a := &app{
		store:  state.New(client, tokens, logger),
		client: client,
		stdin:  bufio.NewReader(stdin),
		out:    stdout,
		logger: logger,
	}

	ctx = reqctx.WithRequestID(ctx, reqctx.NewID())
	if _, err := a.store.Bootstrap(ctx); err != nil {
		logger.DebugContext(ctx, "bootstrap", "error", err)
	}

	if err := a.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
			return exitUsage
		}
		fmt.Fprintln(stderr, "error:", err)
		return exitFail
	}
	return exitOK
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.public(func() error { return a.register(ctx, args) })
	case "login":
		return a.public(func() error { return a.login(ctx, args) })
	case "logout":
		a.store.Auth.Logout(ctx)
		fmt.Fprintln(a.out, "Logged out successfully. See you soon!")
		return nil
	case "whoami":
		return a.protected(func() error { return a.whoami() })
	case "books":
		return a.protected(func() error { return a.books(ctx, args) })
	case "upload":
		return a.protected(func() error { return a.upload(ctx, args) })
	default:
		return errUsage
	}
}

// protected runs fn only with a signed-in user.
func (a *app) protected(fn func() error) error {
	if _, ok := guard.Decide(guard.Protected, a.store.Auth.Snapshot().Authenticated()); !ok {
		if msg := a.store.Auth.Snapshot().Request.Error(); msg != "" {
			return fmt.Errorf("%s: run bookctl login", msg)
		}
		return errors.New("not signed in: run bookctl login")
	}
	return fn()
}

// public runs fn only without a signed-in user; otherwise it reports who is.
func (a *app) public(fn func() error) error {
	if _, ok := guard.Decide(guard.PublicOnly, a.store.Auth.Snapshot().Authenticated()); !ok {
		fmt.Fprintf(a.out, "Already signed in as %s. Run bookctl logout first.\n", a.store.Auth.Snapshot().User.DisplayName())
		return nil
	}
	return fn()
}

// prompt reads one line from stdin when value is empty.
func (a *app) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
