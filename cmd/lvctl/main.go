// lvctl is a command line client for the practice API. It keeps its session
// in the user's config directory so that a login survives between runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/legalvibes/practice-api/pkg/client"
	"github.com/legalvibes/practice-api/pkg/client/guard"
	"github.com/legalvibes/practice-api/pkg/client/session"
	"github.com/legalvibes/practice-api/pkg/logger"
)

const defaultServer = "http://localhost:8080"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %s\n", client.Message(err))
		}
		os.Exit(1)
	}
}

type env struct {
	api   *client.Client
	store *session.Store
	out   io.Writer
}

type command struct {
	summary string
	flags   func(*pflag.FlagSet)
	run     func(ctx context.Context, e *env, fs *pflag.FlagSet) error
	// guarded commands need a session before they run.
	guarded bool
}

var commands = map[string]command{
	"login": {
		summary: "sign in and store the session",
		flags: func(fs *pflag.FlagSet) {
			fs.String("email", "", "account email")
			fs.String("password", "", "account password (default $LV_PASSWORD)")
		},
		run: runLogin,
	},
	"register": {
		summary: "create an account and store the session",
		flags: func(fs *pflag.FlagSet) {
			fs.String("email", "", "account email")
			fs.String("password", "", "account password (default $LV_PASSWORD)")
			fs.String("first-name", "", "first name")
			fs.String("last-name", "", "last name")
			fs.String("phone", "", "phone number")
			fs.String("company", "", "company name")
			fs.String("job-title", "", "job title")
		},
		run: runRegister,
	},
	"logout": {
		summary: "forget the stored session",
		run: func(_ context.Context, e *env, _ *pflag.FlagSet) error {
			e.store.Logout()
			fmt.Fprintln(e.out, "logged out")
			return nil
		},
	},
	"whoami": {
		summary: "show the signed-in identity",
		guarded: true,
		run:     runWhoami,
	},
	"refresh": {
		summary: "exchange the session token for a new one",
		guarded: true,
		run: func(ctx context.Context, e *env, _ *pflag.FlagSet) error {
			if err := e.store.Refresh(ctx); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "session refreshed")
			return nil
		},
	},
	"clients": {
		summary: "list your clients",
		guarded: true,
		run:     runClients,
	},
	"projects": {
		summary: "list your projects",
		guarded: true,
		flags: func(fs *pflag.FlagSet) {
			fs.String("search", "", "only projects whose name, reference or trademark matches")
		},
		run: runProjects,
	},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := pflag.NewFlagSet("lvctl", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	server := global.String("server", envOr("LV_SERVER", defaultServer), "API base URL")
	sessionFile := global.String("session-file", "", "session file (default in the user config dir)")
	logLevel := global.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	global.Usage = func() { usage(stderr, global) }
	if err := global.Parse(args); err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr, global)
		return pflag.ErrHelp
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", rest[0])
	}
	fs := pflag.NewFlagSet("lvctl "+rest[0], pflag.ContinueOnError)
	fs.SetOutput(stderr)
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(rest[1:]); err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: *logLevel, Pretty: true, Output: stderr, Service: "lvctl"})

	path := *sessionFile
	if path == "" {
		p, err := session.DefaultFilePath()
		if err != nil {
			return err
		}
		path = p
	}

	api := client.New(*server, client.WithLogger(log))
	store := session.NewStore(api, session.NewFileStorage(path), session.WithLogger(log))
	defer store.Close()
	store.Init()

	if cmd.guarded {
		d := guard.RequireAuthenticated(store.State(), guard.Navigation{Path: rest[0]})
		if d.Kind != guard.Render {
			return errors.New("not logged in, run: lvctl login --email <email>")
		}
	}
	return cmd.run(ctx, &env{api: api, store: store, out: stdout}, fs)
}

func runLogin(ctx context.Context, e *env, fs *pflag.FlagSet) error {
	email, _ := fs.GetString("email")
	pw, err := password(fs)
	if err != nil {
		return err
	}
	if err := e.store.Login(ctx, email, pw); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "logged in as %s\n", e.store.State().User.Email)
	return nil
}

func runRegister(ctx context.Context, e *env, fs *pflag.FlagSet) error {
	pw, err := password(fs)
	if err != nil {
		return err
	}
	in := client.RegisterRequest{Password: pw}
	in.Email, _ = fs.GetString("email")
	in.FirstName, _ = fs.GetString("first-name")
	in.LastName, _ = fs.GetString("last-name")
	in.PhoneNumber, _ = fs.GetString("phone")
	in.CompanyName, _ = fs.GetString("company")
	in.JobTitle, _ = fs.GetString("job-title")
	if err := e.store.Register(ctx, in); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "registered %s\n", e.store.State().User.Email)
	return nil
}

func runWhoami(ctx context.Context, e *env, _ *pflag.FlagSet) error {
	u, err := e.api.Profile(ctx)
	if err != nil {
		return err
	}
	role := "user"
	if guard.RequireAdmin(e.store.State(), guard.Navigation{Path: "admin"}).Kind == guard.Render {
		role = "admin"
	}
	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", u.ID)
	fmt.Fprintf(w, "Name\t%s\n", u.FullName())
	fmt.Fprintf(w, "Email\t%s\n", u.Email)
	fmt.Fprintf(w, "Job title\t%s\n", orDash(u.JobTitle))
	fmt.Fprintf(w, "Company\t%s\n", orDash(u.CompanyName))
	fmt.Fprintf(w, "Role\t%s\n", role)
	return w.Flush()
}

func runClients(ctx context.Context, e *env, _ *pflag.FlagSet) error {
	clients, err := e.api.ListClients(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOMPANY")
	for _, c := range clients {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, orDash(c.CompanyName))
	}
	return w.Flush()
}

func runProjects(ctx context.Context, e *env, fs *pflag.FlagSet) error {
	search, _ := fs.GetString("search")
	projects, err := e.api.ListProjects(ctx, search)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tREFERENCE")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Type, p.Status, orDash(p.ReferenceNumber))
	}
	return w.Flush()
}

func password(fs *pflag.FlagSet) (string, error) {
	pw, _ := fs.GetString("password")
	if pw == "" {
		pw = os.Getenv("LV_PASSWORD")
	}
	if pw == "" {
		return "", errors.New("password is required (--password or LV_PASSWORD)")
	}
	return pw, nil
}

func usage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: lvctl [flags] <command> [command flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := []string{"login", "register", "logout", "whoami", "refresh", "clients", "projects"}
	for _, n := range names {
		fmt.Fprintf(w, "  %-10s %s\n", n, commands[n].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	fmt.Fprint(w, global.FlagUsages())
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
