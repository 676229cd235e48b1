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
	"text/tabwriter"
	"time"

	"github.com/NicolasHaas/fitcoach/pkg/api"
	"github.com/NicolasHaas/fitcoach/pkg/chart"
	"github.com/NicolasHaas/fitcoach/pkg/config"
	"github.com/NicolasHaas/fitcoach/pkg/dashboard"
	"github.com/NicolasHaas/fitcoach/pkg/kv"
	"github.com/NicolasHaas/fitcoach/pkg/logging"
	"github.com/NicolasHaas/fitcoach/pkg/model"
	"github.com/NicolasHaas/fitcoach/pkg/rbac"
	"github.com/NicolasHaas/fitcoach/pkg/session"
)

var errUsage = errors.New("usage error")

const dateLayout = "2006-01-02"

// app wires storage, the API client and the session for one CLI invocation.
type app struct {
	storage kv.Storage
	client  *api.Client
	session *session.Store
	loader  *dashboard.Loader
	out     io.Writer
	in      *bufio.Reader
}

func newApp(cfg *config.Config, st kv.Storage, out io.Writer, in io.Reader) *app {
	client := api.New(cfg.APIURL, api.StorageTokens(st),
		api.WithTimeout(cfg.Timeout),
		api.WithUnauthorizedHandler(func(e *api.APIError) {
			slog.Warn("backend rejected the stored token, run `fitcoach login` again", "path", e.Path)
		}),
	)
	return &app{
		storage: st,
		client:  client,
		session: session.New(st, client),
		loader:  dashboard.NewLoader(client, chart.Box{}),
		out:     out,
		in:      bufio.NewReader(in),
	}
}

func (a *app) close() {
	a.client.Stats().LogSummary()
	if err := a.storage.Close(); err != nil {
		slog.Warn("close storage", "err", err)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	a.session.Hydrate(ctx)

	name, rest := args[0], args[1:]
	commands := map[string]func(context.Context, []string) error{
		"login":      a.login,
		"signup":     a.signup,
		"logout":     a.logout,
		"status":     a.status,
		"profile":    a.profile,
		"clients":    a.clients,
		"plans":      a.plans,
		"diets":      a.diets,
		"log-weight": a.logWeight,
		"trend":      a.trend,
		"dashboard":  a.dashboard,
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
	return cmd(ctx, rest)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

// prompt reads one line from stdin when value was not given as a flag.
func (a *app) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) requireLogin() error {
	if a.session.State() != session.StateLoggedIn {
		return fmt.Errorf("%w: run `fitcoach login` first", session.ErrNotLoggedIn)
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	pw, err := a.prompt("Password", *password)
	if err != nil {
		return err
	}
	sess, err := a.session.Login(ctx, model.Credentials{Email: *email, Password: pw})
	if err != nil {
		return err
	}
	a.markOnboarded(ctx)
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", sess.Email, sess.Role)
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := newFlagSet("signup")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (prompted when empty)")
	roleName := fs.String("role", "client", "client or trainer")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	role, err := model.ParseRole(*roleName)
	if err != nil {
		return err
	}
	pw, err := a.prompt("Password", *password)
	if err != nil {
		return err
	}
	sess, err := a.session.Signup(ctx, model.SignupRequest{Name: *name, Email: *email, Password: pw, Role: role})
	if err != nil {
		return err
	}
	a.markOnboarded(ctx)
	fmt.Fprintf(a.out, "Account created for %s (%s)\n", sess.Email, sess.Role)
	return nil
}

// markOnboarded records that this device has been through a first login.
func (a *app) markOnboarded(ctx context.Context) {
	if err := a.session.CompleteOnboarding(ctx); err != nil {
		slog.Warn("save onboarding flag", "err", err)
	}
}

func (a *app) logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *app) status(ctx context.Context, _ []string) error {
	sess := a.session.Session()
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "State\t%s\n", a.session.State())
	fmt.Fprintf(w, "Backend\t%s\n", a.client.BaseURL())
	if sess.IsLoggedIn {
		fmt.Fprintf(w, "User\t%s <%s>\n", sess.UserID, sess.Email)
		fmt.Fprintf(w, "Role\t%s\n", sess.Role)
		fmt.Fprintf(w, "Token\t%s\n", logging.Mask(sess.Token))
		if exp, ok := a.session.ExpiresAt(); ok {
			fmt.Fprintf(w, "Expires\t%s\n", exp.Local().Format(time.RFC1123))
		}
		perms := rbac.Permissions(sess.Role)
		names := make([]string, len(perms))
		for i, p := range perms {
			names[i] = p.String()
		}
		fmt.Fprintf(w, "Can\t%s\n", strings.Join(names, ", "))
	}
	if done, err := a.session.HasOnboarded(ctx); err == nil {
		fmt.Fprintf(w, "Onboarded\t%t\n", done)
	}
	return w.Flush()
}

func (a *app) profile(ctx context.Context, args []string) error {
	fs := newFlagSet("profile")
	cached := fs.Bool("cached", false, "show the cached profile without calling the backend")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	var (
		u   *model.User
		err error
	)
	if *cached {
		u, err = a.session.CachedProfile(ctx)
	} else {
		u, err = a.session.RefreshProfile(ctx)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name\t%s\n", u.Name)
	fmt.Fprintf(w, "Email\t%s\n", u.Email)
	fmt.Fprintf(w, "Role\t%s\n", u.Role)
	if u.Goal != "" {
		fmt.Fprintf(w, "Goal\t%s\n", u.Goal)
	}
	if u.WeightKg > 0 {
		fmt.Fprintf(w, "Weight\t%.1f kg\n", u.WeightKg)
	}
	return w.Flush()
}

func (a *app) clients(ctx context.Context, args []string) error {
	fs := newFlagSet("clients")
	assign := fs.String("assign", "", "email of a client to add")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.session.Require(model.PermManageClients); err != nil {
		return err
	}

	if *assign != "" {
		if err := model.ValidateEmail(*assign); err != nil {
			return err
		}
		c, err := a.client.AssignClient(ctx, *assign)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added %s (%s)\n", c.Name, c.ID)
		return nil
	}

	clients, err := a.client.ListClients(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWEIGHT\tPROGRESS\tLAST ACTIVE")
	for _, c := range clients {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.0f%%\t%s\n", c.ID, c.Name, c.Weight, c.Progress, formatDate(c.LastActive))
	}
	return w.Flush()
}

func (a *app) plans(ctx context.Context, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	plans, err := a.client.ListWorkoutPlans(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDIFFICULTY\tWEEKS\tEXERCISES")
	for _, p := range plans {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", p.ID, p.Name, p.Difficulty, p.DurationWeeks, len(p.Exercises))
	}
	return w.Flush()
}

func (a *app) diets(ctx context.Context, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	diets, err := a.client.ListDietPlans(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKCAL/DAY\tMEALS\tMEAL KCAL")
	for _, d := range diets {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", d.ID, d.Name, d.DailyCalories, len(d.Meals), d.TotalCalories())
	}
	return w.Flush()
}

func (a *app) logWeight(ctx context.Context, args []string) error {
	fs := newFlagSet("log-weight")
	kg := fs.Float64("kg", 0, "body weight in kilograms")
	note := fs.String("note", "", "optional note")
	date := fs.String("date", "", "date as YYYY-MM-DD (default today)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.session.Require(model.PermLogWeight); err != nil {
		return err
	}

	entry := &model.WeightLog{ClientID: a.session.Session().UserID, WeightKg: *kg, Note: *note, LoggedAt: time.Now()}
	if *date != "" {
		t, err := time.ParseInLocation(dateLayout, *date, time.Local)
		if err != nil {
			return fmt.Errorf("%w: -date: %v", errUsage, err)
		}
		entry.LoggedAt = t
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	saved, err := a.client.CreateWeightLog(ctx, entry)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged %.1f kg on %s\n", saved.WeightKg, formatDate(saved.LoggedAt))
	return nil
}

func (a *app) trend(ctx context.Context, args []string) error {
	fs := newFlagSet("trend")
	clientID := fs.String("client", "", "client id (trainers only)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	var tr dashboard.Trend
	switch {
	case *clientID != "":
		if err := a.session.Require(model.PermViewClientProgress); err != nil {
			return err
		}
		var err error
		if tr, err = a.loader.ClientTrend(ctx, *clientID); err != nil {
			return err
		}
	default:
		if err := a.session.Require(model.PermLogWeight); err != nil {
			return fmt.Errorf("%w (trainers pass -client)", err)
		}
		logs, err := a.client.ListWeightLogs(ctx)
		if err != nil {
			return err
		}
		tr = a.loader.Trend(logs)
	}
	a.printTrend(tr)
	return nil
}

func (a *app) dashboard(ctx context.Context, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if a.session.Session().IsTrainer() {
		d, err := a.loader.LoadTrainer(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Welcome back, %s\n", d.Profile.Name)
		fmt.Fprintf(a.out, "Clients: %d (%d active this week)\n", len(d.Clients), d.ActiveClients)
		fmt.Fprintf(a.out, "Average progress: %.0f%%\n", d.AverageProgress)
		return nil
	}

	d, err := a.loader.LoadClient(ctx)
	if err != nil {
		return err
	}
	if d.Goal != nil {
		fmt.Fprintf(a.out, "This week: %d/%d workouts (%.0f%%)\n", d.Goal.WorkoutsDone, d.Goal.WorkoutsTarget, d.Goal.Completion())
	} else {
		fmt.Fprintln(a.out, "No goal set for this week")
	}
	a.printTrend(d.Trend)
	return nil
}

func (a *app) printTrend(tr dashboard.Trend) {
	if tr.Empty {
		fmt.Fprintln(a.out, "No weight entries yet")
		return
	}
	s := tr.Summary
	fmt.Fprintf(a.out, "Entries: %d  first %.1f kg  last %.1f kg  change %+.1f kg (%+.1f%%)\n",
		len(tr.Series), s.First, s.Last, s.Change, s.ChangePct)
	fmt.Fprintf(a.out, "Range:   %.1f - %.1f kg\n", s.Min, s.Max)
	fmt.Fprintf(a.out, "Path:    %s\n", tr.Path.D)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}
