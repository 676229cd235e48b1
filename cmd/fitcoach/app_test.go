package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NicolasHaas/fitcoach/pkg/config"
	"github.com/NicolasHaas/fitcoach/pkg/kv"
	"github.com/NicolasHaas/fitcoach/pkg/model"
	"github.com/NicolasHaas/fitcoach/pkg/rbac"
	"github.com/NicolasHaas/fitcoach/pkg/session"
)

// accounts maps email to the role returned on login; every password is "secret1".
var accounts = map[string]model.Role{
	"tess@example.com": model.RoleTrainer,
	"carl@example.com": model.RoleClient,
}

func newTestBackend(t *testing.T) (*httptest.Server, *[]model.WeightLog) {
	t.Helper()
	var logged []model.WeightLog
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds model.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		role, ok := accounts[creds.Email]
		if !ok || creds.Password != "secret1" {
			http.Error(w, `{"message":"invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(model.AuthResponse{
			Token: "tok-" + role.String(),
			User:  model.User{ID: role.String() + "-1", Name: strings.Split(creds.Email, "@")[0], Email: creds.Email, Role: role},
		})
	})
	mux.HandleFunc("GET /api/clients", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.Client{{ID: "c1", Name: "Carl", Weight: 82.5, Progress: 40}})
	})
	mux.HandleFunc("POST /api/weight-logs", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-client" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var entry model.WeightLog
		_ = json.NewDecoder(r.Body).Decode(&entry)
		entry.ID = "w1"
		logged = append(logged, entry)
		_ = json.NewEncoder(w).Encode(entry)
	})
	mux.HandleFunc("GET /api/weight-logs", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.WeightLog{
			{WeightKg: 80, LoggedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
			{WeightKg: 78, LoggedAt: time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &logged
}

// runCLI executes one command against st and returns its output.
func runCLI(t *testing.T, srv *httptest.Server, st kv.Storage, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.APIURL = srv.URL + "/api"
	var out bytes.Buffer
	a := newApp(cfg, st, &out, strings.NewReader(""))
	err := a.run(context.Background(), args)
	return out.String(), err
}

// sharedStorage ignores Close so several invocations can reuse one Memory.
type sharedStorage struct{ *kv.Memory }

func (sharedStorage) Close() error { return nil }

func TestLoginStatusLogout(t *testing.T) {
	srv, _ := newTestBackend(t)
	st := sharedStorage{kv.NewMemory()}

	out, err := runCLI(t, srv, st, "login", "-email", "tess@example.com", "-password", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as tess@example.com (trainer)") {
		t.Errorf("login output = %q", out)
	}

	out, err = runCLI(t, srv, st, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"logged-in", "trainer", "manage_clients"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "tok-trainer") {
		t.Errorf("status printed the raw token:\n%s", out)
	}

	if _, err := runCLI(t, srv, st, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	out, _ = runCLI(t, srv, st, "status")
	if !strings.Contains(out, "logged-out") {
		t.Errorf("status after logout = %q", out)
	}
}

func TestLoginPasswordFromPrompt(t *testing.T) {
	srv, _ := newTestBackend(t)
	cfg := config.Default()
	cfg.APIURL = srv.URL + "/api"
	var out bytes.Buffer
	a := newApp(cfg, kv.NewMemory(), &out, strings.NewReader("secret1\n"))

	if err := a.run(context.Background(), []string{"login", "-email", "carl@example.com"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if a.session.State() != session.StateLoggedIn {
		t.Errorf("state = %v, want logged-in", a.session.State())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv, _ := newTestBackend(t)
	st := kv.NewMemory()
	if _, err := runCLI(t, srv, st, "login", "-email", "tess@example.com", "-password", "bad"); err == nil {
		t.Fatalf("login with wrong password succeeded")
	}
	if st.Len() != 0 {
		t.Errorf("storage written after failed login: %d keys", st.Len())
	}
}

func TestClientsRequiresTrainer(t *testing.T) {
	srv, _ := newTestBackend(t)
	st := sharedStorage{kv.NewMemory()}

	if _, err := runCLI(t, srv, st, "clients"); !errors.Is(err, session.ErrNotLoggedIn) {
		t.Errorf("clients logged out err = %v, want %v", err, session.ErrNotLoggedIn)
	}

	if _, err := runCLI(t, srv, st, "login", "-email", "carl@example.com", "-password", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := runCLI(t, srv, st, "clients"); !errors.Is(err, rbac.ErrPermissionDenied) {
		t.Errorf("clients as client err = %v, want %v", err, rbac.ErrPermissionDenied)
	}

	_, _ = runCLI(t, srv, st, "logout")
	if _, err := runCLI(t, srv, st, "login", "-email", "tess@example.com", "-password", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	out, err := runCLI(t, srv, st, "clients")
	if err != nil {
		t.Fatalf("clients: %v", err)
	}
	if !strings.Contains(out, "Carl") || !strings.Contains(out, "82.5") {
		t.Errorf("clients output = %q", out)
	}
}

func TestLogWeightAndTrend(t *testing.T) {
	srv, logged := newTestBackend(t)
	st := sharedStorage{kv.NewMemory()}
	if _, err := runCLI(t, srv, st, "login", "-email", "carl@example.com", "-password", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := runCLI(t, srv, st, "log-weight", "-kg", "0"); !errors.Is(err, model.ErrNonPositive) {
		t.Errorf("log-weight 0 err = %v, want %v", err, model.ErrNonPositive)
	}
	out, err := runCLI(t, srv, st, "log-weight", "-kg", "79.4", "-date", "2026-05-09")
	if err != nil {
		t.Fatalf("log-weight: %v", err)
	}
	if !strings.Contains(out, "Logged 79.4 kg on 2026-05-09") {
		t.Errorf("log-weight output = %q", out)
	}
	if len(*logged) != 1 || (*logged)[0].ClientID != "client-1" {
		t.Errorf("backend received %+v", *logged)
	}

	out, err = runCLI(t, srv, st, "trend")
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if !strings.Contains(out, "change -2.0 kg") || !strings.Contains(out, "Path:    M") {
		t.Errorf("trend output = %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	srv, _ := newTestBackend(t)
	if _, err := runCLI(t, srv, kv.NewMemory(), "dance"); !errors.Is(err, errUsage) {
		t.Errorf("unknown command err = %v, want %v", err, errUsage)
	}
	if _, err := runCLI(t, srv, kv.NewMemory(), "login", "-bogus"); !errors.Is(err, errUsage) {
		t.Errorf("bad flag err = %v, want %v", err, errUsage)
	}
}

func TestOpenStorageSealsToken(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "storage.db")

	st, err := openStorage(ctx, path, "hunter2")
	if err != nil {
		t.Fatalf("openStorage: %v", err)
	}
	if err := st.Set(ctx, kv.KeyToken, "tok-secret"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := kv.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer raw.Close()
	stored, err := raw.Get(ctx, kv.KeyToken)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored == "tok-secret" {
		t.Errorf("token stored in plain text")
	}
}
