package kv_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NicolasHaas/fitcoach/pkg/kv"

	"github.com/google/go-cmp/cmp"
)

func newTestSQLite(t *testing.T) *kv.SQLite {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "storage.db")
	st, err := kv.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("kv_test: failed to open db: %v", err)
	}

	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			fmt.Printf("Error closing database: %v\n", err)
		}
	})
	return st
}

// withStorages runs fn against every Storage implementation.
func withStorages(t *testing.T, fn func(t *testing.T, st kv.Storage)) {
	t.Helper()

	t.Run("sqlite", func(t *testing.T) { fn(t, newTestSQLite(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, kv.NewMemory()) })
	t.Run("sealed", func(t *testing.T) {
		sealed, err := kv.NewSealed(context.Background(), kv.NewMemory(), "passphrase", kv.KeyToken)
		if err != nil {
			t.Fatalf("NewSealed: %v", err)
		}
		fn(t, sealed)
	})
}

func TestGetSetRemove(t *testing.T) {
	withStorages(t, func(t *testing.T, st kv.Storage) {
		ctx := context.Background()

		if _, err := st.Get(ctx, kv.KeyToken); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
		}

		if err := st.Set(ctx, kv.KeyToken, "abc"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := st.Set(ctx, kv.KeyToken, "def"); err != nil {
			t.Fatalf("Set overwrite: %v", err)
		}
		got, err := st.Get(ctx, kv.KeyToken)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != "def" {
			t.Errorf("Get = %q, want def", got)
		}

		if err := st.Remove(ctx, kv.KeyToken); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if err := st.Remove(ctx, kv.KeyToken); err != nil {
			t.Fatalf("Remove missing key: %v", err)
		}
		if _, err := st.Get(ctx, kv.KeyToken); !errors.Is(err, kv.ErrNotFound) {
			t.Errorf("Get after remove: err = %v, want ErrNotFound", err)
		}
	})
}

func TestEmptyValueIsStored(t *testing.T) {
	withStorages(t, func(t *testing.T, st kv.Storage) {
		ctx := context.Background()
		if err := st.Set(ctx, kv.KeyProfile, ""); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := st.Get(ctx, kv.KeyProfile)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != "" {
			t.Errorf("Get = %q, want empty", got)
		}
		if err := st.Set(ctx, "", "x"); err == nil {
			t.Errorf("Set with empty key: expected error")
		}
	})
}

func TestMultiOps(t *testing.T) {
	withStorages(t, func(t *testing.T, st kv.Storage) {
		ctx := context.Background()

		pairs := map[string]string{
			kv.KeyToken:  "tok",
			kv.KeyUserID: "u-1",
			kv.KeyEmail:  "ann@example.com",
			kv.KeyRole:   "trainer",
		}
		if err := st.MultiSet(ctx, pairs); err != nil {
			t.Fatalf("MultiSet: %v", err)
		}
		if err := st.Set(ctx, kv.KeyHasOnboarded, "true"); err != nil {
			t.Fatalf("Set: %v", err)
		}

		got, err := st.MultiGet(ctx, append(kv.AuthKeys, "missing")...)
		if err != nil {
			t.Fatalf("MultiGet: %v", err)
		}
		if diff := cmp.Diff(pairs, got); diff != "" {
			t.Errorf("MultiGet mismatch (-want +got):\n%s", diff)
		}

		if err := st.MultiRemove(ctx, kv.AuthKeys...); err != nil {
			t.Fatalf("MultiRemove: %v", err)
		}
		got, err = st.MultiGet(ctx, append(kv.AuthKeys, kv.KeyHasOnboarded)...)
		if err != nil {
			t.Fatalf("MultiGet after remove: %v", err)
		}
		want := map[string]string{kv.KeyHasOnboarded: "true"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("MultiGet after remove mismatch (-want +got):\n%s", diff)
		}

		empty, err := st.MultiGet(ctx)
		if err != nil || len(empty) != 0 {
			t.Errorf("MultiGet with no keys = %v, %v", empty, err)
		}
	})
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "storage.db")

	st, err := kv.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.Set(ctx, kv.KeyRole, "client"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := kv.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, kv.KeyRole)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got != "client" {
		t.Errorf("Get after reopen = %q, want client", got)
	}
}

func TestSealedEncryptsSelectedKeys(t *testing.T) {
	ctx := context.Background()
	inner := kv.NewMemory()

	sealed, err := kv.NewSealed(ctx, inner, "passphrase", kv.KeyToken)
	if err != nil {
		t.Fatalf("NewSealed: %v", err)
	}
	if err := sealed.MultiSet(ctx, map[string]string{kv.KeyToken: "secret-token", kv.KeyRole: "client"}); err != nil {
		t.Fatalf("MultiSet: %v", err)
	}

	raw, err := inner.Get(ctx, kv.KeyToken)
	if err != nil {
		t.Fatalf("inner Get: %v", err)
	}
	if strings.Contains(raw, "secret-token") {
		t.Errorf("token stored in clear: %q", raw)
	}
	role, _ := inner.Get(ctx, kv.KeyRole)
	if role != "client" {
		t.Errorf("unsealed key changed: %q", role)
	}

	// A second wrapper over the same storage reuses the salt.
	again, err := kv.NewSealed(ctx, inner, "passphrase", kv.KeyToken)
	if err != nil {
		t.Fatalf("NewSealed again: %v", err)
	}
	got, err := again.Get(ctx, kv.KeyToken)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "secret-token" {
		t.Errorf("Get = %q, want secret-token", got)
	}

	wrong, err := kv.NewSealed(ctx, inner, "other", kv.KeyToken)
	if err != nil {
		t.Fatalf("NewSealed wrong passphrase: %v", err)
	}
	if _, err := wrong.Get(ctx, kv.KeyToken); err == nil {
		t.Errorf("Get with wrong passphrase: expected error")
	}
}

func TestSealedRequiresPassphrase(t *testing.T) {
	if _, err := kv.NewSealed(context.Background(), kv.NewMemory(), ""); err == nil {
		t.Fatalf("expected error for empty passphrase")
	}
}
