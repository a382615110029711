package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/openclaw/qianne/internal/session"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	if _, found, err := db.Get(ctx, "token"); err != nil || found {
		t.Fatalf("Get on empty store: found=%v err=%v", found, err)
	}

	if err := db.Set(ctx, "token", "one"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := db.Set(ctx, "token", "two"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, found, err := db.Get(ctx, "token")
	if err != nil || !found || v != "two" {
		t.Fatalf("Get = %q found=%v err=%v, want two", v, found, err)
	}
	if ts, err := db.UpdatedAt(ctx, "token"); err != nil || ts.IsZero() {
		t.Fatalf("UpdatedAt = %v, %v", ts, err)
	}

	if err := db.Delete(ctx, "token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := db.Delete(ctx, "token"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, found, _ := db.Get(ctx, "token"); found {
		t.Fatal("token still present after Delete")
	}
}

func TestTokenSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s := session.New(db)
	if err := s.Commit(ctx, "durable"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	_ = db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	s2 := session.New(db2)
	if err := s2.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if s2.Token() != "durable" {
		t.Fatalf("Token() after reopen = %q, want durable", s2.Token())
	}
}
