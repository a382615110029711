package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestInitLoadsPersistedToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, TokenKey, "persisted")

	s := New(store)
	if s.IsAuthenticated() {
		t.Fatal("session authenticated before Init")
	}
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := s.Token(); got != "persisted" {
		t.Fatalf("Token() = %q, want persisted", got)
	}
	if !s.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = false after loading a token")
	}
}

func TestCommitPersistsAndClearRemoves(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := New(store)

	if err := s.Commit(ctx, "abc"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if v, ok, _ := store.Get(ctx, TokenKey); !ok || v != "abc" {
		t.Fatalf("stored token = %q (found=%v), want abc", v, ok)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = true after Clear")
	}
	if _, ok, _ := store.Get(ctx, TokenKey); ok {
		t.Fatal("token still persisted after Clear")
	}
}

func TestCommitRejectsEmptyToken(t *testing.T) {
	s := New(NewMemoryStore())
	if err := s.Commit(context.Background(), "   "); err == nil {
		t.Fatal("Commit of blank token succeeded")
	}
	if s.IsAuthenticated() {
		t.Fatal("blank token made the session authenticated")
	}
}

func TestClearCancelsEpoch(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore())
	_ = s.Commit(ctx, "abc")

	_, old := s.Current()
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	select {
	case <-old.Done():
	default:
		t.Fatal("old epoch context not canceled by Clear")
	}
	if _, epoch := s.Current(); epoch.Err() != nil {
		t.Fatal("new epoch context already canceled")
	}
}

func TestCurrentPairsTokenWithItsEpoch(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore())
	_ = s.Commit(ctx, "abc")

	tok, epoch := s.Current()
	if tok != "abc" || epoch.Err() != nil {
		t.Fatalf("Current = %q, err %v", tok, epoch.Err())
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if epoch.Err() == nil {
		t.Fatal("epoch returned with the cleared token is still live")
	}

	tok, epoch = s.Current()
	if tok != "" || epoch.Err() != nil {
		t.Fatalf("after Clear: Current = %q, err %v", tok, epoch.Err())
	}
}

func TestClaims(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     "alice",
		"user_id": "u-1",
		"exp":     exp.Unix(),
	}).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	s := New(NewMemoryStore())
	if _, err := s.Claims(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Claims() on anonymous session err = %v, want ErrNoToken", err)
	}

	_ = s.Commit(context.Background(), tok)
	c, err := s.Claims()
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if c.Subject != "alice" || c.UserID != "u-1" {
		t.Fatalf("Claims = %+v, want sub=alice user_id=u-1", c)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Fatalf("ExpiresAt = %v, want %v", c.ExpiresAt, exp)
	}
	if c.Expired(time.Now()) {
		t.Fatal("fresh token reported as expired")
	}
	if !c.Expired(exp.Add(time.Minute)) {
		t.Fatal("token not expired after exp")
	}
}

func TestClaimsOpaqueToken(t *testing.T) {
	s := New(NewMemoryStore())
	_ = s.Commit(context.Background(), "not-a-jwt")
	if _, err := s.Claims(); err == nil {
		t.Fatal("Claims() on opaque token should fail")
	}
	if !s.IsAuthenticated() {
		t.Fatal("opaque token must still count as authenticated")
	}
}
