// Package session owns the bearer token: its in-memory value, its durable
// copy, and the context that in-flight requests are bound to.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKey is the durable storage key holding the bearer token.
const TokenKey = "token"

// ErrNoToken is returned by Claims when the session is anonymous.
var ErrNoToken = errors.New("session: no token")

// Store is durable key/value storage. Get reports found=false for a
// missing key rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Session holds the current token. IsAuthenticated is derived from it on
// every call.
//
// Each session has an epoch context. Clear cancels it, which aborts every
// request bound to the old token, then starts a fresh epoch.
type Session struct {
	store Store

	mu     sync.RWMutex
	token  string
	epoch  context.Context
	cancel context.CancelFunc
}

// New returns an anonymous session backed by store. Call Init to pick up
// a token persisted by an earlier run.
func New(store Store) *Session {
	s := &Session{store: store}
	s.epoch, s.cancel = context.WithCancel(context.Background())
	return s
}

// Init loads the persisted token, if any.
func (s *Session) Init(ctx context.Context) error {
	token, found, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("loading token: %w", err)
	}
	if !found {
		token = ""
	}

	s.mu.Lock()
	s.token = strings.TrimSpace(token)
	s.mu.Unlock()
	return nil
}

// Token returns the current token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a non-empty token is held.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Commit writes token to memory and to durable storage. The in-memory
// value is updated even if persisting fails.
func (s *Session) Commit(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("session: empty token")
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	return nil
}

// Clear drops the token from memory and storage and cancels the current
// epoch. Safe to call on an anonymous session.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.cancel()
	s.epoch, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()

	if err := s.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

// Current returns the token together with the epoch it belongs to. A
// request bound to the returned context is canceled once that token is
// cleared.
func (s *Session) Current() (string, context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.epoch
}

// Claims is the display-only view of the token payload.
type Claims struct {
	Subject   string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the token carried an exp claim that has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the token payload without verifying its signature. The
// server remains the only authority on validity; this is for display.
func (s *Session) Claims() (Claims, error) {
	token := s.Token()
	if token == "" {
		return Claims{}, ErrNoToken
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("session: decoding token: %w", err)
	}

	var c Claims
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if uid, ok := mc["user_id"]; ok {
		c.UserID = fmt.Sprint(uid)
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
