// Package auth holds the authenticated identity: the session token and the
// user profile fetched with it.
package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/openclaw/qianne/internal/api"
	"github.com/openclaw/qianne/internal/session"

	"github.com/rs/zerolog"
)

// Client is the subset of the API the auth store needs.
type Client interface {
	Login(ctx context.Context, username, password string) (*api.Token, error)
	RedeemTicket(ctx context.Context, ticket string) (*api.Token, error)
	Me(ctx context.Context) (*api.Profile, error)
}

// Navigator performs the hard redirect after logout.
type Navigator interface {
	Redirect(path string)
}

// Store is the auth session state. It is Anonymous without a token and
// Authenticated with one; the profile is optional in either case.
type Store struct {
	sess   *session.Session
	client Client
	nav    Navigator
	log    zerolog.Logger

	mu   sync.RWMutex
	user *api.Profile
}

// NewStore returns a store over an already-initialized session.
func NewStore(sess *session.Session, client Client, log zerolog.Logger) *Store {
	return &Store{sess: sess, client: client, log: log}
}

// SetNavigator attaches the navigator used by Logout.
func (s *Store) SetNavigator(nav Navigator) {
	s.nav = nav
}

// Session returns the underlying session.
func (s *Store) Session() *session.Session {
	return s.sess
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	return s.sess.IsAuthenticated()
}

// Token returns the current token.
func (s *Store) Token() string {
	return s.sess.Token()
}

// User returns the last fetched profile, or nil.
func (s *Store) User() *api.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Login exchanges credentials for a token and commits it. On failure the
// error is returned for display and the state stays Anonymous.
func (s *Store) Login(ctx context.Context, username, password string) (bool, error) {
	tok, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("login failed")
		return false, err
	}
	if err := s.CommitToken(ctx, tok.AccessToken); err != nil {
		return false, err
	}
	return true, nil
}

// LoginWithTicket redeems an external login ticket and commits the token.
func (s *Store) LoginWithTicket(ctx context.Context, ticket string) (bool, error) {
	tok, err := s.client.RedeemTicket(ctx, ticket)
	if err != nil {
		s.log.Error().Err(err).Msg("ticket redemption failed")
		return false, err
	}
	if err := s.CommitToken(ctx, tok.AccessToken); err != nil {
		return false, err
	}
	return true, nil
}

// CommitToken is the single path from Anonymous to Authenticated, whatever
// credential flow produced the token. It persists the token, then fetches
// the profile; a failed profile fetch logs the session out again.
func (s *Store) CommitToken(ctx context.Context, token string) error {
	if err := s.sess.Commit(ctx, token); err != nil {
		s.log.Error().Err(err).Msg("committing token")
		if !s.sess.IsAuthenticated() {
			return fmt.Errorf("auth: %w", err)
		}
		// Held in memory only; the session still works for this run.
	}
	s.FetchUser(ctx)
	return nil
}

// FetchUser refreshes the profile. Without a token it does nothing. A
// failure means the token is not usable, so the session is logged out.
func (s *Store) FetchUser(ctx context.Context) {
	if !s.sess.IsAuthenticated() {
		return
	}

	p, err := s.client.Me(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to fetch user")
		s.Logout(ctx)
		return
	}

	s.mu.Lock()
	s.user = p
	s.mu.Unlock()
}

// Logout clears the token and profile in memory and storage, which cancels
// requests still in flight, then hard-redirects to the login route.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	// The caller's ctx may belong to the epoch being cleared.
	if err := s.sess.Clear(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn().Err(err).Msg("clearing session")
	}

	if s.nav != nil {
		s.nav.Redirect(api.LoginPath)
	}
}
