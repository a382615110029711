package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/openclaw/qianne/internal/session"
)

type fakeNav struct {
	mu        sync.Mutex
	path      string
	redirects []string
}

func (n *fakeNav) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *fakeNav) Redirect(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, path)
	n.path = path
}

func newTestClient(t *testing.T, h http.Handler, token string) (*Client, *session.Session, *session.MemoryStore, *fakeNav) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	sess := session.New(store)
	if token != "" {
		if err := sess.Commit(context.Background(), token); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}
	nav := &fakeNav{path: "/dashboard"}
	c := NewClient(srv.URL+"/api", sess, WithNavigator(nav))
	return c, sess, store, nav
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestBearerHeaderAttachedWhenTokenPresent(t *testing.T) {
	var gotAuth, gotType, gotPath string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, ExpenseSummary{TotalAmount: 12.5, TotalCount: 3})
	})
	c, _, _, _ := newTestClient(t, h, "tok-123")

	s, err := c.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.TotalAmount != 12.5 || s.TotalCount != 3 {
		t.Fatalf("Summary = %+v", s)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if gotType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotType)
	}
	if gotPath != "/api/expenses/summary" {
		t.Fatalf("path = %q, want /api/expenses/summary", gotPath)
	}
}

func TestBearerHeaderOmittedWithoutToken(t *testing.T) {
	var sawAuth bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	c, _, _, _ := newTestClient(t, h, "")

	health, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health["status"] != "ok" {
		t.Fatalf("Health = %v", health)
	}
	if sawAuth {
		t.Fatal("Authorization header sent without a token")
	}
}

func TestUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token"})
	})
	c, sess, store, nav := newTestClient(t, h, "stale")

	_, err := c.Categories(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	var serr *StatusError
	if !errors.As(err, &serr) || serr.Detail != "Invalid token" {
		t.Fatalf("err = %#v, want StatusError with detail", err)
	}
	if sess.IsAuthenticated() {
		t.Fatal("session still authenticated after 401")
	}
	if _, ok, _ := store.Get(context.Background(), session.TokenKey); ok {
		t.Fatal("persisted token not cleared after 401")
	}
	if len(nav.redirects) != 1 || nav.redirects[0] != LoginPath {
		t.Fatalf("redirects = %v, want [/login]", nav.redirects)
	}
}

func TestUnauthorizedOnLoginPageDoesNotRedirect(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
	})
	c, _, _, nav := newTestClient(t, h, "")
	nav.path = LoginPath

	_, err := c.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if len(nav.redirects) != 0 {
		t.Fatalf("redirects = %v, want none while on login page", nav.redirects)
	}
}

func TestNon401ErrorKeepsSession(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "db down"})
	})
	c, sess, _, nav := newTestClient(t, h, "good")

	_, err := c.Timeline(context.Background())
	var serr *StatusError
	if !errors.As(err, &serr) || serr.StatusCode != 500 {
		t.Fatalf("err = %v, want StatusError 500", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("500 matched ErrUnauthorized")
	}
	if !sess.IsAuthenticated() {
		t.Fatal("session cleared on non-401 error")
	}
	if len(nav.redirects) != 0 {
		t.Fatalf("unexpected redirects %v", nav.redirects)
	}
}

func TestLoginSendsCredentialsAndValidatesToken(t *testing.T) {
	var got Credentials
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, Token{AccessToken: "new-token", TokenType: "bearer"})
	})
	c, _, _, _ := newTestClient(t, h, "")

	tok, err := c.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "new-token" {
		t.Fatalf("AccessToken = %q", tok.AccessToken)
	}
	if got.Username != "alice" || got.Password != "s3cret" {
		t.Fatalf("server saw %+v", got)
	}
}

func TestLoginRejectsMissingFieldsWithoutRequest(t *testing.T) {
	called := false
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	c, _, _, _ := newTestClient(t, h, "")

	if _, err := c.Login(context.Background(), "alice", ""); err == nil {
		t.Fatal("Login with empty password succeeded")
	}
	if called {
		t.Fatal("request sent despite invalid credentials")
	}
}

func TestLoginEmptyAccessTokenIsError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Token{TokenType: "bearer"})
	})
	c, _, _, _ := newTestClient(t, h, "")
	if _, err := c.Login(context.Background(), "alice", "pw"); err == nil {
		t.Fatal("Login accepted a response without access_token")
	}
}

func TestRedeemTicket(t *testing.T) {
	var body map[string]string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/exchange" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, Token{AccessToken: "from-ticket"})
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := NewClient(srv.URL+"/api", session.New(session.NewMemoryStore()), WithTicketPath("/auth/exchange"))
	tok, err := c.RedeemTicket(context.Background(), " tk-1 ")
	if err != nil {
		t.Fatalf("RedeemTicket: %v", err)
	}
	if tok.AccessToken != "from-ticket" || body["ticket"] != "tk-1" {
		t.Fatalf("token=%q body=%v", tok.AccessToken, body)
	}
}

func TestTimeoutSurfacesAsError(t *testing.T) {
	release := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, session.New(session.NewMemoryStore()), WithTimeout(50*time.Millisecond))
	start := time.Now()
	if _, err := c.Monthly(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("request not bounded by timeout")
	}
}

func TestSessionClearCancelsInFlightRequest(t *testing.T) {
	started := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})
	c, sess, _, _ := newTestClient(t, h, "abc")

	errCh := make(chan error, 1)
	go func() {
		_, err := c.PaymentMethods(context.Background())
		errCh <- err
	}()

	<-started
	_ = sess.Clear(context.Background())

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight request not canceled by session Clear")
	}
}

// clearedSession hands out a token whose epoch has already ended, as a
// Clear racing with the read would.
type clearedSession struct{ epoch context.Context }

func (s clearedSession) Current() (string, context.Context) { return "old", s.epoch }
func (clearedSession) Clear(context.Context) error { return nil }

func TestTokenFromEndedEpochIsNeverSent(t *testing.T) {
	var hits int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		writeJSON(w, http.StatusOK, []any{})
	}))
	t.Cleanup(srv.Close)

	epoch, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient(srv.URL+"/api", clearedSession{epoch: epoch})

	if _, err := c.Timeline(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if hits != 0 {
		t.Fatalf("server saw %d requests carrying a cleared token", hits)
	}
}

func TestProfileDisplayName(t *testing.T) {
	name := "Alice Liu"
	if got := (Profile{Username: "alice", FullName: &name}).DisplayName(); got != name {
		t.Fatalf("DisplayName = %q", got)
	}
	if got := (Profile{Username: "alice"}).DisplayName(); got != "alice" {
		t.Fatalf("DisplayName = %q", got)
	}
}

func TestCategoryLabel(t *testing.T) {
	typ, sub := "餐饮", "午餐"
	cases := []struct {
		c    CategoryExpense
		want string
	}{
		{CategoryExpense{TransTypeName: &typ, TransSubTypeName: &sub}, "餐饮 / 午餐"},
		{CategoryExpense{TransTypeName: &typ}, "餐饮"},
		{CategoryExpense{TransSubTypeName: &sub}, "午餐"},
		{CategoryExpense{}, "未分类"},
	}
	for _, tc := range cases {
		if got := tc.c.Label(); got != tc.want {
			t.Fatalf("Label() = %q, want %q", got, tc.want)
		}
	}
}

func TestStardustPlanetsAndOrbit(t *testing.T) {
	d := StardustData{Nodes: []StardustNode{
		{ID: "餐饮", Name: "餐饮", Category: "餐饮", Value: 300},
		{ID: "tx-1", Name: "午饭", Category: "餐饮", Value: 30},
		{ID: "交通", Name: "交通", Category: "交通", Value: 50},
		{ID: "tx-2", Name: "地铁", Category: "交通", Value: 5},
		{ID: "tx-3", Name: "晚饭", Category: "餐饮", Value: 60},
	}}
	planets := d.Planets()
	if len(planets) != 2 || planets[0].ID != "餐饮" || planets[1].ID != "交通" {
		t.Fatalf("Planets = %+v", planets)
	}
	if orbit := d.Orbit("餐饮"); len(orbit) != 2 || orbit[1].Name != "晚饭" {
		t.Fatalf("Orbit = %+v", orbit)
	}
}
