package tui

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/openclaw/qianne/internal/api"
	"github.com/openclaw/qianne/internal/auth"
	"github.com/openclaw/qianne/internal/config"
	"github.com/openclaw/qianne/internal/dashboard"
	"github.com/openclaw/qianne/internal/router"
	"github.com/openclaw/qianne/internal/session"
	"github.com/openclaw/qianne/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

func strp(s string) *string { return &s }

type fakeAPI struct{}

func (fakeAPI) Login(context.Context, string, string) (*api.Token, error) {
	return &api.Token{AccessToken: "tok"}, nil
}

func (fakeAPI) RedeemTicket(context.Context, string) (*api.Token, error) {
	return &api.Token{AccessToken: "tok"}, nil
}

func (fakeAPI) Me(context.Context) (*api.Profile, error) {
	return &api.Profile{Username: "alice"}, nil
}

func (fakeAPI) Summary(context.Context) (*api.ExpenseSummary, error) {
	return &api.ExpenseSummary{TotalAmount: 1500, TotalCount: 12, AvgAmount: 125,
		EarliestDate: strp("2024-01-03"), LatestDate: strp("2024-03-28")}, nil
}

func (fakeAPI) Monthly(context.Context) ([]api.MonthlyExpense, error) {
	return []api.MonthlyExpense{
		{Year: "2024", Month: "3", MonthlyTotal: 600, TransactionCount: 5},
		{Year: "2024", Month: "2", MonthlyTotal: 500, TransactionCount: 4},
		{Year: "2024", Month: "1", MonthlyTotal: 400, TransactionCount: 3},
	}, nil
}

func (fakeAPI) Categories(context.Context) ([]api.CategoryExpense, error) {
	return []api.CategoryExpense{
		{TransTypeName: strp("餐饮"), TransSubTypeName: strp("午餐"), Count: 8, TotalAmount: 900, AvgAmount: 112.5},
		{TransTypeName: strp("交通"), Count: 4, TotalAmount: 600, AvgAmount: 150},
	}, nil
}

func (fakeAPI) PaymentMethods(context.Context) ([]api.PaymentMethod, error) {
	return []api.PaymentMethod{
		{PayAccount: "招商银行", UsageCount: 7, TotalSpent: 1000, AvgPerTransaction: 142.86},
		{PayAccount: "微信零钱", UsageCount: 5, TotalSpent: 500, AvgPerTransaction: 100},
	}, nil
}

func (fakeAPI) Timeline(context.Context) ([]api.TimelineData, error) {
	return []api.TimelineData{
		{Date: "2024-03-27", DailyTotal: 80, TransactionCount: 2},
		{Date: "2024-03-28", DailyTotal: 120, TransactionCount: 1},
	}, nil
}

func (fakeAPI) Stardust(context.Context) (*api.StardustData, error) {
	return &api.StardustData{
		Nodes: []api.StardustNode{
			{ID: "餐饮", Name: "餐饮", SymbolSize: 40, Value: 900, Category: "餐饮"},
			{ID: "tx-1", Name: "咖啡", SymbolSize: 5, Value: 32, Category: "餐饮"},
		},
	}, nil
}

func newTestApp(t *testing.T, authed bool) App {
	t.Helper()
	sess := session.New(session.NewMemoryStore())
	if authed {
		if err := sess.Commit(context.Background(), "tok"); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}
	as := auth.NewStore(sess, fakeAPI{}, zerolog.Nop())
	dash := dashboard.NewStore(fakeAPI{}, zerolog.Nop())
	r := router.New(as)
	r.OnReset(dash.Reset)
	as.SetNavigator(r)

	a := NewApp(Deps{Auth: as, Dashboard: dash, Router: r, Config: config.DefaultConfig(), Log: zerolog.Nop()})
	a.width, a.height = 140, 40
	return a
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return next
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func drainBus(a App) []tea.Msg {
	var out []tea.Msg
	for {
		select {
		case m := <-a.bus:
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestAnonymousStartsOnLogin(t *testing.T) {
	a := newTestApp(t, false)
	if a.route.Path != router.LoginPath || a.login == nil {
		t.Fatalf("route = %q, login = %v", a.route.Path, a.login)
	}
	if a.refreshing {
		t.Fatal("anonymous app should not fetch")
	}
	if v := a.View(); !strings.Contains(v, "登录") {
		t.Fatal("login view missing title")
	}
}

func TestAuthenticatedStartsOnDashboard(t *testing.T) {
	a := newTestApp(t, true)
	if a.route.Path != router.DashboardPath {
		t.Fatalf("route = %q, want %q", a.route.Path, router.DashboardPath)
	}
	if !a.refreshing || a.login != nil {
		t.Fatalf("refreshing = %v, login = %v", a.refreshing, a.login)
	}
}

func TestTabKeysNavigateThroughRouter(t *testing.T) {
	a := newTestApp(t, true)
	a = update(t, a, DataLoadedMsg{})
	if !a.loaded || a.refreshing {
		t.Fatalf("loaded = %v, refreshing = %v", a.loaded, a.refreshing)
	}

	a = update(t, a, keyPress("2"))
	if a.route.Path != router.CategoryPath {
		t.Fatalf("route = %q, want %q", a.route.Path, router.CategoryPath)
	}
	if cur := a.deps.Router.Current(); cur.Path != router.CategoryPath {
		t.Fatalf("router current = %q", cur.Path)
	}

	a = update(t, a, tea.KeyMsg{Type: tea.KeyLeft})
	if a.route.Path != router.DashboardPath {
		t.Fatalf("after left: route = %q", a.route.Path)
	}
	a = update(t, a, tea.KeyMsg{Type: tea.KeyLeft})
	if a.route.Path != router.StardustPath {
		t.Fatalf("left from first tab should wrap, got %q", a.route.Path)
	}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	a := newTestApp(t, true)
	for active := range a.views {
		a.route = a.views[active]
		pos := 0
		for i, tab := range a.tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 50); got != -1 {
			t.Fatalf("x past the last tab = %d, want -1", got)
		}
	}
}

func TestRedirectPostsResetBeforeRoute(t *testing.T) {
	a := newTestApp(t, false)
	drainBus(a)

	a.deps.Router.Redirect(router.LoginPath)
	msgs := drainBus(a)
	if len(msgs) < 2 {
		t.Fatalf("got %d bus messages, want reset and route", len(msgs))
	}
	if _, ok := msgs[0].(resetMsg); !ok {
		t.Fatalf("first message = %T, want resetMsg", msgs[0])
	}
	rm, ok := msgs[len(msgs)-1].(routeMsg)
	if !ok || rm.route.Path != router.LoginPath {
		t.Fatalf("last message = %#v, want route to login", msgs[len(msgs)-1])
	}
}

func TestResetShowsExpiryNoticeUnlessLoggingOut(t *testing.T) {
	a := newTestApp(t, true)
	a = update(t, a, DataLoadedMsg{})

	expired := update(t, a, resetMsg{})
	if expired.loaded || expired.login == nil || !strings.Contains(expired.login.notice, "登录已失效") {
		t.Fatalf("after reset: loaded = %v, login = %+v", expired.loaded, expired.login)
	}

	a.loggingOut = true
	out := update(t, a, resetMsg{})
	if out.login == nil || out.login.notice != "" || out.loggingOut {
		t.Fatalf("logout reset: login = %+v, loggingOut = %v", out.login, out.loggingOut)
	}
}

func TestLoginErrorShownInline(t *testing.T) {
	a := newTestApp(t, false)
	a.login.username = "alice"

	err := &api.StatusError{Method: http.MethodPost, Path: "/auth/login", StatusCode: 401, Detail: "Incorrect username or password"}
	a = update(t, a, loginResultMsg{err: err})
	if a.route.Path != router.LoginPath {
		t.Fatalf("route = %q, want login", a.route.Path)
	}
	if !strings.Contains(a.login.notice, "Incorrect username or password") {
		t.Fatalf("notice = %q", a.login.notice)
	}
	if a.login.username != "alice" {
		t.Fatalf("username not kept: %q", a.login.username)
	}
}

func TestSuccessfulLoginEntersDashboard(t *testing.T) {
	a := newTestApp(t, false)
	if _, err := a.deps.Auth.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	a = update(t, a, loginResultMsg{})
	if a.route.Path != router.DashboardPath || a.login != nil || !a.refreshing {
		t.Fatalf("route = %q, login = %v, refreshing = %v", a.route.Path, a.login, a.refreshing)
	}
}

func TestRefreshKeyIsDebounced(t *testing.T) {
	a := newTestApp(t, true)
	a = update(t, a, DataLoadedMsg{})
	drainBus(a)

	for range 3 {
		a = update(t, a, keyPress("r"))
	}

	deadline := time.After(2 * time.Second)
	got := 0
	for {
		select {
		case m := <-a.bus:
			if _, ok := m.(refreshRequestMsg); ok {
				got++
			}
		case <-time.After(refreshDebounce * 3):
			if got != 1 {
				t.Fatalf("refresh requests = %d, want 1", got)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for refresh request")
		}
	}
}

func TestRefreshIgnoredWhileRefreshing(t *testing.T) {
	a := newTestApp(t, true)
	if _, cmd := a.Update(refreshRequestMsg{}); cmd != nil {
		t.Fatal("refresh while already refreshing should be a no-op")
	}
	a = update(t, a, DataLoadedMsg{})
	next := update(t, a, refreshRequestMsg{})
	if !next.refreshing {
		t.Fatal("refresh request did not start a fetch")
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := newTestApp(t, true)
	if err := a.deps.Dashboard.FetchAllData(context.Background()); err != nil {
		t.Fatalf("FetchAllData: %v", err)
	}
	if err := a.deps.Dashboard.FetchStardust(context.Background()); err != nil {
		t.Fatalf("FetchStardust: %v", err)
	}
	a = update(t, a, DataLoadedMsg{})

	want := map[string]string{
		router.DashboardPath: "月度支出",
		router.CategoryPath:  "餐饮 / 午餐",
		router.TimelinePath:  "每日支出",
		router.PaymentPath:   "招商银行",
		router.StardustPath:  "咖啡",
	}
	for i, v := range a.views {
		a = update(t, a, keyPress(string(rune('1'+i))))
		if a.route.Path != v.Path {
			t.Fatalf("key %d: route = %q, want %q", i+1, a.route.Path, v.Path)
		}
		out := a.View()
		if !strings.Contains(out, want[v.Path]) {
			t.Fatalf("%s view missing %q", v.Path, want[v.Path])
		}
	}
}

func TestViewShowsEmptyStateWhenNothingLoaded(t *testing.T) {
	a := newTestApp(t, true)
	a = update(t, a, DataLoadedMsg{Err: context.DeadlineExceeded})
	if !a.loaded {
		t.Fatal("loaded should be set after the first load settles")
	}
	out := a.View()
	if !strings.Contains(out, "暂无数据") || !strings.Contains(out, "按 r 重试") {
		t.Fatal("empty dashboard did not render the empty state")
	}
	if strings.Contains(out, "月度支出") {
		t.Fatal("empty dashboard rendered the overview")
	}
}

func TestListStateMoveClamps(t *testing.T) {
	var l listState
	l = l.move("k", 3)
	if l.cursor != 0 {
		t.Fatalf("cursor = %d after k at top", l.cursor)
	}
	l = l.move("G", 3)
	l = l.move("j", 3)
	if l.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", l.cursor)
	}
	if start, end := l.window(3, 2); start != 1 || end != 3 {
		t.Fatalf("window = [%d, %d), want [1, 3)", start, end)
	}
	if l = l.move("j", 0); l.cursor != 0 {
		t.Fatalf("empty list cursor = %d", l.cursor)
	}
}

func TestMonthlySeriesIsChronological(t *testing.T) {
	months := []api.MonthlyExpense{
		{Year: "2024", Month: "2", MonthlyTotal: 20},
		{Year: "2024", Month: "1", MonthlyTotal: 10},
		{Year: "2023", Month: "12", MonthlyTotal: 5},
	}
	vals, labels := monthlySeries(months, 24)
	if vals[0] != 5 || vals[2] != 20 {
		t.Fatalf("vals = %v, want oldest first", vals)
	}
	if labels[0] != "23/12" || labels[1] != "24/1" || labels[2] != "2" {
		t.Fatalf("labels = %v", labels)
	}

	vals, _ = monthlySeries(months, 2)
	if len(vals) != 2 || vals[1] != 20 {
		t.Fatalf("limited vals = %v, want the two newest", vals)
	}
}
