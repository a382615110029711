// Package tui provides the interactive Bubble Tea dashboard for 钱呢.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openclaw/qianne/internal/api"
	"github.com/openclaw/qianne/internal/auth"
	"github.com/openclaw/qianne/internal/cli"
	"github.com/openclaw/qianne/internal/config"
	"github.com/openclaw/qianne/internal/dashboard"
	"github.com/openclaw/qianne/internal/router"
	"github.com/openclaw/qianne/internal/tui/components"
	"github.com/openclaw/qianne/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// DataLoadedMsg is sent when a bulk dashboard fetch settles.
type DataLoadedMsg struct {
	Err  error
	Took time.Duration
}

// StardustLoadedMsg is sent when the stardust graph fetch settles.
type StardustLoadedMsg struct {
	Err error
}

type (
	// busMsg wraps everything that arrives on the event bus so the
	// listener can be re-armed after each delivery.
	busMsg            struct{ msg tea.Msg }
	routeMsg          struct{ route router.Route }
	titleMsg          string
	resetMsg          struct{}
	refreshRequestMsg struct{}
	loginResultMsg    struct{ err error }
	userLoadedMsg     struct{}
	tickMsg           struct{}
)

// Deps are the long-lived stores the app drives. Router hooks are
// registered by NewApp.
type Deps struct {
	Auth      *auth.Store
	Dashboard *dashboard.Store
	Router    *router.Router
	Config    config.Config
	Log       zerolog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	deps Deps
	log  zerolog.Logger

	// Events posted from router hooks and debounced timers.
	bus            chan tea.Msg
	requestRefresh func(struct{})

	route router.Route
	views []router.Route
	tabs  []components.Tab

	loaded          bool
	refreshing      bool
	stardustLoading bool
	loggingOut      bool

	autoRefresh     bool
	refreshInterval time.Duration

	width    int
	height   int
	showHelp bool

	login             *loginState
	showAllCategories bool
	payment           listState
	stardust          listState

	spinner spinner.Model
	now     func() time.Time
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	busSize            = 64
	refreshDebounce    = 300 * time.Millisecond
	minRefreshInterval = 30 * time.Second
	requestSlack       = 5 * time.Second
)

// NewApp builds the app and registers its router hooks. The initial route
// is resolved from "/", so an Anonymous session starts on the login view.
func NewApp(d Deps) App {
	log := d.Log.With().Str("component", "tui").Logger()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	bus := make(chan tea.Msg, busSize)
	post := func(msg tea.Msg) {
		select {
		case bus <- msg:
		default:
			log.Warn().Type("msg", msg).Msg("event bus full, dropping message")
		}
	}

	a := App{
		deps:            d,
		log:             log,
		bus:             bus,
		requestRefresh:  cli.Debounce(func(struct{}) { post(refreshRequestMsg{}) }, refreshDebounce),
		views:           d.Router.Views(),
		autoRefresh:     d.Config.TUI.AutoRefresh,
		refreshInterval: max(d.Config.RefreshInterval(), minRefreshInterval),
		spinner:         sp,
		now:             time.Now,
	}
	a.tabs = make([]components.Tab, len(a.views))
	for i, v := range a.views {
		a.tabs[i] = components.Tab{Name: v.Title, Key: rune('1' + i)}
	}

	d.Router.OnChange(func(rt router.Route) { post(routeMsg{route: rt}) })
	d.Router.OnReset(func() { post(resetMsg{}) })
	d.Router.SetTitleSetter(func(title string) { post(titleMsg(title)) })

	rt, err := d.Router.Navigate(router.RootPath)
	if err != nil {
		log.Error().Err(err).Msg("resolving initial route")
	}
	a.route = rt
	if rt.Path == router.LoginPath || rt.Path == "" {
		a.login = newLoginState("", "")
	} else {
		a.refreshing = true
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, waitForBus(a.bus), a.spinner.Tick, tickCmd()}
	if a.login != nil {
		cmds = append(cmds, a.login.form.Init())
	}
	if a.refreshing {
		cmds = append(cmds, a.fetchAllCmd(), a.fetchUserCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case busMsg:
		m, cmd := a.Update(msg.msg)
		return m, tea.Batch(cmd, waitForBus(a.bus))

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.login != nil {
			a.login.form = a.login.form.WithWidth(min(max(msg.Width-4, 20), loginFormWidth))
		}
		return a, nil

	case titleMsg:
		return a, tea.SetWindowTitle(string(msg))

	case routeMsg:
		return a.enterRoute(msg.route)

	case resetMsg:
		a.loaded = false
		a.refreshing = false
		a.stardustLoading = false
		a.showAllCategories = false
		a.payment = listState{}
		a.stardust = listState{}
		notice := ""
		if !a.loggingOut {
			notice = "登录已失效，请重新登录"
		}
		a.loggingOut = false
		a.login = newLoginState("", notice)
		return a, a.login.form.Init()

	case refreshRequestMsg:
		return a.startRefresh()

	case DataLoadedMsg:
		a.refreshing = false
		if a.deps.Auth.IsAuthenticated() {
			a.loaded = true
		}
		if msg.Err != nil {
			a.log.Warn().Err(msg.Err).Dur("took", msg.Took).Msg("dashboard refresh incomplete")
		} else {
			a.log.Debug().Dur("took", msg.Took).Msg("dashboard refreshed")
		}
		return a, nil

	case StardustLoadedMsg:
		a.stardustLoading = false
		if msg.Err != nil {
			a.log.Warn().Err(msg.Err).Msg("stardust fetch failed")
		}
		return a, nil

	case userLoadedMsg:
		return a, nil

	case loginResultMsg:
		return a.finishLogin(msg.err)

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.autoRefreshDue() {
			a.refreshing = true
			cmds = append(cmds, a.fetchAllCmd(), a.spinner.Tick)
		}
		return a, tea.Batch(cmds...)

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	// Cursor blinks and other form internals.
	if a.onLogin() {
		return a.updateLoginForm(msg)
	}
	return a, nil
}

func (a App) onLogin() bool {
	return a.route.Path == router.LoginPath || a.route.Path == ""
}

func (a App) busy() bool {
	return a.refreshing || a.stardustLoading || (a.login != nil && a.login.submitting)
}

func (a App) autoRefreshDue() bool {
	if !a.autoRefresh || !a.loaded || a.refreshing || a.onLogin() || !a.deps.Auth.IsAuthenticated() {
		return false
	}
	fetched := a.deps.Dashboard.Snapshot().FetchedAt
	return !fetched.IsZero() && a.now().Sub(fetched) >= a.refreshInterval
}

// enterRoute applies a route change reported by the router.
func (a App) enterRoute(rt router.Route) (tea.Model, tea.Cmd) {
	prev := a.route.Path
	a.route = rt

	if a.onLogin() {
		if a.login == nil {
			a.login = newLoginState("", "")
			return a, a.login.form.Init()
		}
		return a, nil
	}

	a.login = nil
	var cmds []tea.Cmd
	if !a.loaded && !a.refreshing {
		a.refreshing = true
		cmds = append(cmds, a.fetchAllCmd(), a.spinner.Tick)
	}
	if rt.Path == router.StardustPath && prev != rt.Path {
		cmds = append(cmds, a.stardustCmd(false))
	}
	return a, tea.Batch(cmds...)
}

func (a App) startRefresh() (tea.Model, tea.Cmd) {
	if a.refreshing || a.onLogin() || !a.deps.Auth.IsAuthenticated() {
		return a, nil
	}
	a.refreshing = true
	cmds := []tea.Cmd{a.fetchAllCmd(), a.spinner.Tick}
	if a.route.Path == router.StardustPath {
		cmds = append(cmds, a.stardustCmd(true))
	}
	return a, tea.Batch(cmds...)
}

func (a App) activeTab() int {
	for i, v := range a.views {
		if v.Path == a.route.Path {
			return i
		}
	}
	return 0
}

func (a App) selectTab(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(a.views) {
		return a, nil
	}
	rt, err := a.deps.Router.Navigate(a.views[i].Path)
	if err != nil {
		return a, nil
	}
	return a.enterRoute(rt)
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if a.onLogin() {
		return a.updateLoginForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	n := len(a.tabs)
	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		a.requestRefresh(struct{}{})
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		a.persistAutoRefresh()
		return a, nil
	case "L":
		a.loggingOut = true
		return a, a.logoutCmd()
	case "left", "shift+tab":
		if n > 0 {
			return a.selectTab((a.activeTab() - 1 + n) % n)
		}
		return a, nil
	case "right", "tab":
		if n > 0 {
			return a.selectTab((a.activeTab() + 1) % n)
		}
		return a, nil
	}

	if runes := []rune(key); len(runes) == 1 {
		if i := components.TabIdxByKey(a.tabs, runes[0]); i >= 0 {
			return a.selectTab(i)
		}
	}

	switch a.route.Path {
	case router.CategoryPath:
		if key == "a" {
			a.showAllCategories = !a.showAllCategories
		}
		return a, nil
	case router.PaymentPath, router.StardustPath:
		return a.updateListKey(key)
	}
	return a, nil
}

func (a App) updateListKey(key string) (tea.Model, tea.Cmd) {
	snap := a.deps.Dashboard.Snapshot()
	switch a.route.Path {
	case router.PaymentPath:
		a.payment = a.payment.move(key, len(snap.PaymentMethods))
	case router.StardustPath:
		n := 0
		if snap.Stardust != nil {
			n = len(snap.Stardust.Planets())
		}
		a.stardust = a.stardust.move(key, n)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.onLogin() {
		return a.updateLoginForm(msg)
	}
	if a.showHelp || msg.Action != tea.MouseActionPress {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return a.updateListKey("k")
	case tea.MouseButtonWheelDown:
		return a.updateListKey("j")
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if i := a.tabAtX(msg.X); i >= 0 {
				return a.selectTab(i)
			}
		}
	}
	return a, nil
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	active := a.activeTab()
	pos := 0
	for i, tab := range a.tabs {
		tabW := components.TabVisualWidth(tab, i == active)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		// Separator.
		pos++
	}
	return -1
}

func (a App) persistAutoRefresh() {
	cfg, err := config.Load()
	if err != nil {
		a.log.Warn().Err(err).Msg("loading config to save auto-refresh")
		return
	}
	cfg.TUI.AutoRefresh = a.autoRefresh
	if err := config.Save(cfg); err != nil {
		a.log.Warn().Err(err).Msg("saving auto-refresh")
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.onLogin() {
		return a.viewLogin()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  终端太窄 (%d 列)\n\n  %s 至少需要 %d 列。\n",
		a.width, router.AppName, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ " + router.AppName))
	b.WriteString(subtitleStyle.Render(" · 个人支出分析"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" 正在加载数据…"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	keys := make([]string, len(a.tabs))
	for i, tab := range a.tabs {
		keys[i] = string(tab.Key)
	}

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"导航", [][2]string{
			{strings.Join(keys, " "), "切换视图"},
			{"← →", "上一个 / 下一个视图"},
			{"j k", "列表上下移动"},
			{"a", "分类: 显示全部 / 前十"},
		}},
		{"操作", [][2]string{
			{"r", "刷新数据"},
			{"R", "自动刷新开关"},
			{"L", "退出登录"},
			{"?", "帮助"},
			{"q", "退出"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ 快捷键"))
	b.WriteString("\n\n")
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			key := bind[0] + strings.Repeat(" ", max(10-lipgloss.Width(bind[0]), 0))
			fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(key), descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("按任意键关闭"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height
	snap := a.deps.Dashboard.Snapshot()

	// 1. Header: tab bar and the account line.
	header := components.RenderTabBar(a.tabs, a.activeTab(), w) + "\n" + a.renderAccountLine(w)

	// 2. Status bar.
	statusBar := components.RenderStatusBar(w, components.Status{
		User:        a.userName(),
		Error:       snap.Error,
		FetchedAt:   snap.FetchedAt,
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
	}, a.now())

	// 3. Content zone height.
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 4. Tab content.
	var content string
	switch {
	case snap.Empty() && a.route.Path != router.StardustPath:
		content = renderEmptyState(snap, cw)
	case a.route.Path == router.CategoryPath:
		content = a.renderCategoriesTab(snap, cw)
	case a.route.Path == router.TimelinePath:
		content = a.renderTimelineTab(snap, cw)
	case a.route.Path == router.PaymentPath:
		content = a.renderPaymentTab(snap, cw, contentH)
	case a.route.Path == router.StardustPath:
		content = a.renderStardustTab(snap, cw, contentH)
	default:
		content = a.renderOverviewTab(snap, cw)
	}

	// 5. Exactly contentH lines, each filled to the content width.
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)

	// 6. Center when the terminal is wider than the content.
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderEmptyState replaces the tab content when no slice has loaded.
func renderEmptyState(snap dashboard.Snapshot, w int) string {
	lines := []string{"", "  暂无数据"}
	if snap.Error != "" {
		lines = append(lines, "  "+snap.Error)
	}
	lines = append(lines, "", "  按 r 重试")
	return components.ContentCard("", mutedLine(strings.Join(lines, "\n")), w)
}

// renderAccountLine shows the view title and, on the right, the token
// expiry decoded from its claims.
func (a App) renderAccountLine(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := dim.Render(" ") + accent.Render(router.AppName) + dim.Render(" · "+a.route.Title)
	if a.route.Experimental {
		left += dim.Render(" (实验)")
	}

	right := ""
	if claims, err := a.deps.Auth.Session().Claims(); err == nil && !claims.ExpiresAt.IsZero() {
		exp := claims.ExpiresAt.Local()
		if claims.Expired(a.now()) {
			right = warn.Render("令牌已过期 ")
		} else {
			right = dim.Render(fmt.Sprintf("令牌有效至 %d月%d日 %s ", int(exp.Month()), exp.Day(), exp.Format("15:04")))
		}
	}

	gap := max(w-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return lipgloss.NewStyle().Background(t.Surface).Width(w).MaxWidth(w).
		Render(left + dim.Render(strings.Repeat(" ", gap)) + right)
}

func (a App) userName() string {
	if u := a.deps.Auth.User(); u != nil {
		return u.DisplayName()
	}
	return ""
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// waitForBus blocks until the next event arrives on the bus.
func waitForBus(bus chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return busMsg{msg: <-bus}
	}
}

func (a App) fetchAllCmd() tea.Cmd {
	d := a.deps.Dashboard
	return func() tea.Msg {
		start := time.Now()
		err := d.FetchAllData(context.Background())
		return DataLoadedMsg{Err: err, Took: time.Since(start)}
	}
}

// stardustCmd fetches the stardust graph unless it is already loaded or
// loading; force refetches a loaded graph.
func (a *App) stardustCmd(force bool) tea.Cmd {
	if a.stardustLoading {
		return nil
	}
	if !force && a.deps.Dashboard.Snapshot().Stardust != nil {
		return nil
	}
	a.stardustLoading = true
	d := a.deps.Dashboard
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		return StardustLoadedMsg{Err: d.FetchStardust(context.Background())}
	})
}

func (a App) fetchUserCmd() tea.Cmd {
	au := a.deps.Auth
	timeout := a.deps.Config.Timeout() + requestSlack
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		au.FetchUser(ctx)
		return userLoadedMsg{}
	}
}

func (a App) logoutCmd() tea.Cmd {
	au := a.deps.Auth
	return func() tea.Msg {
		au.Logout(context.Background())
		return nil
	}
}

// ─── Layout helpers ─────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color
// so gaps between cards are filled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// mutedLine renders a single muted hint used by empty cards.
func mutedLine(s string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(s)
}

// errorText turns an API error into a line fit for the login form.
func errorText(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return err.Error()
}

// listState is a cursor over a list with a scroll offset.
type listState struct {
	cursor int
	offset int
}

func (l listState) move(key string, n int) listState {
	if n == 0 {
		return listState{}
	}
	switch key {
	case "j", "down":
		l.cursor++
	case "k", "up":
		l.cursor--
	case "g", "home":
		l.cursor = 0
	case "G", "end":
		l.cursor = n - 1
	}
	l.cursor = min(max(l.cursor, 0), n-1)
	return l
}

// window returns the visible [start, end) range for visible rows,
// keeping the cursor on screen.
func (l listState) window(n, visible int) (int, int) {
	visible = max(visible, 1)
	offset := min(l.offset, l.cursor)
	if l.cursor >= offset+visible {
		offset = l.cursor - visible + 1
	}
	offset = max(offset, 0)
	return offset, min(offset+visible, n)
}
