package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/openclaw/qianne/internal/router"
	"github.com/openclaw/qianne/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const loginFormWidth = 48

// loginState is the login view. huh binds to the fields by pointer, so it
// is held by pointer across App copies.
type loginState struct {
	username   string
	password   string
	notice     string
	submitting bool
	form       *huh.Form
}

func newLoginState(username, notice string) *loginState {
	l := &loginState{username: username, notice: notice}
	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("用户名").
				Value(&l.username).
				Validate(requiredField("用户名")),
			huh.NewInput().
				Title("密码").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(requiredField("密码")),
		),
	).WithShowHelp(false).WithWidth(loginFormWidth)
	return l
}

func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + "不能为空")
		}
		return nil
	}
}

func (a App) updateLoginForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	l := a.login
	if l == nil || l.submitting {
		return a, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	switch l.form.State {
	case huh.StateCompleted:
		l.submitting = true
		l.notice = ""
		user, pass := strings.TrimSpace(l.username), l.password
		l.password = ""
		return a, tea.Batch(a.loginCmd(user, pass), a.spinner.Tick)
	case huh.StateAborted:
		return a, tea.Quit
	}
	return a, cmd
}

func (a App) loginCmd(username, password string) tea.Cmd {
	au := a.deps.Auth
	timeout := a.deps.Config.Timeout() + requestSlack
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := au.Login(ctx, username, password)
		return loginResultMsg{err: err}
	}
}

// finishLogin shows the error inline, or enters the dashboard.
func (a App) finishLogin(err error) (tea.Model, tea.Cmd) {
	username := ""
	if a.login != nil {
		username = a.login.username
	}

	if err != nil || !a.deps.Auth.IsAuthenticated() {
		notice := "获取用户信息失败，请重试"
		if err != nil {
			notice = "登录失败: " + errorText(err)
		}
		a.login = newLoginState(username, notice)
		a.login.form = a.login.form.WithWidth(min(max(a.width-4, 20), loginFormWidth))
		return a, a.login.form.Init()
	}

	rt, navErr := a.deps.Router.Navigate(router.DashboardPath)
	if navErr != nil {
		a.log.Error().Err(navErr).Msg("entering dashboard after login")
		return a, nil
	}
	a.login = nil
	a.route = rt
	a.refreshing = true
	return a, tea.Batch(a.fetchAllCmd(), a.spinner.Tick)
}

func (a App) viewLogin() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ " + router.AppName))
	b.WriteString(subtitleStyle.Render(" · 登录"))
	b.WriteString("\n\n")

	l := a.login
	if l == nil {
		l = newLoginState("", "")
	}
	if l.notice != "" {
		b.WriteString(noticeStyle.Render(l.notice))
		b.WriteString("\n\n")
	}
	if l.submitting {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" 正在登录…"))
	} else {
		b.WriteString(l.form.View())
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("enter 提交 · tab 切换 · ctrl+c 退出"))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}
