package tui

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/openclaw/qianne/internal/config"
	"github.com/openclaw/qianne/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues are the settings the setup wizard edits.
type SetupValues struct {
	BaseURL     string
	Theme       string
	AutoRefresh bool
	RefreshSec  string
}

// SetupValuesFrom seeds the wizard from cfg.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		BaseURL:     cfg.API.BaseURL,
		Theme:       cfg.Appearance.Theme,
		AutoRefresh: cfg.TUI.AutoRefresh,
		RefreshSec:  strconv.Itoa(cfg.TUI.RefreshIntervalSec),
	}
}

// Apply copies the wizard's answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(v.BaseURL), "/")
	cfg.Appearance.Theme = v.Theme
	cfg.TUI.AutoRefresh = v.AutoRefresh
	if n, err := strconv.Atoi(strings.TrimSpace(v.RefreshSec)); err == nil {
		cfg.TUI.RefreshIntervalSec = n
	}
}

// NewSetupForm builds the setup wizard bound to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("欢迎使用 钱呢").
				Description("几个问题之后即可开始。\n随时可以运行 qianne setup 重新配置。"),
			huh.NewInput().
				Title("API 地址").
				Description("支出服务的基础地址，例如 http://localhost:8000/api").
				Value(&v.BaseURL).
				Validate(validateBaseURL),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("配色主题").
				Options(themeOpts...).
				Value(&v.Theme),
			huh.NewConfirm().
				Title("仪表盘自动刷新?").
				Value(&v.AutoRefresh),
			huh.NewInput().
				Title("刷新间隔 (秒)").
				Value(&v.RefreshSec).
				Validate(validateRefreshSec),
		),
	).WithShowHelp(true)
}

func validateBaseURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("需要 http(s):// 开头的完整地址")
	}
	return nil
}

func validateRefreshSec(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 30 {
		return errors.New("至少 30 秒")
	}
	return nil
}
