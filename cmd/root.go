// Package cmd implements the qianne CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"

	"github.com/openclaw/qianne/internal/api"
	"github.com/openclaw/qianne/internal/auth"
	"github.com/openclaw/qianne/internal/cli"
	"github.com/openclaw/qianne/internal/config"
	"github.com/openclaw/qianne/internal/dashboard"
	"github.com/openclaw/qianne/internal/logger"
	"github.com/openclaw/qianne/internal/router"
	"github.com/openclaw/qianne/internal/session"
	"github.com/openclaw/qianne/internal/store"
	"github.com/openclaw/qianne/internal/tui/theme"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagAPIURL    string
	flagLogLevel  string
	flagEphemeral bool
)

// errNotLoggedIn is what every data command reports for an Anonymous
// session.
var errNotLoggedIn = errors.New(`Not logged in. Run "qianne login".`)

var rootCmd = &cobra.Command{
	Use:          "qianne",
	Short:        "钱呢 expense dashboard in the terminal",
	Long:         "Sign in to the 钱呢 expense API and browse spending summaries, categories, timelines and payment methods.",
	SilenceUsage: true,
	RunE:         runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "API base URL, overrides config and QIANNE_API_URL")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Keep the token in memory only for this run")
}

// loadConfig is the shared config path: file, .env, environment, then flags.
func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagEphemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	return cfg, cfg.Validate()
}

// app holds the stores a command works against.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	session *session.Session
	client  *api.Client
	auth    *auth.Store
	router  *router.Router
	dash    *dashboard.Store
	closer  io.Closer
}

type appOptions struct {
	// tui sends logs to a file; the terminal belongs to the dashboard.
	tui bool
}

// openApp loads config, opens the token store and restores the session.
func openApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	theme.SetActive(cfg.Appearance.Theme)

	log := initLogger(cfg, opts)

	tokens, closer, err := openTokenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := newApp(cfg, log, tokens)
	a.closer = closer
	if err := a.session.Init(ctx); err != nil {
		// Start Anonymous; the user can still log in.
		log.Warn().Err(err).Msg("restoring session")
	}
	return a, nil
}

// newApp wires the stores. The client and auth store are built before the
// router, so their navigators are attached afterwards.
func newApp(cfg config.Config, log zerolog.Logger, tokens session.Store) *app {
	sess := session.New(tokens)
	client := api.NewClient(cfg.API.BaseURL, sess,
		api.WithTimeout(cfg.Timeout()),
		api.WithTicketPath(cfg.API.TicketPath),
		api.WithLogger(log),
	)
	authStore := auth.NewStore(sess, client, log)
	dash := dashboard.NewStore(client, log)
	r := router.New(authStore, router.WithLogger(log))

	r.OnReset(dash.Reset)
	client.SetNavigator(r)
	authStore.SetNavigator(r)

	return &app{
		cfg:     cfg,
		log:     log,
		session: sess,
		client:  client,
		auth:    authStore,
		router:  r,
		dash:    dash,
	}
}

// Close releases the token store.
func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// requireAuth runs the router guard for the dashboard. An Anonymous
// session lands on /login, which a command reports as errNotLoggedIn.
func (a *app) requireAuth() error {
	rt, err := a.router.Navigate(router.DashboardPath)
	if err != nil {
		return err
	}
	if rt.Path == router.LoginPath {
		return errNotLoggedIn
	}
	return nil
}

// explain rewrites API errors for the terminal.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		return errors.New(`Session expired. Run "qianne login".`)
	case errors.Is(err, context.Canceled):
		return errors.New("canceled")
	default:
		return err
	}
}

// withSession opens the app, runs the guard and calls fn.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.requireAuth(); err != nil {
		return err
	}
	return explain(fn(ctx, a))
}

func initLogger(cfg config.Config, opts appOptions) zerolog.Logger {
	if !opts.tui {
		return logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: true, Output: os.Stderr})
	}

	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return logger.Init(logger.Options{Level: cfg.Log.Level, Output: io.Discard})
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return logger.Init(logger.Options{Level: cfg.Log.Level, Output: io.Discard})
	}
	// The file stays open for the life of the process.
	return logger.Init(logger.Options{Level: cfg.Log.Level, Output: f})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openTokenStore(ctx context.Context, cfg config.Config) (session.Store, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		r, err := store.OpenRedis(ctx, store.RedisConfig{
			Addr:      cfg.Storage.RedisAddr,
			DB:        cfg.Storage.RedisDB,
			Namespace: currentUser(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis token store: %w", err)
		}
		return r, r, nil
	case config.BackendMemory:
		return session.NewMemoryStore(), nopCloser{}, nil
	default:
		db, err := store.Open(cfg.DBPath())
		if err != nil {
			return nil, nil, fmt.Errorf("opening token store: %w", err)
		}
		return db, db, nil
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

// printWarning writes a styled notice to stderr.
func printWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, cli.WarnStyle().Render("  "+fmt.Sprintf(format, args...)))
}
