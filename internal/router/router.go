// Package router maps view paths to routes and guards navigation by auth
// state.
package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// AppName is appended to every route title.
const AppName = "钱呢"

// Well-known paths.
const (
	LoginPath     = "/login"
	RootPath      = "/"
	DashboardPath = "/dashboard"
	StardustPath  = "/stardust"
	TimelinePath  = "/timeline"
	CategoryPath  = "/categories"
	PaymentPath   = "/payment"
)

const maxRedirects = 4

var (
	// ErrNotFound is returned for paths outside the route table.
	ErrNotFound = errors.New("router: no such route")
	// ErrRedirectLoop is returned when resolving exceeds the redirect cap.
	ErrRedirectLoop = errors.New("router: too many redirects")
)

// Route is one entry of the route table.
type Route struct {
	Path  string
	Name  string
	Title string
	// RequiresAuth routes send Anonymous sessions to /login.
	RequiresAuth bool
	// RedirectTo, when set, makes the route an alias.
	RedirectTo   string
	Experimental bool
}

// DefaultRoutes is the application's route table. The order of the
// authenticated routes is the tab order.
var DefaultRoutes = []Route{
	{Path: LoginPath, Name: "login", Title: "登录"},
	{Path: RootPath, RedirectTo: DashboardPath},
	{Path: DashboardPath, Name: "dashboard", Title: "总览", RequiresAuth: true},
	{Path: CategoryPath, Name: "categories", Title: "分类分析", RequiresAuth: true},
	{Path: TimelinePath, Name: "timeline", Title: "时间洞察", RequiresAuth: true},
	{Path: PaymentPath, Name: "payment", Title: "支付方式", RequiresAuth: true},
	{Path: StardustPath, Name: "stardust", Title: "消费星辰", RequiresAuth: true, Experimental: true},
}

// AuthState is read by the guard.
type AuthState interface {
	IsAuthenticated() bool
}

// Router resolves and records navigation.
type Router struct {
	routes map[string]Route
	order  []Route
	auth   AuthState
	log    zerolog.Logger

	mu       sync.RWMutex
	current  Route
	setTitle func(string)
	resets   []func()
	changes  []func(Route)
}

// Option configures a Router.
type Option func(*Router)

// WithTitleSetter sets the function that receives window titles.
func WithTitleSetter(fn func(string)) Option {
	return func(r *Router) { r.setTitle = fn }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Router) { r.log = log }
}

// WithRoutes replaces DefaultRoutes.
func WithRoutes(routes []Route) Option {
	return func(r *Router) {
		r.order = routes
	}
}

// New returns a router guarded by auth.
func New(auth AuthState, opts ...Option) *Router {
	r := &Router{
		order: DefaultRoutes,
		auth:  auth,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.routes = make(map[string]Route, len(r.order))
	for _, rt := range r.order {
		r.routes[rt.Path] = rt
	}
	return r
}

// Title formats a route title for display.
func Title(title string) string {
	return title + " - " + AppName
}

// Resolve runs the guard for path, following redirects, and returns the
// route navigation ends on.
func (r *Router) Resolve(path string) (Route, error) {
	path = normalize(path)
	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			return Route{}, fmt.Errorf("%w: resolving %s", ErrRedirectLoop, path)
		}

		rt, ok := r.routes[path]
		if !ok {
			return Route{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if rt.RedirectTo != "" {
			path = rt.RedirectTo
			continue
		}

		if rt.Title != "" {
			r.mu.RLock()
			set := r.setTitle
			r.mu.RUnlock()
			if set != nil {
				set(Title(rt.Title))
			}
		}

		authed := r.auth != nil && r.auth.IsAuthenticated()
		switch {
		case rt.RequiresAuth && !authed:
			path = LoginPath
		case rt.Path == LoginPath && authed:
			path = RootPath
		default:
			return rt, nil
		}
	}
}

// Navigate resolves path and makes the result the current route.
func (r *Router) Navigate(path string) (Route, error) {
	rt, err := r.Resolve(path)
	if err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("navigation failed")
		return Route{}, err
	}

	r.mu.Lock()
	r.current = rt
	changes := append([]func(Route){}, r.changes...)
	r.mu.Unlock()

	r.log.Debug().Str("path", rt.Path).Msg("navigated")
	for _, fn := range changes {
		fn(rt)
	}
	return rt, nil
}

// Redirect is a hard redirect: every reset hook runs before navigating, so
// no in-memory state survives it.
func (r *Router) Redirect(path string) {
	r.mu.RLock()
	resets := append([]func(){}, r.resets...)
	r.mu.RUnlock()

	for _, fn := range resets {
		fn()
	}
	if _, err := r.Navigate(path); err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("redirect failed")
	}
}

// OnReset registers a hook run by Redirect.
func (r *Router) OnReset(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets = append(r.resets, fn)
}

// OnChange registers a hook run after every successful navigation.
func (r *Router) OnChange(fn func(Route)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, fn)
}

// SetTitleSetter replaces the title setter.
func (r *Router) SetTitleSetter(fn func(string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setTitle = fn
}

// Current returns the current route.
func (r *Router) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// CurrentPath returns the current route's path, or "" before the first
// navigation.
func (r *Router) CurrentPath() string {
	return r.Current().Path
}

// Views returns the authenticated, non-alias routes in table order.
func (r *Router) Views() []Route {
	var out []Route
	for _, rt := range r.order {
		if rt.RequiresAuth && rt.RedirectTo == "" {
			out = append(out, rt)
		}
	}
	return out
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return RootPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path = strings.TrimRight(path, "/"); path == "" {
		return RootPath
	}
	return path
}
