package router

import (
	"errors"
	"testing"
)

type fakeAuth struct{ authed bool }

func (f *fakeAuth) IsAuthenticated() bool { return f.authed }

func TestAnonymousSentToLogin(t *testing.T) {
	for _, path := range []string{DashboardPath, StardustPath, TimelinePath, CategoryPath, PaymentPath, RootPath} {
		r := New(&fakeAuth{})
		rt, err := r.Resolve(path)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", path, err)
		}
		if rt.Path != LoginPath {
			t.Fatalf("Resolve(%s) = %s, want /login", path, rt.Path)
		}
	}
}

func TestAuthenticatedLoginGoesToDashboard(t *testing.T) {
	r := New(&fakeAuth{authed: true})
	rt, err := r.Resolve(LoginPath)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rt.Path != DashboardPath {
		t.Fatalf("Resolve(/login) = %s, want /dashboard", rt.Path)
	}
}

func TestAuthenticatedProceeds(t *testing.T) {
	r := New(&fakeAuth{authed: true})
	rt, err := r.Resolve("timeline/")
	if err != nil || rt.Path != TimelinePath {
		t.Fatalf("Resolve = %s, %v", rt.Path, err)
	}
}

func TestAnonymousLoginProceeds(t *testing.T) {
	r := New(&fakeAuth{})
	rt, err := r.Resolve(LoginPath)
	if err != nil || rt.Path != LoginPath {
		t.Fatalf("Resolve = %s, %v", rt.Path, err)
	}
}

func TestTitleSetOnNavigation(t *testing.T) {
	var titles []string
	r := New(&fakeAuth{authed: true}, WithTitleSetter(func(s string) { titles = append(titles, s) }))
	if _, err := r.Navigate(CategoryPath); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if len(titles) != 1 || titles[0] != "分类分析 - 钱呢" {
		t.Fatalf("titles = %v", titles)
	}
}

func TestUnknownPath(t *testing.T) {
	r := New(&fakeAuth{authed: true})
	if _, err := r.Navigate("/nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if r.CurrentPath() != "" {
		t.Fatalf("CurrentPath = %q after failed navigation", r.CurrentPath())
	}
}

func TestRedirectLoopCapped(t *testing.T) {
	r := New(&fakeAuth{}, WithRoutes([]Route{
		{Path: "/a", RedirectTo: "/b"},
		{Path: "/b", RedirectTo: "/a"},
	}))
	if _, err := r.Resolve("/a"); !errors.Is(err, ErrRedirectLoop) {
		t.Fatalf("err = %v, want ErrRedirectLoop", err)
	}
}

func TestRedirectRunsResetHooksFirst(t *testing.T) {
	auth := &fakeAuth{authed: true}
	r := New(auth)
	if _, err := r.Navigate(DashboardPath); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	var order []string
	r.OnReset(func() {
		order = append(order, "reset:"+r.CurrentPath())
		auth.authed = false
	})
	r.OnChange(func(rt Route) { order = append(order, "change:"+rt.Path) })

	r.Redirect(LoginPath)

	if len(order) != 2 || order[0] != "reset:/dashboard" || order[1] != "change:/login" {
		t.Fatalf("order = %v", order)
	}
	if r.CurrentPath() != LoginPath {
		t.Fatalf("CurrentPath = %s", r.CurrentPath())
	}
}

func TestViewsInTabOrder(t *testing.T) {
	views := New(&fakeAuth{}).Views()
	want := []string{DashboardPath, CategoryPath, TimelinePath, PaymentPath, StardustPath}
	if len(views) != len(want) {
		t.Fatalf("len(Views) = %d", len(views))
	}
	for i, v := range views {
		if v.Path != want[i] {
			t.Fatalf("Views[%d] = %s, want %s", i, v.Path, want[i])
		}
	}
}
