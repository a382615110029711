package cli

import (
	"sync"
	"time"
)

// Debounce returns a wrapper that calls fn once wait has elapsed since the
// most recent call, with that call's argument. Each call cancels the pending
// invocation. fn runs on its own goroutine.
func Debounce[T any](fn func(T), wait time.Duration) func(T) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	return func(v T) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, func() { fn(v) })
	}
}
