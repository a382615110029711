// Package dashboard caches the five expense data slices the views render.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/openclaw/qianne/internal/api"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// TopCategoryLimit is the length of the TopCategories view.
	TopCategoryLimit = 10
	// MainPaymentLimit is the length of the MainPaymentMethods view.
	MainPaymentLimit = 8
)

// User-facing error messages, one per slice.
const (
	MsgSummaryFailed    = "获取支出总览失败"
	MsgMonthlyFailed    = "获取月度数据失败"
	MsgCategoriesFailed = "获取分类数据失败"
	MsgPaymentFailed    = "获取支付方式失败"
	MsgTimelineFailed   = "获取时间线数据失败"
	MsgStardustFailed   = "获取星辰数据失败"
	MsgBulkFailed       = "数据加载失败"
)

// ErrReset is returned by a fetch whose result was discarded because the
// store was reset while it was in flight.
var ErrReset = errors.New("dashboard: store reset during fetch")

// Client is the subset of the API the dashboard needs.
type Client interface {
	Summary(ctx context.Context) (*api.ExpenseSummary, error)
	Monthly(ctx context.Context) ([]api.MonthlyExpense, error)
	Categories(ctx context.Context) ([]api.CategoryExpense, error)
	PaymentMethods(ctx context.Context) ([]api.PaymentMethod, error)
	Timeline(ctx context.Context) ([]api.TimelineData, error)
	Stardust(ctx context.Context) (*api.StardustData, error)
}

// SliceError records one failed fetch inside FetchAllData.
type SliceError struct {
	Slice string
	Err   error
}

// FetchError reports a partially or totally failed FetchAllData.
type FetchError struct {
	Failed int
	Total  int
	Errs   []SliceError
}

func (e *FetchError) Error() string {
	parts := make([]string, 0, len(e.Errs))
	for _, se := range e.Errs {
		parts = append(parts, se.Slice+": "+se.Err.Error())
	}
	return fmt.Sprintf("dashboard: %d/%d fetches failed: %s", e.Failed, e.Total, strings.Join(parts, "; "))
}

// Unwrap exposes the per-slice errors to errors.Is / errors.As.
func (e *FetchError) Unwrap() []error {
	errs := make([]error, len(e.Errs))
	for i, se := range e.Errs {
		errs[i] = se.Err
	}
	return errs
}

// Store holds the last successfully fetched value of each slice. Each slice
// is written only by its own fetch, and only on success.
type Store struct {
	client Client
	log    zerolog.Logger

	mu         sync.RWMutex
	generation uint64
	summary    *api.ExpenseSummary
	monthly    []api.MonthlyExpense
	categories []api.CategoryExpense
	payment    []api.PaymentMethod
	timeline   []api.TimelineData
	stardust   *api.StardustData
	loading    bool
	errMsg     string
	fetchedAt  time.Time
}

// NewStore returns an empty store.
func NewStore(client Client, log zerolog.Logger) *Store {
	return &Store{client: client, log: log}
}

// fetchSlice runs fetch outside the lock and commits its result only if the
// store was not reset in the meantime.
func fetchSlice[T any](ctx context.Context, s *Store, slice, msg string, fetch func(context.Context) (T, error), commit func(T)) error {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	v, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReset, err)
		}
		return ErrReset
	}
	if err != nil {
		s.errMsg = msg
		s.log.Error().Err(err).Str("slice", slice).Msg(msg)
		return fmt.Errorf("fetching %s: %w", slice, err)
	}
	commit(v)
	s.fetchedAt = time.Now()
	return nil
}

// FetchSummary refreshes the summary slice.
func (s *Store) FetchSummary(ctx context.Context) error {
	return fetchSlice(ctx, s, "summary", MsgSummaryFailed, s.client.Summary, func(v *api.ExpenseSummary) {
		s.summary = v
	})
}

// FetchMonthlyData refreshes the monthly slice.
func (s *Store) FetchMonthlyData(ctx context.Context) error {
	return fetchSlice(ctx, s, "monthly", MsgMonthlyFailed, s.client.Monthly, func(v []api.MonthlyExpense) {
		s.monthly = v
	})
}

// FetchCategories refreshes the categories slice.
func (s *Store) FetchCategories(ctx context.Context) error {
	return fetchSlice(ctx, s, "categories", MsgCategoriesFailed, s.client.Categories, func(v []api.CategoryExpense) {
		s.categories = v
	})
}

// FetchPaymentMethods refreshes the payment methods slice.
func (s *Store) FetchPaymentMethods(ctx context.Context) error {
	return fetchSlice(ctx, s, "payment-methods", MsgPaymentFailed, s.client.PaymentMethods, func(v []api.PaymentMethod) {
		s.payment = v
	})
}

// FetchTimeline refreshes the timeline slice.
func (s *Store) FetchTimeline(ctx context.Context) error {
	return fetchSlice(ctx, s, "timeline", MsgTimelineFailed, s.client.Timeline, func(v []api.TimelineData) {
		s.timeline = v
	})
}

// FetchStardust refreshes the experimental stardust graph. It is not part
// of FetchAllData.
func (s *Store) FetchStardust(ctx context.Context) error {
	return fetchSlice(ctx, s, "stardust", MsgStardustFailed, s.client.Stardust, func(v *api.StardustData) {
		s.stardust = v
	})
}

// FetchAllData fetches all five slices concurrently. A failing fetch never
// stops the others; once all have settled, k failures out of n set the
// error message to "k/n failed" and the slices that succeeded stay
// populated. Loading is true for the duration of the call.
func (s *Store) FetchAllData(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	gen := s.generation
	s.mu.Unlock()

	fetches := []struct {
		slice string
		fn    func(context.Context) error
	}{
		{"summary", s.FetchSummary},
		{"monthly", s.FetchMonthlyData},
		{"categories", s.FetchCategories},
		{"payment-methods", s.FetchPaymentMethods},
		{"timeline", s.FetchTimeline},
	}

	errs := make([]error, len(fetches))
	var g errgroup.Group
	for i, f := range fetches {
		g.Go(func() error {
			errs[i] = f.fn(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var failed []SliceError
	for i, err := range errs {
		if err != nil {
			failed = append(failed, SliceError{Slice: fetches[i].slice, Err: err})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if len(failed) == 0 {
		return nil
	}

	ferr := &FetchError{Failed: len(failed), Total: len(fetches), Errs: failed}
	if gen == s.generation {
		s.errMsg = fmt.Sprintf("%s (%d/%d failed)", MsgBulkFailed, ferr.Failed, ferr.Total)
	}
	s.log.Warn().Int("failed", ferr.Failed).Int("total", ferr.Total).Msg("dashboard load incomplete")
	return ferr
}

// Reset drops every slice and the error. Fetches still in flight discard
// their results.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.summary = nil
	s.monthly = nil
	s.categories = nil
	s.payment = nil
	s.timeline = nil
	s.stardust = nil
	s.loading = false
	s.errMsg = ""
	s.fetchedAt = time.Time{}
}

// Loading reports whether FetchAllData is running.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the current user-facing error message, or "".
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Snapshot returns a consistent view of the whole store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Summary:        s.summary,
		Monthly:        s.monthly,
		Categories:     s.categories,
		PaymentMethods: s.payment,
		Timeline:       s.timeline,
		Stardust:       s.stardust,
		Loading:        s.loading,
		Error:          s.errMsg,
		FetchedAt:      s.fetchedAt,
	}
}

// TopCategories returns the first TopCategoryLimit categories.
func (s *Store) TopCategories() []api.CategoryExpense {
	return s.Snapshot().TopCategories()
}

// MainPaymentMethods returns the first MainPaymentLimit payment methods.
func (s *Store) MainPaymentMethods() []api.PaymentMethod {
	return s.Snapshot().MainPaymentMethods()
}

// TotalExpenses returns the summary total, or 0 without a summary.
func (s *Store) TotalExpenses() float64 {
	return s.Snapshot().TotalExpenses()
}

// TotalTransactions returns the summary count, or 0 without a summary.
func (s *Store) TotalTransactions() int64 {
	return s.Snapshot().TotalTransactions()
}

// AvgExpense returns the summary average, or 0 without a summary.
func (s *Store) AvgExpense() float64 {
	return s.Snapshot().AvgExpense()
}
