package dashboard

import (
	"time"

	"github.com/openclaw/qianne/internal/api"
)

// Snapshot is a point-in-time copy of the store. Its slices are shared with
// the store and must not be modified.
type Snapshot struct {
	Summary        *api.ExpenseSummary
	Monthly        []api.MonthlyExpense
	Categories     []api.CategoryExpense
	PaymentMethods []api.PaymentMethod
	Timeline       []api.TimelineData
	Stardust       *api.StardustData
	Loading        bool
	Error          string
	FetchedAt      time.Time
}

// Empty reports whether no slice has been loaded.
func (s Snapshot) Empty() bool {
	return s.Summary == nil && s.Monthly == nil && s.Categories == nil &&
		s.PaymentMethods == nil && s.Timeline == nil
}

func (s Snapshot) TopCategories() []api.CategoryExpense {
	return prefix(s.Categories, TopCategoryLimit)
}

func (s Snapshot) MainPaymentMethods() []api.PaymentMethod {
	return prefix(s.PaymentMethods, MainPaymentLimit)
}

func (s Snapshot) TotalExpenses() float64 {
	if s.Summary == nil {
		return 0
	}
	return s.Summary.TotalAmount
}

func (s Snapshot) TotalTransactions() int64 {
	if s.Summary == nil {
		return 0
	}
	return s.Summary.TotalCount
}

func (s Snapshot) AvgExpense() float64 {
	if s.Summary == nil {
		return 0
	}
	return s.Summary.AvgAmount
}

// prefix returns a copy of the first n elements.
func prefix[T any](in []T, n int) []T {
	if len(in) < n {
		n = len(in)
	}
	out := make([]T, n)
	copy(out, in[:n])
	return out
}
