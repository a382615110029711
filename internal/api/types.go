package api

// Token is the response of the login and ticket-redemption endpoints.
type Token struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type"`
}

// Credentials is the password login request body.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Profile is the current user, as returned by /auth/me.
type Profile struct {
	ID        string  `json:"id,omitempty"`
	Username  string  `json:"username" validate:"required"`
	Email     string  `json:"email"`
	FullName  *string `json:"full_name,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// DisplayName returns the full name when set, else the username.
func (p Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return p.Username
}

// ExpenseSummary holds aggregate totals over all expenses.
type ExpenseSummary struct {
	TotalAmount  float64 `json:"total_amount"`
	TotalCount   int64   `json:"total_count"`
	AvgAmount    float64 `json:"avg_amount"`
	EarliestDate *string `json:"earliest_date"`
	LatestDate   *string `json:"latest_date"`
}

// MonthlyExpense is one month's totals. Year and Month are strings on the wire.
type MonthlyExpense struct {
	Year             string  `json:"year"`
	Month            string  `json:"month"`
	TransactionCount int64   `json:"transaction_count"`
	MonthlyTotal     float64 `json:"monthly_total"`
	AvgTransaction   float64 `json:"avg_transaction"`
}

// CategoryExpense is one (type, sub-type) category's totals. Either name
// may be missing for uncategorized rows.
type CategoryExpense struct {
	TransTypeName    *string `json:"trans_type_name"`
	TransSubTypeName *string `json:"trans_sub_type_name"`
	Count            int64   `json:"count"`
	TotalAmount      float64 `json:"total_amount"`
	AvgAmount        float64 `json:"avg_amount"`
}

// Label joins type and sub-type for display.
func (c CategoryExpense) Label() string {
	typ, sub := deref(c.TransTypeName), deref(c.TransSubTypeName)
	switch {
	case typ == "" && sub == "":
		return "未分类"
	case sub == "":
		return typ
	case typ == "":
		return sub
	default:
		return typ + " / " + sub
	}
}

// PaymentMethod is one payment account's usage.
type PaymentMethod struct {
	PayAccount        string  `json:"pay_account"`
	UsageCount        int64   `json:"usage_count"`
	TotalSpent        float64 `json:"total_spent"`
	AvgPerTransaction float64 `json:"avg_per_transaction"`
}

// TimelineData is one day's totals.
type TimelineData struct {
	Date             string  `json:"date"`
	DailyTotal       float64 `json:"daily_total"`
	TransactionCount int64   `json:"transaction_count"`
}

// StardustData is the category/transaction graph behind the experimental
// stardust view.
type StardustData struct {
	Nodes      []StardustNode     `json:"nodes"`
	Links      []StardustLink     `json:"links"`
	Categories []StardustCategory `json:"categories"`
}

// StardustNode is a category ("planet") or a single transaction.
type StardustNode struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	SymbolSize float64 `json:"symbolSize"`
	Value      float64 `json:"value"`
	Category   string  `json:"category"`
}

// StardustLink connects a transaction node to its category node.
type StardustLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// StardustCategory names one category in the graph legend.
type StardustCategory struct {
	TransTypeName string  `json:"trans_type_name"`
	TotalAmount   float64 `json:"total_amount"`
}

// Planets returns the category nodes, in response order. A category node's
// ID is its category name; transaction nodes are prefixed "tx-".
func (d StardustData) Planets() []StardustNode {
	var out []StardustNode
	for _, n := range d.Nodes {
		if n.ID == n.Category {
			out = append(out, n)
		}
	}
	return out
}

// Orbit returns the transaction nodes linked to the given category.
func (d StardustData) Orbit(category string) []StardustNode {
	var out []StardustNode
	for _, n := range d.Nodes {
		if n.Category == category && n.ID != n.Category {
			out = append(out, n)
		}
	}
	return out
}

// Health is the free-form /health payload.
type Health map[string]any

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
