// Package listing filters, sorts and paginates transaction lists that
// are already in memory.  Everything here is pure: the input slice is
// never modified and no state survives between calls.
package listing

import (
	"sort"
	"strings"

	"github.com/iliyamo/ticketing-gateway/internal/model"
)

// PageSize is the fixed number of rows per page.
const PageSize = 10

// All disables the status or type filter.
const All = "ALL"

// Sort keys.
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortAmountHigh = "amount_high"
	SortAmountLow  = "amount_low"
	SortType       = "type"
)

// Criteria selects and orders transactions.  Empty Status or Type mean
// ALL; an empty Sort means newest first; Page is 1-based.
type Criteria struct {
	Status string
	Type   string
	Search string
	Sort   string
	Page   int
}

// Reset returns c with the page moved back to the first one.  Callers
// use it whenever a filter value changes.
func (c Criteria) Reset() Criteria {
	c.Page = 1
	return c
}

// WithStatus, WithType and WithSearch change one filter and reset the page.
func (c Criteria) WithStatus(s string) Criteria { c.Status = s; return c.Reset() }
func (c Criteria) WithType(t string) Criteria   { c.Type = t; return c.Reset() }
func (c Criteria) WithSearch(q string) Criteria { c.Search = q; return c.Reset() }

// Page is one slice of the filtered and sorted list.
type Page struct {
	Items      []model.Transaction `json:"items"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	TotalItems int                 `json:"total_items"`
}

// Apply runs filter, sort and paginate in that order.
func Apply(txs []model.Transaction, c Criteria) Page {
	filtered := Filter(txs, c)
	Sort(filtered, c.Sort)
	return Paginate(filtered, c.Page)
}

// Filter returns a new slice with the transactions matching every
// active criterion.
func Filter(txs []model.Transaction, c Criteria) []model.Transaction {
	status := normalizeEnum(c.Status)
	typ := normalizeEnum(c.Type)
	q := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if status != All && string(tx.Status) != status {
			continue
		}
		if typ != All && string(tx.Type) != typ {
			continue
		}
		if q != "" && !matches(tx, q) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func normalizeEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return All
	}
	return s
}

func matches(tx model.Transaction, q string) bool {
	return strings.Contains(strings.ToLower(tx.ID.String()), q) ||
		strings.Contains(strings.ToLower(tx.Username), q) ||
		strings.Contains(strings.ToLower(tx.Description), q)
}

// Sort orders txs in place.  The sort is stable so rows with equal keys
// keep their input order.  Unknown keys fall back to newest first.
func Sort(txs []model.Transaction, key string) {
	var less func(a, b model.Transaction) bool
	switch strings.ToLower(strings.TrimSpace(key)) {
	case SortOldest:
		less = func(a, b model.Transaction) bool { return a.When().Before(b.When()) }
	case SortAmountHigh:
		less = func(a, b model.Transaction) bool { return a.Amount.GreaterThan(b.Amount) }
	case SortAmountLow:
		less = func(a, b model.Transaction) bool { return a.Amount.LessThan(b.Amount) }
	case SortType:
		less = func(a, b model.Transaction) bool { return a.Type < b.Type }
	default:
		less = func(a, b model.Transaction) bool { return a.When().After(b.When()) }
	}
	sort.SliceStable(txs, func(i, j int) bool { return less(txs[i], txs[j]) })
}

// Paginate cuts page number page out of txs.  Out of range pages are
// clamped to the nearest valid one.
func Paginate(txs []model.Transaction, page int) Page {
	total := len(txs)
	pages := (total + PageSize - 1) / PageSize
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}
	items := make([]model.Transaction, end-start)
	copy(items, txs[start:end])
	return Page{Items: items, Page: page, TotalPages: pages, TotalItems: total}
}
