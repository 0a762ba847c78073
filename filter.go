package carbon

import "github.com/xraph/carbon/plugin"

type filterKind int

const (
	filterNone filterKind = iota
	filterCategory
	filterWindow
)

func (k filterKind) String() string {
	switch k {
	case filterCategory:
		return plugin.AggregateCategory
	case filterWindow:
		return plugin.AggregateWindow
	default:
		return plugin.AggregateTotal
	}
}

// Filter selects the records summed by TotalFiltered. The zero Filter
// selects every record.
type Filter struct {
	kind       filterKind
	category   string
	start, end int64
}

// CategoryFilter selects records whose category equals category byte for
// byte. No case folding or trimming is applied.
func CategoryFilter(category string) Filter {
	return Filter{kind: filterCategory, category: category}
}

// WindowFilter selects records with start <= timestamp <= end.
func WindowFilter(start, end int64) Filter {
	return Filter{kind: filterWindow, start: start, end: end}
}

// Category returns the filter's category and whether it is a category filter.
func (f Filter) Category() (string, bool) {
	return f.category, f.kind == filterCategory
}

// Window returns the filter's bounds and whether it is a window filter.
func (f Filter) Window() (start, end int64, ok bool) {
	return f.start, f.end, f.kind == filterWindow
}
