// Package report defines the shape rules shared by the statistics and list
// endpoints: how grouped result sets mark subtotal and grand-total rows, and
// how list pagination slices a fully materialized result set.
package report

// RowKind classifies a row of a grouped statistics result.
//
// The stored procedures signal aggregation level through NULL grouping
// columns: a row with every grouping column populated is a detail row, a row
// with some of them NULL subtotals the enclosing group, and a row with all
// of them NULL totals the whole result. There is no explicit discriminant on
// the wire and consumers rely on that convention, so rows are passed through
// untouched; RowKind exists for server-side logic only.
type RowKind int

const (
	DetailRow RowKind = iota
	SubtotalRow
	GrandTotalRow
)

// String returns a human-readable name for the row kind
func (k RowKind) String() string {
	switch k {
	case DetailRow:
		return "detail"
	case SubtotalRow:
		return "subtotal"
	case GrandTotalRow:
		return "grandtotal"
	default:
		return "unknown"
	}
}

// Classify infers the kind of a result row from the null-ness of its
// grouping columns. A column missing from the row counts as NULL.
func Classify(row map[string]any, groupCols ...string) RowKind {
	if len(groupCols) == 0 {
		return DetailRow
	}
	nulls := 0
	for _, col := range groupCols {
		if v, ok := row[col]; !ok || v == nil {
			nulls++
		}
	}
	switch nulls {
	case 0:
		return DetailRow
	case len(groupCols):
		return GrandTotalRow
	default:
		return SubtotalRow
	}
}

// CountKinds tallies rows of a grouped result set by kind
func CountKinds(rows []map[string]any, groupCols ...string) map[RowKind]int {
	counts := make(map[RowKind]int, 3)
	for _, row := range rows {
		counts[Classify(row, groupCols...)]++
	}
	return counts
}

// Paginate slices a fully materialized result set into one page.
//
// The query behind a paginated listing runs once, unfiltered by page, so the
// returned total and the page content always derive from the same execution.
// Page and limit are clamped to a minimum of 1; a page past the end of the
// result set yields an empty (non-nil) slice.
func Paginate[T any](rows []T, page, limit int) ([]T, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	total := len(rows)
	// Bounds-check by division so an absurd page value cannot overflow the
	// start offset into a negative slice index.
	if page-1 > total/limit {
		return []T{}, total
	}
	start := (page - 1) * limit
	if start >= total {
		return []T{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return rows[start:end], total
}
