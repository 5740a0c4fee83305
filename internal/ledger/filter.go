package ledger

import (
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Criteria are the three independent filter conditions. An empty value
// matches every record.
type Criteria struct {
	Search   string
	Category string
	Date     string
}

func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Filter lazily yields the records matching all criteria, in ledger order.
// The name match is a case-insensitive substring test.
func Filter(records []ExpenseRecord, c Criteria) iter.Seq[ExpenseRecord] {
	return func(yield func(ExpenseRecord) bool) {
		fold := cases.Fold()
		needle := fold.String(c.Search)
		for _, r := range records {
			if needle != "" && !strings.Contains(fold.String(r.Name), needle) {
				continue
			}
			if c.Category != "" && r.Category != c.Category {
				continue
			}
			if c.Date != "" && r.Date != c.Date {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// Categories lists the distinct categories in first-seen order.
func Categories(records []ExpenseRecord) []string {
	var out []string
	for _, r := range records {
		if !slices.Contains(out, r.Category) {
			out = append(out, r.Category)
		}
	}
	return out
}

// Dates lists the distinct record dates, oldest first.
func Dates(records []ExpenseRecord) []string {
	var out []string
	for _, r := range records {
		if !slices.Contains(out, r.Date) {
			out = append(out, r.Date)
		}
	}
	slices.Sort(out)
	return out
}
