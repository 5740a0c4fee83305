// Package ledger holds the expense data model and the pure state-update
// functions behind every user action. Nothing in here touches storage or
// the terminal; callers apply the returned effects.
package ledger

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for records and filters.
const DateLayout = "2006-01-02"

var errNotPositive = errors.New("must be greater than zero")

type ExpenseRecord struct {
	ID       int64
	Name     string
	Amount   decimal.Decimal
	Date     string
	Category string
}

// ExpenseForm is the raw, unvalidated content of the expense form.
type ExpenseForm struct {
	Name     string
	Amount   string
	Date     string
	Category string
}

// FormOf copies a record's current values into form fields.
func FormOf(rec ExpenseRecord) ExpenseForm {
	return ExpenseForm{
		Name:     rec.Name,
		Amount:   rec.Amount.String(),
		Date:     rec.Date,
		Category: rec.Category,
	}
}

// Parse validates the form and returns the record it describes, without
// an id.
func (f ExpenseForm) Parse() (ExpenseRecord, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return ExpenseRecord{}, &ValidationError{Field: FieldName, Message: "is required"}
	}

	amount, err := ParseAmount(f.Amount)
	if err != nil {
		return ExpenseRecord{}, &ValidationError{Field: FieldAmount, Message: "must be a number greater than zero"}
	}

	date := strings.TrimSpace(f.Date)
	if date == "" {
		return ExpenseRecord{}, &ValidationError{Field: FieldDate, Message: "is required"}
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ExpenseRecord{}, &ValidationError{Field: FieldDate, Message: "must be YYYY-MM-DD"}
	}

	category := strings.TrimSpace(f.Category)
	if category == "" {
		return ExpenseRecord{}, &ValidationError{Field: FieldCategory, Message: "is required"}
	}

	return ExpenseRecord{
		Name:     name,
		Amount:   amount,
		Date:     date,
		Category: category,
	}, nil
}

// ParseAmount parses a user-entered decimal and rejects anything that is
// not a finite number strictly greater than zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, errNotPositive
	}
	return d, nil
}

// Add returns a new ledger with rec appended.
func Add(records []ExpenseRecord, rec ExpenseRecord) []ExpenseRecord {
	out := make([]ExpenseRecord, len(records), len(records)+1)
	copy(out, records)
	return append(out, rec)
}

// Update returns a new ledger where the record matching id carries the
// mutable fields of fields. The id itself never changes.
func Update(records []ExpenseRecord, id int64, fields ExpenseRecord) ([]ExpenseRecord, error) {
	idx := indexOf(records, id)
	if idx < 0 {
		return records, &NotFoundError{ID: id}
	}
	out := slices.Clone(records)
	fields.ID = id
	out[idx] = fields
	return out, nil
}

// Remove returns a new ledger without the first record matching id.
func Remove(records []ExpenseRecord, id int64) ([]ExpenseRecord, error) {
	idx := indexOf(records, id)
	if idx < 0 {
		return records, &NotFoundError{ID: id}
	}
	out := make([]ExpenseRecord, 0, len(records)-1)
	out = append(out, records[:idx]...)
	return append(out, records[idx+1:]...), nil
}

func Find(records []ExpenseRecord, id int64) (ExpenseRecord, bool) {
	idx := indexOf(records, id)
	if idx < 0 {
		return ExpenseRecord{}, false
	}
	return records[idx], true
}

// NextID assigns the creation instant in milliseconds, stepping forward
// past any id already taken.
func NextID(records []ExpenseRecord, now time.Time) int64 {
	id := now.UnixMilli()
	for indexOf(records, id) >= 0 {
		id++
	}
	return id
}

func indexOf(records []ExpenseRecord, id int64) int {
	return slices.IndexFunc(records, func(r ExpenseRecord) bool { return r.ID == id })
}
