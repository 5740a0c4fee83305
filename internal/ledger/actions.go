package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Effect is a side effect the caller must run after adopting a new state.
type Effect uint8

const (
	EffectPersist Effect = iota + 1
	EffectRender
)

var persistAndRender = []Effect{EffectPersist, EffectRender}

// EditSelection names the record loaded into the form, if any.
type EditSelection struct {
	ID     int64
	Active bool
}

// State is everything a session owns. Actions never modify a State in
// place; they return a new one.
type State struct {
	Records   []ExpenseRecord
	Income    decimal.Decimal
	Selection EditSelection
}

func (s State) Totals() Totals {
	return ComputeTotals(s.Records, s.Income)
}

// Result is the outcome of one action.
type Result struct {
	State   State
	Effects []Effect
}

func unchanged(s State) Result {
	return Result{State: s}
}

// ApplyAddExpense appends a new record built from the form.
func ApplyAddExpense(s State, form ExpenseForm, now time.Time) (Result, error) {
	rec, err := form.Parse()
	if err != nil {
		return unchanged(s), err
	}
	rec.ID = NextID(s.Records, now)
	s.Records = Add(s.Records, rec)
	return Result{State: s, Effects: persistAndRender}, nil
}

// ApplySubmit handles a form submission: it commits the pending edit when
// one is selected and appends a new record otherwise.
func ApplySubmit(s State, form ExpenseForm, now time.Time) (Result, error) {
	if s.Selection.Active {
		return commitEdit(s, form)
	}
	return ApplyAddExpense(s, form, now)
}

// ApplyCommitEdit is the explicit commit affordance. Without a selected
// record it reports a validation error and creates nothing.
func ApplyCommitEdit(s State, form ExpenseForm) (Result, error) {
	if !s.Selection.Active {
		return unchanged(s), &ValidationError{Message: "select an expense to edit first"}
	}
	return commitEdit(s, form)
}

func commitEdit(s State, form ExpenseForm) (Result, error) {
	fields, err := form.Parse()
	if err != nil {
		return unchanged(s), err
	}
	records, err := Update(s.Records, s.Selection.ID, fields)
	if err != nil {
		// the target vanished; drop the stale selection
		s.Selection = EditSelection{}
		return Result{State: s, Effects: []Effect{EffectRender}}, err
	}
	s.Records = records
	s.Selection = EditSelection{}
	return Result{State: s, Effects: persistAndRender}, nil
}

// ApplyBeginEdit selects a record for editing and returns its values for
// the form.
func ApplyBeginEdit(s State, id int64) (Result, ExpenseForm, error) {
	rec, ok := Find(s.Records, id)
	if !ok {
		return unchanged(s), ExpenseForm{}, &NotFoundError{ID: id}
	}
	s.Selection = EditSelection{ID: id, Active: true}
	return Result{State: s, Effects: []Effect{EffectRender}}, FormOf(rec), nil
}

func ApplyCancelEdit(s State) Result {
	if !s.Selection.Active {
		return unchanged(s)
	}
	s.Selection = EditSelection{}
	return Result{State: s, Effects: []Effect{EffectRender}}
}

// ApplyRemove deletes the record matching id. Removing the record under
// edit also clears the selection.
func ApplyRemove(s State, id int64) (Result, error) {
	records, err := Remove(s.Records, id)
	if err != nil {
		return unchanged(s), err
	}
	s.Records = records
	if s.Selection.Active && s.Selection.ID == id {
		s.Selection = EditSelection{}
	}
	return Result{State: s, Effects: persistAndRender}, nil
}

// ApplySetIncome overwrites the income value, rounded to cents as it is
// stored. Invalid input leaves the state untouched and requests no
// effects, so nothing is persisted.
func ApplySetIncome(s State, input string) (Result, error) {
	income, err := ParseAmount(input)
	if err != nil {
		return unchanged(s), &ValidationError{Field: FieldIncome, Message: "please enter a valid income amount"}
	}
	s.Income = income.Round(2)
	return Result{State: s, Effects: persistAndRender}, nil
}
