package controller

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"expense-tracker-tui/internal/ledger"
	"expense-tracker-tui/internal/log"
	"expense-tracker-tui/internal/storage"
)

func frozenClock() func() time.Time {
	t := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func coffee() ledger.ExpenseForm {
	return ledger.ExpenseForm{Name: "Coffee", Amount: "4.5", Date: "2024-01-01", Category: "Food"}
}

func requireSummary(t *testing.T, c *Controller, income, expenses, balance string) {
	t.Helper()
	s := c.Summary()
	if s.Income != income || s.Expenses != expenses || s.Balance != balance {
		t.Errorf("expected income=%s expenses=%s balance=%s, got %+v", income, expenses, balance, s)
	}
}

func TestController_Scenario(t *testing.T) {
	kv := storage.NewMemoryKV()
	c := New(kv, nil, WithClock(frozenClock()))

	if err := c.SetIncome("1000"); err != nil {
		t.Fatal(err)
	}
	requireSummary(t, c, "1000.00", "0.00", "1000.00")

	if err := c.Submit(coffee()); err != nil {
		t.Fatal(err)
	}
	requireSummary(t, c, "1000.00", "4.50", "995.50")

	rows := c.Visible()
	if len(rows) != 1 || rows[0].Amount != "4.50" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	id := rows[0].ID

	form, err := c.BeginEdit(id)
	if err != nil {
		t.Fatal(err)
	}
	if editing, ok := c.Editing(); !ok || editing != id {
		t.Errorf("expected editing %d", id)
	}
	form.Amount = "10"
	if err := c.CommitEdit(form); err != nil {
		t.Fatal(err)
	}
	requireSummary(t, c, "1000.00", "10.00", "990.00")
	if len(c.Records()) != 1 {
		t.Errorf("edit should not add a record")
	}

	if err := c.Remove(id); err != nil {
		t.Fatal(err)
	}
	requireSummary(t, c, "1000.00", "0.00", "1000.00")

	// the stored snapshot matches memory
	reloaded := New(kv, nil)
	requireSummary(t, reloaded, "1000.00", "0.00", "1000.00")
	if cached, _, _ := kv.Get(storage.KeyTotalExpenses); cached != "0.00" {
		t.Errorf("expected cached totalExpenses 0.00, got %q", cached)
	}
}

func TestController_IncomeSurvivesReload(t *testing.T) {
	kv := storage.NewMemoryKV()
	c := New(kv, nil, WithClock(frozenClock()))
	if err := c.SetIncome("1000.005"); err != nil {
		t.Fatal(err)
	}
	if err := c.Submit(ledger.ExpenseForm{Name: "Gum", Amount: "0.004", Date: "2024-01-01", Category: "Food"}); err != nil {
		t.Fatal(err)
	}
	before := c.Totals()

	reloaded := New(kv, nil)
	after := reloaded.Totals()
	if !after.Income.Equal(before.Income) || !after.Balance.Equal(before.Balance) {
		t.Errorf("totals changed across reload: income %s -> %s, balance %s -> %s",
			before.Income, after.Income, before.Balance, after.Balance)
	}
	if reloaded.Summary() != c.Summary() {
		t.Errorf("displayed totals changed across reload: %+v -> %+v", c.Summary(), reloaded.Summary())
	}
}

func TestController_RejectedIncomeDoesNotWrite(t *testing.T) {
	kv := storage.NewMemoryKV()
	c := New(kv, nil)
	if err := c.SetIncome("250"); err != nil {
		t.Fatal(err)
	}
	writes := kv.Writes()

	for _, in := range []string{"-5", "abc"} {
		err := c.SetIncome(in)
		var verr *ledger.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%q: expected ValidationError, got %v", in, err)
		}
	}
	if kv.Writes() != writes {
		t.Errorf("rejected income caused %d storage writes", kv.Writes()-writes)
	}
	requireSummary(t, c, "250.00", "0.00", "250.00")
}

func TestController_CommitEditWithoutSelection(t *testing.T) {
	c := New(storage.NewMemoryKV(), nil)
	err := c.CommitEdit(coffee())

	var verr *ledger.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(c.Records()) != 0 {
		t.Errorf("commit without selection created a record")
	}
}

func TestController_Filters(t *testing.T) {
	c := New(storage.NewMemoryKV(), nil, WithClock(frozenClock()))
	forms := []ledger.ExpenseForm{
		coffee(),
		{Name: "Rent", Amount: "800", Date: "2024-01-01", Category: "Housing"},
		{Name: "Cab", Amount: "12", Date: "2024-01-05", Category: "Transport"},
	}
	for _, f := range forms {
		if err := c.Submit(f); err != nil {
			t.Fatal(err)
		}
	}

	c.SetSearch("cof")
	if rows := c.Visible(); len(rows) != 1 || rows[0].Name != "Coffee" {
		t.Errorf("search: unexpected rows %+v", rows)
	}

	c.SetSearch("")
	c.SetCategoryFilter("Housing")
	if rows := c.Visible(); len(rows) != 1 || rows[0].Name != "Rent" {
		t.Errorf("category: unexpected rows %+v", rows)
	}

	c.SetCategoryFilter("")
	c.SetDateFilter("2024-01-05")
	if rows := c.Visible(); len(rows) != 1 || rows[0].Name != "Cab" {
		t.Errorf("date: unexpected rows %+v", rows)
	}

	// mutations re-render under the active filter
	if err := c.Submit(ledger.ExpenseForm{Name: "Train", Amount: "30", Date: "2024-01-05", Category: "Transport"}); err != nil {
		t.Fatal(err)
	}
	if rows := c.Visible(); len(rows) != 2 {
		t.Errorf("expected 2 rows on 2024-01-05, got %+v", rows)
	}

	c.ClearFilters()
	if !c.Criteria().IsZero() {
		t.Errorf("criteria not cleared")
	}
	rows := c.Visible()
	if len(rows) != 4 || rows[0].Name != "Coffee" || rows[3].Name != "Train" {
		t.Errorf("cleared filters should show all in order, got %+v", rows)
	}
	// totals ignore filters
	requireSummary(t, c, "0.00", "846.50", "-846.50")
}

func TestController_UniqueIDsUnderFrozenClock(t *testing.T) {
	c := New(storage.NewMemoryKV(), nil, WithClock(frozenClock()))
	for range 3 {
		if err := c.Submit(coffee()); err != nil {
			t.Fatal(err)
		}
	}
	seen := map[int64]bool{}
	for _, r := range c.Records() {
		if seen[r.ID] {
			t.Fatalf("duplicate id %d", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestController_StorageFailureKeepsMemory(t *testing.T) {
	kv := storage.NewMemoryKV()
	c := New(kv, nil, WithClock(frozenClock()))

	kv.FailWrites = errors.New("disk full")
	err := c.Submit(coffee())
	var serr *ledger.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if len(c.Records()) != 1 {
		t.Fatalf("in-memory ledger should keep the new record")
	}
	requireSummary(t, c, "0.00", "4.50", "-4.50")

	// once storage recovers the next mutation writes everything
	kv.FailWrites = nil
	if err := c.SetIncome("100"); err != nil {
		t.Fatal(err)
	}
	reloaded := New(kv, nil)
	if len(reloaded.Records()) != 1 {
		t.Errorf("expected recovered snapshot with 1 record, got %d", len(reloaded.Records()))
	}
	requireSummary(t, reloaded, "100.00", "4.50", "95.50")
}

func TestController_LoadFallsBack(t *testing.T) {
	kv := storage.NewMemoryKV()
	kv.Set(storage.KeyExpenses, "not json")
	kv.Set(storage.KeyTotalIncome, "75.00")

	c := New(kv, nil)
	var serr *ledger.StorageError
	if !errors.As(c.LoadErr(), &serr) {
		t.Fatalf("expected StorageError from load, got %v", c.LoadErr())
	}
	if len(c.Records()) != 0 {
		t.Errorf("expected empty ledger")
	}
	requireSummary(t, c, "75.00", "0.00", "75.00")
}

func TestController_NotFound(t *testing.T) {
	c := New(storage.NewMemoryKV(), nil)
	var nf *ledger.NotFoundError
	if err := c.Remove(99); !errors.As(err, &nf) {
		t.Errorf("Remove: expected NotFoundError, got %v", err)
	}
	if _, err := c.BeginEdit(99); !errors.As(err, &nf) {
		t.Errorf("BeginEdit: expected NotFoundError, got %v", err)
	}
}

func TestController_CancelEdit(t *testing.T) {
	c := New(storage.NewMemoryKV(), nil, WithClock(frozenClock()))
	if err := c.Submit(coffee()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.BeginEdit(c.Records()[0].ID); err != nil {
		t.Fatal(err)
	}
	c.CancelEdit()
	if _, ok := c.Editing(); ok {
		t.Errorf("cancel should leave editing mode")
	}

	// with no selection, submit appends
	if err := c.Submit(coffee()); err != nil {
		t.Fatal(err)
	}
	if len(c.Records()) != 2 {
		t.Errorf("expected 2 records, got %d", len(c.Records()))
	}
}

func TestController_CategoriesAndDates(t *testing.T) {
	c := New(storage.NewMemoryKV(), nil, WithClock(frozenClock()))
	c.Submit(coffee())
	c.Submit(ledger.ExpenseForm{Name: "Rent", Amount: "800", Date: "2023-12-31", Category: "Housing"})

	if got := c.Categories(); len(got) != 2 || got[0] != "Food" {
		t.Errorf("unexpected categories %v", got)
	}
	if got := c.Dates(); len(got) != 2 || got[0] != "2023-12-31" {
		t.Errorf("unexpected dates %v", got)
	}
}

func TestController_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
	kv := storage.NewMemoryKV()
	c := New(kv, logger, WithClock(frozenClock()))

	if err := c.Submit(coffee()); err != nil {
		t.Fatal(err)
	}
	c.SetCategoryFilter("Food")

	kv.FailWrites = errors.New("disk full")
	c.Remove(c.Records()[0].ID)

	out := buf.String()
	for _, want := range []string{
		"operation=create",
		"expense_id=",
		"amount=4.50",
		"category=Food",
		"operation=filter",
		"component=storage",
		"operation=persist",
		"trigger=delete",
		"key=expenses",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
