package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"expense-tracker-tui/internal/ledger"
)

// Snapshot is the durable part of a session: the ledger and the income.
type Snapshot struct {
	Records []ledger.ExpenseRecord
	Income  decimal.Decimal
}

// wireExpense is the stored shape of a record; amount is a JSON number.
type wireExpense struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Amount   json.Number `json:"amount"`
	Date     string      `json:"date"`
	Category string      `json:"category"`
}

// Load rebuilds a snapshot. Missing keys yield an empty ledger and zero
// income without error. A key holding malformed data falls back to its
// default and the fault is returned as a *ledger.StorageError, so the
// caller always gets a usable snapshot.
func Load(kv KV) (Snapshot, error) {
	snap := Snapshot{Records: []ledger.ExpenseRecord{}, Income: decimal.Zero}

	records, recErr := loadExpenses(kv)
	if recErr == nil {
		snap.Records = records
	}
	income, incErr := loadIncome(kv)
	if incErr == nil {
		snap.Income = income
	}

	return snap, errors.Join(recErr, incErr)
}

func loadExpenses(kv KV) ([]ledger.ExpenseRecord, error) {
	raw, ok, err := kv.Get(KeyExpenses)
	if err != nil {
		return nil, &ledger.StorageError{Op: "read", Key: KeyExpenses, Err: err}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []ledger.ExpenseRecord{}, nil
	}

	var wire []wireExpense
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, &ledger.StorageError{Op: "decode", Key: KeyExpenses, Err: err}
	}

	records := make([]ledger.ExpenseRecord, 0, len(wire))
	for _, w := range wire {
		amount, err := decimal.NewFromString(string(w.Amount))
		if err != nil {
			return nil, &ledger.StorageError{
				Op:  "decode",
				Key: KeyExpenses,
				Err: fmt.Errorf("expense %d: invalid amount %q", w.ID, w.Amount),
			}
		}
		records = append(records, ledger.ExpenseRecord{
			ID:       w.ID,
			Name:     w.Name,
			Amount:   amount,
			Date:     w.Date,
			Category: w.Category,
		})
	}
	return records, nil
}

func loadIncome(kv KV) (decimal.Decimal, error) {
	raw, ok, err := kv.Get(KeyTotalIncome)
	if err != nil {
		return decimal.Zero, &ledger.StorageError{Op: "read", Key: KeyTotalIncome, Err: err}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}

	income, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &ledger.StorageError{Op: "decode", Key: KeyTotalIncome, Err: err}
	}
	if income.IsNegative() {
		return decimal.Zero, &ledger.StorageError{
			Op:  "decode",
			Key: KeyTotalIncome,
			Err: fmt.Errorf("negative income %s", income),
		}
	}
	return income, nil
}

// Save writes the full snapshot: the ledger, the income and the cached
// expense total, each with two fraction digits where numeric.
func Save(kv KV, snap Snapshot) error {
	wire := make([]wireExpense, 0, len(snap.Records))
	for _, r := range snap.Records {
		wire = append(wire, wireExpense{
			ID:       r.ID,
			Name:     r.Name,
			Amount:   json.Number(r.Amount.String()),
			Date:     r.Date,
			Category: r.Category,
		})
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return &ledger.StorageError{Op: "encode", Key: KeyExpenses, Err: err}
	}

	totals := ledger.ComputeTotals(snap.Records, snap.Income)
	writes := []struct {
		key   string
		value string
	}{
		{KeyExpenses, string(data)},
		{KeyTotalIncome, ledger.FormatAmount(snap.Income)},
		{KeyTotalExpenses, ledger.FormatAmount(totals.Expenses)},
	}
	for _, w := range writes {
		if err := kv.Set(w.key, w.value); err != nil {
			return &ledger.StorageError{Op: "write", Key: w.key, Err: err}
		}
	}
	return nil
}
