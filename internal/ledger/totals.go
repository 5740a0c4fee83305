package ledger

import "github.com/shopspring/decimal"

// Totals are always derived from the ledger and the income value.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

func ComputeTotals(records []ExpenseRecord, income decimal.Decimal) Totals {
	expenses := decimal.Zero
	for _, r := range records {
		expenses = expenses.Add(r.Amount)
	}
	return Totals{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}
}

// FormatAmount renders an amount with two fraction digits and no currency.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
