package ledger

import "fmt"

// Field names reported by ValidationError.
const (
	FieldName     = "name"
	FieldAmount   = "amount"
	FieldDate     = "date"
	FieldCategory = "category"
	FieldIncome   = "income"
)

// ValidationError reports user input that fails a field constraint.
// Nothing is mutated when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports an update, delete or edit targeting a record id
// that is no longer in the ledger.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("expense %d not found", e.ID)
}

// StorageError reports a durable read or write that failed or returned
// malformed data. The in-memory ledger stays authoritative.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
