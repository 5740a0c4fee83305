package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldErrorType = "error_type"
	FieldOperation = "operation"
	FieldExpenseID = "expense_id"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldCount     = "count"
	FieldBackend   = "backend"
	FieldKey       = "key"
	FieldPath      = "path"
	FieldTrigger   = "trigger"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentController = "controller"
	ComponentStorage    = "storage"
	ComponentUI         = "ui"
	ComponentExport     = "export"
	ComponentConfig     = "config"
)

// Operations defines standard operation names
const (
	OpLoad      = "load"
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpSetIncome = "set_income"
	OpEdit      = "edit"
	OpFilter    = "filter"
	OpPersist   = "persist"
	OpExport    = "export"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeNotFound   = "not_found_error"
	ErrorTypeStorage    = "storage_error"
	ErrorTypeInternal   = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error fields
func (f LogFields) WithError(err error, errType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errType
	}
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id int64, amount, category string) LogFields {
	f[FieldExpenseID] = id
	f[FieldAmount] = amount
	f[FieldCategory] = category
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
