// Package controller owns one session's ledger. Each exported method is
// one user event: it runs a pure ledger action, adopts the new state and
// then runs the requested effects (persist, re-render).
package controller

import (
	"errors"
	"time"

	"expense-tracker-tui/internal/ledger"
	"expense-tracker-tui/internal/log"
	"expense-tracker-tui/internal/render"
	"expense-tracker-tui/internal/storage"
)

type Controller struct {
	kv       storage.KV
	logger   *log.Logger
	storeLog *log.Logger
	now      func() time.Time

	state    ledger.State
	criteria ledger.Criteria

	// display cache, rebuilt on every render effect
	rows    []render.Row
	totals  ledger.Totals
	loadErr error
}

type Option func(*Controller)

// WithClock replaces time.Now as the source of creation instants.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New loads the session from kv. Unreadable storage is logged and
// remembered in LoadErr; the session then starts empty.
func New(kv storage.KV, logger *log.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = log.Discard()
	}
	c := &Controller{
		kv:       kv,
		logger:   logger.WithComponent(log.ComponentController),
		storeLog: logger.WithComponent(log.ComponentStorage),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	snap, err := storage.Load(kv)
	if err != nil {
		c.loadErr = err
		c.storeLog.Warn("Stored data unreadable, using defaults",
			storageFields(log.OpLoad, err).ToSlice()...)
	}
	c.state = ledger.State{Records: snap.Records, Income: snap.Income}
	c.render()

	c.logger.Info("Ledger loaded", log.FieldCount, len(snap.Records))
	return c
}

// LoadErr reports the storage fault met while loading, if any.
func (c *Controller) LoadErr() error {
	return c.loadErr
}

// Submit handles the expense form: a pending edit is committed, otherwise
// a new expense is appended.
func (c *Controller) Submit(form ledger.ExpenseForm) error {
	id, editing := c.Editing()
	op := log.OpCreate
	if editing {
		op = log.OpUpdate
	}
	res, err := ledger.ApplySubmit(c.state, form, c.now())
	if err := c.apply(op, res, err); err != nil {
		return err
	}
	if !editing {
		id = c.state.Records[len(c.state.Records)-1].ID
	}
	if rec, ok := ledger.Find(c.state.Records, id); ok {
		c.logExpense("Expense saved", op, rec)
	}
	return nil
}

// CommitEdit is the explicit "save edit" affordance.
func (c *Controller) CommitEdit(form ledger.ExpenseForm) error {
	id, _ := c.Editing()
	res, err := ledger.ApplyCommitEdit(c.state, form)
	if err := c.apply(log.OpUpdate, res, err); err != nil {
		return err
	}
	if rec, ok := ledger.Find(c.state.Records, id); ok {
		c.logExpense("Expense saved", log.OpUpdate, rec)
	}
	return nil
}

// BeginEdit selects a record and returns its values for the form.
func (c *Controller) BeginEdit(id int64) (ledger.ExpenseForm, error) {
	res, form, err := ledger.ApplyBeginEdit(c.state, id)
	if err := c.apply(log.OpEdit, res, err); err != nil {
		return ledger.ExpenseForm{}, err
	}
	return form, nil
}

func (c *Controller) CancelEdit() {
	c.apply(log.OpEdit, ledger.ApplyCancelEdit(c.state), nil)
}

func (c *Controller) Remove(id int64) error {
	rec, _ := ledger.Find(c.state.Records, id)
	res, err := ledger.ApplyRemove(c.state, id)
	if err := c.apply(log.OpDelete, res, err); err != nil {
		return err
	}
	c.logExpense("Expense deleted", log.OpDelete, rec)
	return nil
}

func (c *Controller) SetIncome(input string) error {
	res, err := ledger.ApplySetIncome(c.state, input)
	return c.apply(log.OpSetIncome, res, err)
}

func (c *Controller) SetSearch(text string) {
	crit := c.criteria
	crit.Search = text
	c.setCriteria(crit)
}

func (c *Controller) SetCategoryFilter(category string) {
	crit := c.criteria
	crit.Category = category
	c.setCriteria(crit)
}

func (c *Controller) SetDateFilter(date string) {
	crit := c.criteria
	crit.Date = date
	c.setCriteria(crit)
}

func (c *Controller) ClearFilters() {
	c.setCriteria(ledger.Criteria{})
}

func (c *Controller) setCriteria(crit ledger.Criteria) {
	c.criteria = crit
	c.render()
	c.logger.Debug("Filter applied",
		log.FieldOperation, log.OpFilter,
		log.FieldCount, len(c.rows))
}

func (c *Controller) Criteria() ledger.Criteria {
	return c.criteria
}

// Records returns the full ledger in insertion order.
func (c *Controller) Records() []ledger.ExpenseRecord {
	return c.state.Records
}

// Visible returns the rows produced by the last render.
func (c *Controller) Visible() []render.Row {
	return c.rows
}

func (c *Controller) Totals() ledger.Totals {
	return c.totals
}

func (c *Controller) Summary() render.Summary {
	return render.Summarize(c.totals)
}

// Editing reports the id of the record loaded into the form.
func (c *Controller) Editing() (int64, bool) {
	return c.state.Selection.ID, c.state.Selection.Active
}

func (c *Controller) Categories() []string {
	return ledger.Categories(c.state.Records)
}

func (c *Controller) Dates() []string {
	return ledger.Dates(c.state.Records)
}

func (c *Controller) apply(op string, res ledger.Result, actionErr error) error {
	c.state = res.State

	var persistErr error
	for _, eff := range res.Effects {
		switch eff {
		case ledger.EffectPersist:
			persistErr = c.persist(op)
		case ledger.EffectRender:
			c.render()
		}
	}

	if actionErr != nil {
		c.logActionError(op, actionErr)
		return actionErr
	}
	return persistErr
}

// persist writes the snapshot. On failure the in-memory state is kept;
// the next successful persist writes it in full.
func (c *Controller) persist(trigger string) error {
	logger := c.storeLog.With(log.FieldTrigger, trigger)

	err := storage.Save(c.kv, storage.Snapshot{Records: c.state.Records, Income: c.state.Income})
	if err != nil {
		logger.Error("Failed to persist ledger", storageFields(log.OpPersist, err).ToSlice()...)
		return err
	}
	logger.Debug("Ledger persisted", log.FieldOperation, log.OpPersist, log.FieldCount, len(c.state.Records))
	return nil
}

// storageFields names the key that failed when err carries one.
func storageFields(op string, err error) log.LogFields {
	fields := log.NewFields().WithOperation(op).WithError(err, log.ErrorTypeStorage)
	var serr *ledger.StorageError
	if errors.As(err, &serr) && serr.Key != "" {
		fields[log.FieldKey] = serr.Key
	}
	return fields
}

func (c *Controller) logExpense(msg, op string, rec ledger.ExpenseRecord) {
	c.logger.Info(msg,
		log.NewFields().WithOperation(op).WithExpense(rec.ID, ledger.FormatAmount(rec.Amount), rec.Category).ToSlice()...)
}

func (c *Controller) render() {
	c.rows = render.Rows(ledger.Filter(c.state.Records, c.criteria))
	c.totals = c.state.Totals()
}

func (c *Controller) logActionError(op string, err error) {
	var (
		verr *ledger.ValidationError
		nf   *ledger.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		c.logger.Debug("Rejected input",
			log.NewFields().WithOperation(op).WithError(err, log.ErrorTypeValidation).ToSlice()...)
	case errors.As(err, &nf):
		c.logger.Warn("Expense no longer exists",
			log.NewFields().WithOperation(op).WithError(err, log.ErrorTypeNotFound).ToSlice()...)
	default:
		c.logger.Error("Action failed",
			log.NewFields().WithOperation(op).WithError(err, log.ErrorTypeInternal).ToSlice()...)
	}
}
