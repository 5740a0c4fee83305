package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"expense-tracker-tui/internal/controller"
	"expense-tracker-tui/internal/export"
	"expense-tracker-tui/internal/ledger"
	"expense-tracker-tui/internal/log"
)

const (
	listView uint = iota
	formView
	incomeView
	searchView
)

const (
	formName uint = iota
	formAmount
	formDate
	formCategory
	formFieldCount
)

type model struct {
	state        uint
	ctrl         *controller.Controller
	logger       *log.Logger
	now          func() time.Time
	listIndex    int
	windowHeight int
	exportPath   string

	// expense form
	inputs    []textinput.Model
	formField uint

	incomeInput textinput.Model
	searchInput textinput.Model

	// one-line notice under the header
	message string
	isError bool
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 64
	return ti
}

func NewModel(ctrl *controller.Controller, logger *log.Logger, exportPath string) model {
	if logger == nil {
		logger = log.Discard()
	}
	m := model{
		state:       listView,
		ctrl:        ctrl,
		logger:      logger.WithComponent(log.ComponentUI),
		now:         time.Now,
		exportPath:  exportPath,
		incomeInput: newInput("e.g. 2500"),
		searchInput: newInput("search by name"),
	}
	m.inputs = []textinput.Model{
		newInput("Coffee"),
		newInput("4.50"),
		newInput(ledger.DateLayout),
		newInput("Food"),
	}
	if err := ctrl.LoadErr(); err != nil {
		m.setError("Stored data could not be read; starting empty.")
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case listView:
			return m.handleListView(key)
		case formView:
			return m.handleFormView(msg)
		case incomeView:
			return m.handleIncomeView(msg)
		case searchView:
			return m.handleSearchView(msg)
		}
	case tea.WindowSizeMsg:
		m.windowHeight = msg.Height
		return m, nil
	}
	return m, nil
}

// List View

func (m model) handleListView(key string) (tea.Model, tea.Cmd) {
	rows := m.ctrl.Visible()

	switch key {
	case "up":
		if len(rows) > 0 && m.listIndex > 0 {
			m.listIndex--
		}
	case "down":
		if len(rows) > 0 && m.listIndex < len(rows)-1 {
			m.listIndex++
		}
	case "a":
		m.ctrl.CancelEdit()
		m.clearMessage()
		m.resetForm(ledger.ExpenseForm{Date: m.now().Format(ledger.DateLayout)})
		m.state = formView
		return m, m.focusField(formName)
	case "e":
		if len(rows) == 0 {
			return m, nil
		}
		form, err := m.ctrl.BeginEdit(rows[m.listIndex].ID)
		if err != nil {
			m.notify(err)
			m.clampIndex()
			return m, nil
		}
		m.clearMessage()
		m.resetForm(form)
		m.state = formView
		return m, m.focusField(formName)
	case "d":
		if len(rows) == 0 {
			return m, nil
		}
		row := rows[m.listIndex]
		if err := m.ctrl.Remove(row.ID); err != nil {
			m.notify(err)
		} else {
			m.setSuccess(fmt.Sprintf("Deleted %q.", row.Name))
		}
		m.clampIndex()
	case "i":
		m.clearMessage()
		m.incomeInput.SetValue("")
		m.state = incomeView
		return m, m.incomeInput.Focus()
	case "/":
		m.state = searchView
		m.searchInput.SetValue(m.ctrl.Criteria().Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case "c":
		m.ctrl.SetCategoryFilter(cycle(m.ctrl.Categories(), m.ctrl.Criteria().Category))
		m.listIndex = 0
	case "t":
		m.ctrl.SetDateFilter(cycle(m.ctrl.Dates(), m.ctrl.Criteria().Date))
		m.listIndex = 0
	case "C":
		m.ctrl.ClearFilters()
		m.searchInput.SetValue("")
		m.listIndex = 0
	case "x":
		return m.handleExport()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// cycle steps through "" (all) followed by each option.
func cycle(options []string, current string) string {
	if current == "" {
		if len(options) == 0 {
			return ""
		}
		return options[0]
	}
	idx := slices.Index(options, current)
	if idx < 0 || idx == len(options)-1 {
		return ""
	}
	return options[idx+1]
}

func (m *model) clampIndex() {
	n := len(m.ctrl.Visible())
	if m.listIndex >= n && n > 0 {
		m.listIndex = n - 1
	}
	if n == 0 {
		m.listIndex = 0
	}
}

func (m model) handleExport() (tea.Model, tea.Cmd) {
	exportLog := m.logger.WithComponent(log.ComponentExport)
	if err := export.WriteXLSX(m.exportPath, m.ctrl.Visible(), m.ctrl.Summary()); err != nil {
		exportLog.Error("Export failed", log.FieldOperation, log.OpExport, log.FieldPath, m.exportPath, log.FieldError, err)
		m.setError(fmt.Sprintf("Export failed: %v", err))
		return m, nil
	}
	exportLog.Info("Exported expenses", log.FieldOperation, log.OpExport, log.FieldPath, m.exportPath, log.FieldCount, len(m.ctrl.Visible()))
	m.setSuccess("Exported to " + m.exportPath)
	return m, nil
}

// Expense Form View

func (m *model) resetForm(form ledger.ExpenseForm) {
	m.inputs[formName].SetValue(form.Name)
	m.inputs[formAmount].SetValue(form.Amount)
	m.inputs[formDate].SetValue(form.Date)
	m.inputs[formCategory].SetValue(form.Category)
}

func (m model) currentForm() ledger.ExpenseForm {
	return ledger.ExpenseForm{
		Name:     m.inputs[formName].Value(),
		Amount:   m.inputs[formAmount].Value(),
		Date:     m.inputs[formDate].Value(),
		Category: m.inputs[formCategory].Value(),
	}
}

func (m *model) focusField(field uint) tea.Cmd {
	m.formField = field
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[field].CursorEnd()
	return m.inputs[field].Focus()
}

func (m model) handleFormView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.CancelEdit()
		m.clearMessage()
		m.state = listView
		return m, nil
	case "tab", "down":
		return m, m.focusField((m.formField + 1) % formFieldCount)
	case "shift+tab", "up":
		return m, m.focusField((m.formField + formFieldCount - 1) % formFieldCount)
	case "enter":
		return m.handleSubmit(false)
	case "ctrl+s":
		return m.handleSubmit(true)
	}

	var cmd tea.Cmd
	m.inputs[m.formField], cmd = m.inputs[m.formField].Update(msg)
	return m, cmd
}

// handleSubmit runs the form submission, or the explicit commit-edit
// affordance when commitOnly is set.
func (m model) handleSubmit(commitOnly bool) (tea.Model, tea.Cmd) {
	_, wasEditing := m.ctrl.Editing()

	var err error
	if commitOnly {
		err = m.ctrl.CommitEdit(m.currentForm())
	} else {
		err = m.ctrl.Submit(m.currentForm())
	}

	var (
		verr *ledger.ValidationError
		serr *ledger.StorageError
	)
	switch {
	case errors.As(err, &verr):
		// stay on the form so the input can be corrected
		m.notify(err)
		return m, nil
	case errors.As(err, &serr):
		m.notify(err)
	case err != nil:
		m.notify(err)
	case wasEditing:
		m.setSuccess("Expense updated.")
	default:
		m.setSuccess("Expense added.")
		m.listIndex = len(m.ctrl.Visible()) - 1
	}

	m.clampIndex()
	m.state = listView
	return m, nil
}

// Income View

func (m model) handleIncomeView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.incomeInput.Blur()
		m.state = listView
		return m, nil
	case "enter":
		var verr *ledger.ValidationError
		if err := m.ctrl.SetIncome(m.incomeInput.Value()); errors.As(err, &verr) {
			m.notify(err)
			return m, nil
		} else if err != nil {
			m.notify(err)
		} else {
			m.setSuccess("Income set to " + m.ctrl.Summary().Income + ".")
		}
		m.incomeInput.SetValue("")
		m.incomeInput.Blur()
		m.state = listView
		return m, nil
	}

	var cmd tea.Cmd
	m.incomeInput, cmd = m.incomeInput.Update(msg)
	return m, cmd
}

// Search View

func (m model) handleSearchView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searchInput.Blur()
		m.state = listView
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.ctrl.Criteria().Search {
		m.ctrl.SetSearch(m.searchInput.Value())
		m.listIndex = 0
	}
	return m, cmd
}

// Notices

func (m *model) notify(err error) {
	var (
		verr *ledger.ValidationError
		nf   *ledger.NotFoundError
		serr *ledger.StorageError
	)
	switch {
	case errors.As(err, &verr) && verr.Field == ledger.FieldIncome:
		m.setError("Please enter a valid income amount.")
	case errors.As(err, &verr) && verr.Field == "":
		m.setError(capitalize(verr.Message) + ".")
	case errors.As(err, &verr):
		m.setError(fmt.Sprintf("Please enter valid expense details (%s).", verr.Error()))
	case errors.As(err, &nf):
		m.setError("That expense no longer exists.")
	case errors.As(err, &serr):
		m.setError("Could not save, changes are kept in memory: " + serr.Error())
	default:
		m.setError("Error: " + err.Error())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m *model) setError(msg string) {
	m.message = msg
	m.isError = true
}

func (m *model) setSuccess(msg string) {
	m.message = msg
	m.isError = false
}

func (m *model) clearMessage() {
	m.message = ""
	m.isError = false
}
