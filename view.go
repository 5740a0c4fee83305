package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	appNameStyle = lipgloss.NewStyle().Background(lipgloss.Color("99")).Padding(0, 1)

	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Faint(true)

	enumeratorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).MarginRight(3)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))

	// Form styles
	formLabelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Width(15)
	formFieldStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(30)
	activeFieldStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("99")).Padding(0, 1).Width(30)

	// Orange border while the form holds an existing expense
	editingFieldStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208")).Padding(0, 1).Width(30)

	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	negativeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func (m model) View() string {
	s := appNameStyle.Render("Expense Tracker") + "\n\n"
	s += m.renderTotals() + "\n\n"

	if m.message != "" {
		if m.isError {
			s += errorStyle.Render(m.message) + "\n\n"
		} else {
			s += successStyle.Render(m.message) + "\n\n"
		}
	}

	switch m.state {
	case listView:
		s += m.renderList()
	case formView:
		s += m.renderForm()
	case incomeView:
		s += headerStyle.Render("Set Income") + "\n\n"
		s += formLabelStyle.Render("Income:") + activeFieldStyle.Render(m.incomeInput.View()) + "\n\n"
		s += faintStyle.Render("Enter: Save | Esc: Cancel")
	case searchView:
		s += headerStyle.Render("Search") + "\n\n"
		s += formLabelStyle.Render("Name:") + activeFieldStyle.Render(m.searchInput.View()) + "\n\n"
		s += faintStyle.Render(fmt.Sprintf("%d matching | Enter/Esc: Back to list", len(m.ctrl.Visible())))
	}

	return s
}

func (m model) renderTotals() string {
	sum := m.ctrl.Summary()
	balance := sum.Balance
	if m.ctrl.Totals().Balance.IsNegative() {
		balance = negativeStyle.Render(balance)
	}
	return headerStyle.Render("Income: ") + sum.Income + "   " +
		headerStyle.Render("Expenses: ") + sum.Expenses + "   " +
		headerStyle.Render("Balance: ") + balance
}

func (m model) renderFilters() string {
	c := m.ctrl.Criteria()
	if c.IsZero() {
		return ""
	}
	s := "Filters:"
	if c.Search != "" {
		s += fmt.Sprintf(" name~%q", c.Search)
	}
	if c.Category != "" {
		s += " category=" + c.Category
	}
	if c.Date != "" {
		s += " date=" + c.Date
	}
	return faintStyle.Render(s) + "\n\n"
}

func (m model) renderList() string {
	rows := m.ctrl.Visible()

	s := m.renderFilters()
	s += headerStyle.Render("Date") + " | " +
		headerStyle.Render("Name") + " | " +
		headerStyle.Render("Amount") + " | " +
		headerStyle.Render("Category") + "\n\n"

	headerLines := 8 // title, totals, notice, filters, column headers
	availableHeight := m.windowHeight - headerLines - 2
	if availableHeight <= 0 {
		availableHeight = 10
	}

	// keep the cursor roughly centred once the list overflows
	startIndex := 0
	if len(rows) > availableHeight {
		startIndex = m.listIndex - availableHeight/2
		if startIndex < 0 {
			startIndex = 0
		}
		if startIndex > len(rows)-availableHeight {
			startIndex = len(rows) - availableHeight
		}
	}
	endIndex := min(startIndex+availableHeight, len(rows))

	editingID, editing := m.ctrl.Editing()
	for i := startIndex; i < endIndex; i++ {
		r := rows[i]
		prefix := " "
		if i == m.listIndex {
			prefix = ">"
		}
		line := r.Date + " | " + r.Name + " | " + r.Amount + " | " + r.Category
		if editing && r.ID == editingID {
			line += faintStyle.Render(" (editing)")
		}
		s += enumeratorStyle.Render(prefix) + line + "\n"
	}

	if len(rows) == 0 {
		if len(m.ctrl.Records()) > 0 {
			s += faintStyle.Render("No expenses match the current filters.") + "\n\n"
		} else {
			s += faintStyle.Render("No expenses yet. Press 'a' to add one.") + "\n\n"
		}
	} else {
		s += "\n"
	}

	scrollInfo := ""
	if len(rows) > availableHeight {
		scrollInfo = fmt.Sprintf(" (%d/%d)", m.listIndex+1, len(rows))
	}
	s += faintStyle.Render("Up/Down: Navigate | a: Add | e: Edit | d: Delete | i: Income | q: Quit"+scrollInfo) + "\n"
	s += faintStyle.Render("/: Search | c: Category | t: Date | C: Clear filters | x: Export")
	return s
}

func (m model) renderForm() string {
	_, editing := m.ctrl.Editing()

	var s string
	if editing {
		s = headerStyle.Render("Edit Expense") + "\n\n"
	} else {
		s = headerStyle.Render("Add Expense") + "\n\n"
	}

	labels := []string{"Name:", "Amount:", "Date:", "Category:"}
	for i, label := range labels {
		style := formFieldStyle
		switch {
		case uint(i) == m.formField:
			style = activeFieldStyle
		case editing:
			style = editingFieldStyle
		}
		s += formLabelStyle.Render(label) + style.Render(m.inputs[i].View()) + "\n"
	}

	s += "\n"
	if editing {
		s += faintStyle.Render("Tab: Next field | Enter/Ctrl+S: Save changes | Esc: Cancel")
	} else {
		s += faintStyle.Render("Tab: Next field | Enter: Add | Esc: Cancel")
	}
	return s
}
