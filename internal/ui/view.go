package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Fixed rows around the list viewport.
const (
	headerRows   = 1
	footerRows   = 1
	formRows     = 4 // border + input + status line
	listChrome   = 3 // border + title
	minListRows  = 1
	cardChromeW  = 4 // border + padding
	minInnerWide = 10
)

func (m Model) innerWidth() int {
	w := m.width - cardChromeW
	if w < minInnerWide {
		return minInnerWide
	}
	return w
}

// layout sizes the viewport and input for the current window.
func (m *Model) layout() {
	inner := m.innerWidth()
	rows := m.height - headerRows - footerRows - formRows - listChrome
	if rows < minListRows {
		rows = minListRows
	}
	m.list.Width = inner
	m.list.Height = rows
	m.input.Width = inner - lipgloss.Width(m.input.Prompt) - 1
	m.syncList()
}

// syncList re-renders the list content into the viewport.
func (m *Model) syncList() {
	m.list.SetContent(m.renderListContent())
}

func (m Model) renderMain() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderListCard(),
		m.renderFormCard(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	left := styles.Logo.Render("jot")
	if m.baseURL != "" {
		left += " " + styles.FaintText.Render(m.baseURL)
	}

	var right string
	switch {
	case m.state.Form.Submitting:
		right = styles.WarningText.Render("adding")
	case m.state.List.Loading:
		right = styles.WarningText.Render("loading")
	case !m.lastUpdated.IsZero():
		right = styles.MutedText.Render("updated " + RelativeAge(m.lastUpdated, m.now()))
	}

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(line)
}

func (m Model) renderListCard() string {
	styles := m.theme.Styles()
	title := styles.CardTitle.Render(fmt.Sprintf("Todos (%d)", len(m.state.List.Todos)))
	if pct := m.list.ScrollPercent(); m.list.TotalLineCount() > m.list.Height && pct < 1 {
		title += styles.FaintText.Render(fmt.Sprintf("  %d%%", int(pct*100)))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, title, m.list.View())
	return styles.Card.Width(m.width - 2).Render(body)
}

// renderListContent renders the list region from state alone.
func (m Model) renderListContent() string {
	styles := m.theme.Styles()
	list := m.state.List

	switch {
	case list.Loading:
		return m.spinner.View() + " " + styles.MutedText.Render("Loading todos...")
	case list.Error != "":
		return styles.DangerText.Render("Error: " + list.Error)
	case len(list.Todos) == 0:
		return styles.MutedText.Render("No todos yet. Create one below!")
	}

	inner := m.innerWidth()
	now := m.now()
	rows := make([]string, 0, len(list.Todos))
	for _, todo := range list.Todos {
		age := ""
		if created := todo.ParsedCreatedAt(); !created.IsZero() {
			age = RelativeAge(created, now)
		}
		descWidth := inner - 2
		if age != "" {
			descWidth -= lipgloss.Width(age) + 1
		}
		if descWidth < 1 {
			descWidth = 1
		}
		desc := styles.Text.Width(descWidth).Render(todo.Description)
		row := lipgloss.JoinHorizontal(lipgloss.Top, styles.Bullet.Render("• "), desc)
		if age != "" {
			row = lipgloss.JoinHorizontal(lipgloss.Top, row, " ", styles.FaintText.Render(age))
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderFormCard() string {
	styles := m.theme.Styles()
	form := m.state.Form

	var status string
	switch {
	case form.Submitting:
		status = m.spinner.View() + " " + styles.WarningText.Render("Adding...")
	case form.SubmitError != "":
		status = styles.DangerText.Render(form.SubmitError)
	default:
		count := utf8.RuneCountInString(form.Input)
		counter := fmt.Sprintf("%d/%d", count, m.state.MaxLen)
		if count == m.state.MaxLen {
			status = styles.WarningText.Render(counter)
		} else {
			status = styles.FaintText.Render(counter)
		}
	}

	card := styles.CardFocus
	if form.Submitting {
		card = styles.Card
	}
	body := lipgloss.JoinVertical(lipgloss.Left, m.input.View(), status)
	return card.Width(m.width - 2).Render(body)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	help := m.help.ShortHelpView(m.keys.ShortHelp())
	theme := styles.FaintText.Render(m.theme.Name)
	gap := m.width - lipgloss.Width(help) - lipgloss.Width(theme)
	if gap < 1 {
		return help
	}
	return help + strings.Repeat(" ", gap) + theme
}
