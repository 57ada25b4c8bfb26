package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/arquiteck/internal/store"
)

type financesModel struct {
	store  *store.Store
	width  int
	height int

	tasks  []store.FocusTask
	ledger []store.CompletedPomodoro
	goals  []store.Goal

	cursor int
	offset int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newFinancesModel(s *store.Store) financesModel {
	return financesModel{
		store: s,
		chart: barchart.New(60, 10),
	}
}

func (f *financesModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

func (f financesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return financesDataMsg{
			tasks:  f.store.FocusTasks(),
			ledger: f.store.CompletedPomodoros(),
			goals:  f.store.Goals(),
		}
	}
}

// billableTasks filters the focus list down to the rows the paid toggle
// applies to.
func (f financesModel) billableTasks() []store.FocusTask {
	var out []store.FocusTask
	for _, t := range f.tasks {
		if t.FocusType == store.FocusBillable {
			out = append(out, t)
		}
	}
	return out
}

func (f financesModel) update(msg tea.Msg) (financesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case financesDataMsg:
		f.tasks = msg.tasks
		f.ledger = msg.ledger
		f.goals = msg.goals
		if f.cursor >= len(f.billableTasks()) {
			f.cursor = max(0, len(f.billableTasks())-1)
		}
		f.buildChart()
		return f, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if f.cursor > 0 {
				f.cursor--
			}
		case key.Matches(msg, keys.Down):
			if f.cursor < len(f.billableTasks())-1 {
				f.cursor++
			}
		case key.Matches(msg, keys.Left):
			f.offset++
			f.buildChart()
		case key.Matches(msg, keys.Right):
			if f.offset > 0 {
				f.offset--
				f.buildChart()
			}
		case key.Matches(msg, keys.Paid):
			billable := f.billableTasks()
			if len(billable) > 0 {
				f.store.TogglePaid(billable[f.cursor].ID)
				return f, f.refresh()
			}
		}
	}
	return f, nil
}

func (f financesModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1-7*f.offset)
	return end.AddDate(0, 0, -7), end
}

func (f *financesModel) buildChart() {
	chartWidth := f.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if f.height > 34 {
		chartHeight = 14
	}

	f.chart = barchart.New(chartWidth, chartHeight)

	from, to := f.dateRange()

	// Earned value per day in the window
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		next := d.AddDate(0, 0, 1)
		var total float64
		for _, p := range f.ledger {
			if !p.Timestamp.Before(d) && p.Timestamp.Before(next) {
				total += p.Value
			}
		}

		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if total == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: []barchart.BarValue{{Name: "earned", Value: total, Style: style}},
		})
	}

	f.chart.PushAll(bars)
	f.chart.Draw()
}

// monthTotals rolls the ledger up for the current calendar month.
func (f financesModel) monthTotals() (income float64, pomodoros int) {
	now := time.Now()
	for _, p := range f.ledger {
		if p.Timestamp.Year() == now.Year() && p.Timestamp.Month() == now.Month() {
			income += p.Value
			pomodoros++
		}
	}
	return income, pomodoros
}

func (f financesModel) view() string {
	if f.width < 20 {
		return "Terminal too small"
	}
	w := f.width - 4

	from, to := f.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Finances"), "  ", dateLabel,
	)

	chartView := f.chart.View()
	goalsView := f.renderGoals(w)
	invoiceView := f.renderInvoices(w)
	nav := mutedStyle.Render("  ←/→: navigate weeks  ↑/↓: select  p: toggle paid  x: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", goalsView, "", invoiceView, "", nav,
		),
	)
}

func (f financesModel) renderGoals(w int) string {
	income, pomodoros := f.monthTotals()

	var rows []string
	rows = append(rows, titleStyle.Render("Monthly Goals"))
	for _, g := range f.goals {
		var current float64
		label := ""
		switch g.ID {
		case store.GoalIncome:
			current = income
			label = fmt.Sprintf("Income   %s / %s", formatMoney(income), formatMoney(g.Target))
		case store.GoalFocus:
			current = float64(pomodoros)
			label = fmt.Sprintf("Sessions %d / %.0f", pomodoros, g.Target)
		default:
			continue
		}
		rows = append(rows, "  "+label)
		rows = append(rows, "  "+progressBar(current, g.Target, min(w-8, 40)))
	}
	return strings.Join(rows, "\n")
}

func progressBar(current, target float64, width int) string {
	if width < 4 {
		width = 4
	}
	ratio := 0.0
	if target > 0 {
		ratio = current / target
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, ratio*100)
}

func (f financesModel) renderInvoices(w int) string {
	billable := f.billableTasks()
	if len(billable) == 0 {
		return mutedStyle.Render("  No billable tasks")
	}

	var outstanding, collected float64
	for _, t := range billable {
		if t.Paid {
			collected += t.Value
		} else {
			outstanding += t.Value
		}
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Billable Work"))
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  outstanding %s   collected %s",
		formatMoney(outstanding), formatMoney(collected))))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	for i, t := range billable {
		cursor := "  "
		style := normalItemStyle
		if i == f.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		paid := errorStyle.Render("unpaid")
		if t.Paid {
			paid = successStyle.Render("paid  ")
		}
		client := ""
		if c := f.store.GetClient(t.ClientID); c != nil {
			client = c.Name
		}
		rows = append(rows, fmt.Sprintf("%s%s %-28s %-14s %10s",
			cursor, paid, style.Render(truncate(t.Name, 28)), mutedStyle.Render(truncate(client, 14)),
			formatMoney(t.Value)))
	}
	return strings.Join(rows, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
