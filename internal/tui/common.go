package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/arquiteck/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewClients
	viewFinances
	viewCity
	viewNotes
	viewSettings
)

var viewNames = []string{"Dashboard", "Clients", "Finances", "City", "Notes", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type dashboardDataMsg struct {
	inbox []store.InboxTask
	tasks []store.FocusTask
}

type clientsDataMsg struct {
	clients  []store.Client
	projects []store.Project
}

type financesDataMsg struct {
	tasks  []store.FocusTask
	ledger []store.CompletedPomodoro
	goals  []store.Goal
}

type cityDataMsg struct {
	buildings []store.Building
}

type notesDataMsg struct {
	notes        []store.PomodoroNote
	distractions []string
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func priorityLabel(p store.Priority) string {
	switch p {
	case store.PriorityHigh:
		return "high"
	case store.PriorityMedium:
		return "med"
	default:
		return "low"
	}
}
