package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/arquiteck/internal/store"
)

type notesModel struct {
	store  *store.Store
	width  int
	height int

	notes        []store.PomodoroNote
	distractions []string

	cursor int
}

func newNotesModel(s *store.Store) notesModel {
	return notesModel{store: s}
}

func (n *notesModel) setSize(w, h int) {
	n.width = w
	n.height = h
}

func (n notesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return notesDataMsg{
			notes:        n.store.Notes(),
			distractions: n.store.Distractions(),
		}
	}
}

func (n notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case notesDataMsg:
		n.notes = msg.notes
		n.distractions = msg.distractions
		if n.cursor >= len(n.notes) {
			n.cursor = max(0, len(n.notes)-1)
		}
		return n, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if n.cursor > 0 {
				n.cursor--
			}
		case key.Matches(msg, keys.Down):
			if n.cursor < len(n.notes)-1 {
				n.cursor++
			}
		}
	}
	return n, nil
}

func (n notesModel) view() string {
	if n.width < 20 {
		return "Terminal too small"
	}
	paneWidth := (n.width - 8) / 2
	left := n.renderNotes(paneWidth)
	right := n.renderDistractions(paneWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (n notesModel) renderNotes(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Session Notes (%d)", len(n.notes))))
	rows = append(rows, "")

	if len(n.notes) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing yet. Notes are captured when a session ends."))
	}
	for i, note := range n.notes {
		cursor := "  "
		style := normalItemStyle
		if i == n.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		stamp := mutedStyle.Render(note.Timestamp.Format("Jan 02 15:04"))
		task := ""
		if note.TaskName != "" {
			task = highlightStyle.Render(" · " + truncate(note.TaskName, 20))
		}
		rows = append(rows, cursor+stamp+task)
		rows = append(rows, "    "+style.Render(note.Content))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (n notesModel) renderDistractions(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Distraction Log (%d)", len(n.distractions))))
	rows = append(rows, "")

	if len(n.distractions) == 0 {
		rows = append(rows, mutedStyle.Render("No distractions logged."))
	}
	for _, d := range n.distractions {
		rows = append(rows, "  "+accentStyle.Render("·")+" "+normalItemStyle.Render(d))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
