package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/arquiteck/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	formActive bool
	form       *huh.Form
	formType   string // "edit", "reset"

	formMinutes *string
	formName    *string
	formAvatar  *string
	formIncome  *string
	formFocus   *string
	formConfirm *bool
}

func newSettingsModel(s *store.Store) settingsModel {
	minutes, name, avatar, income, focus := "", "", "", "", ""
	confirm := false
	return settingsModel{
		store:       s,
		formMinutes: &minutes,
		formName:    &name,
		formAvatar:  &avatar,
		formIncome:  &income,
		formFocus:   &focus,
		formConfirm: &confirm,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Edit):
			return s.showEditForm()
		case msg.String() == "r":
			return s.showResetForm()
		}
	}
	return s, nil
}

func validateMinutes(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n < 1 || n > 120 {
		return fmt.Errorf("must be between 1 and 120")
	}
	return nil
}

func (s settingsModel) showEditForm() (settingsModel, tea.Cmd) {
	profile := s.store.Profile()
	*s.formMinutes = strconv.Itoa(int(s.store.PomodoroDuration().Minutes()))
	*s.formName = profile.Name
	*s.formAvatar = profile.AvatarLetter
	*s.formIncome = strconv.FormatFloat(s.store.GetGoal(store.GoalIncome).Target, 'f', -1, 64)
	*s.formFocus = strconv.FormatFloat(s.store.GetGoal(store.GoalFocus).Target, 'f', -1, 64)
	s.formType = "edit"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Session length (minutes)").Value(s.formMinutes).Validate(validateMinutes),
			huh.NewInput().Title("Display name").Value(s.formName).Validate(validateName),
			huh.NewInput().Title("Avatar letter").Value(s.formAvatar).CharLimit(1),
			huh.NewInput().Title("Monthly income goal").Value(s.formIncome).Validate(validateValue),
			huh.NewInput().Title("Monthly session goal").Value(s.formFocus).Validate(validateValue),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showResetForm() (settingsModel, tea.Cmd) {
	*s.formConfirm = false
	s.formType = "reset"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset everything?").
				Description("Clients, projects, tasks, the ledger and the city are all wiped.").
				Affirmative("Reset").
				Negative("Keep my data").
				Value(s.formConfirm),
		),
	).WithShowHelp(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		s.formActive = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s.submitForm()
	}
	return s, cmd
}

func (s settingsModel) submitForm() (settingsModel, tea.Cmd) {
	switch s.formType {
	case "edit":
		minutes, _ := strconv.Atoi(strings.TrimSpace(*s.formMinutes))
		s.store.SetPomodoroDuration(time.Duration(minutes) * time.Minute)

		avatar := strings.ToUpper(strings.TrimSpace(*s.formAvatar))
		name := strings.TrimSpace(*s.formName)
		if avatar == "" && name != "" {
			avatar = strings.ToUpper(name[:1])
		}
		s.store.UpdateProfile(store.Profile{Name: name, AvatarLetter: avatar})

		if v, err := strconv.ParseFloat(strings.TrimSpace(*s.formIncome), 64); err == nil {
			s.store.UpdateGoal(store.GoalIncome, v)
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(*s.formFocus), 64); err == nil {
			s.store.UpdateGoal(store.GoalFocus, v)
		}
		return s, func() tea.Msg {
			return statusMsg{text: "Settings saved"}
		}

	case "reset":
		if !*s.formConfirm {
			return s, nil
		}
		if err := s.store.ResetState(); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}
		return s, func() tea.Msg {
			return statusMsg{text: "All data reset"}
		}
	}
	return s, nil
}

func (s settingsModel) view() string {
	if s.width < 20 {
		return "Terminal too small"
	}
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := "Settings"
		if s.formType == "reset" {
			title = "Reset"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", s.form.View())
		return panelStyle.Width(w).Render(content)
	}

	profile := s.store.Profile()
	income := s.store.GetGoal(store.GoalIncome).Target
	focus := s.store.GetGoal(store.GoalFocus).Target

	rows := []string{
		titleStyle.Render("Settings"),
		"",
		fmt.Sprintf("  %-22s %s", mutedStyle.Render("Session length"),
			normalItemStyle.Render(fmt.Sprintf("%d min", int(s.store.PomodoroDuration().Minutes())))),
		fmt.Sprintf("  %-22s %s", mutedStyle.Render("Profile"),
			normalItemStyle.Render(fmt.Sprintf("%s (%s)", profile.Name, profile.AvatarLetter))),
		fmt.Sprintf("  %-22s %s", mutedStyle.Render("Income goal"),
			normalItemStyle.Render(formatMoney(income))),
		fmt.Sprintf("  %-22s %s", mutedStyle.Render("Session goal"),
			normalItemStyle.Render(fmt.Sprintf("%.0f / month", focus))),
		fmt.Sprintf("  %-22s %s", mutedStyle.Render("Focus breaks"),
			normalItemStyle.Render(strconv.Itoa(s.store.FocusBreaks()))),
		"",
		mutedStyle.Render("  e: edit   r: reset all data"),
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
