package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/arquiteck/internal/store"
)

type dashboardModel struct {
	store   *store.Store
	session sessionModel
	width   int
	height  int

	inbox []store.InboxTask
	tasks []store.FocusTask

	cursor       int
	inboxCursor  int
	inboxFocused bool

	formActive bool
	form       *huh.Form
	formType   string // "commit", "inbox", "edit", "distraction", "note"

	// Form field pointers (survive value copies)
	formName      *string
	formValue     *string
	formClient    *string
	formProject   *string
	formFocusType *string
	formPriority  *string
	formNote      *string

	commitInboxID int64 // inbox item being committed, 0 for fresh tasks
	editingID     int64
}

func newDashboardModel(s *store.Store) dashboardModel {
	name, value, client, project := "", "", "", ""
	focusType, priority, note := string(store.FocusBillable), string(store.PriorityMedium), ""
	return dashboardModel{
		store:         s,
		session:       newSessionModel(s),
		formName:      &name,
		formValue:     &value,
		formClient:    &client,
		formProject:   &project,
		formFocusType: &focusType,
		formPriority:  &priority,
		formNote:      &note,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		return dashboardDataMsg{
			inbox: d.store.InboxTasks(),
			tasks: d.store.FocusTasks(),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.inbox = msg.inbox
		d.tasks = msg.tasks
		if d.cursor >= len(d.tasks) {
			d.cursor = max(0, len(d.tasks)-1)
		}
		if d.inboxCursor >= len(d.inbox) {
			d.inboxCursor = max(0, len(d.inbox)-1)
		}
		return d, nil

	case tickMsg:
		wasEnded := d.session.endModal
		d.session.tick()
		if d.session.endModal && !wasEnded {
			// Countdown hit zero this tick: refresh counters and open
			// the note prompt.
			nd, cmd := d.showNoteForm()
			return nd, tea.Batch(cmd, nd.loadData())
		}
		return d, nil

	case tea.KeyMsg:
		if d.session.pauseModal {
			return d.updatePauseModal(msg)
		}
		if d.session.endModal {
			// Note form should already be active; treat stray keys as
			// a dismissal without a note.
			d.session.closeEndModal("")
			return d, nil
		}
		if d.inboxFocused {
			return d.updateInboxPane(msg)
		}
		return d.updateTaskPane(msg)
	}
	return d, nil
}

func (d dashboardModel) updateTaskPane(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.tasks)-1 {
			d.cursor++
		}
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		if len(d.inbox) > 0 {
			d.inboxFocused = true
		}
	case key.Matches(msg, keys.Start):
		if len(d.tasks) > 0 {
			d.session.toggle(d.tasks[d.cursor].ID)
		}
	case key.Matches(msg, keys.Complete):
		if len(d.tasks) > 0 {
			d.store.ToggleComplete(d.tasks[d.cursor].ID)
			return d, d.loadData()
		}
	case key.Matches(msg, keys.Delete):
		if len(d.tasks) > 0 {
			d.store.DeleteTask(d.tasks[d.cursor].ID)
			return d, d.loadData()
		}
	case key.Matches(msg, keys.Edit):
		if len(d.tasks) > 0 {
			return d.showEditForm(d.tasks[d.cursor])
		}
	case key.Matches(msg, keys.New):
		return d.showCommitForm(0, "")
	case key.Matches(msg, keys.Add):
		return d.showInboxForm()
	}
	return d, nil
}

func (d dashboardModel) updateInboxPane(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		d.inboxFocused = false
	case key.Matches(msg, keys.Up):
		if d.inboxCursor > 0 {
			d.inboxCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.inboxCursor < len(d.inbox)-1 {
			d.inboxCursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(d.inbox) > 0 {
			item := d.inbox[d.inboxCursor]
			return d.showCommitForm(item.ID, item.Name)
		}
	case key.Matches(msg, keys.Delete):
		if len(d.inbox) > 0 {
			d.store.DeleteFromInbox(d.inbox[d.inboxCursor].ID)
			return d, d.loadData()
		}
	case key.Matches(msg, keys.Add):
		return d.showInboxForm()
	}
	return d, nil
}

func (d dashboardModel) updatePauseModal(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "r", "esc":
		d.session.resume()
	case "b":
		d.session.breakSession()
		return d, func() tea.Msg {
			return statusMsg{text: "Session broken off"}
		}
	case "l":
		return d.showDistractionForm()
	}
	return d, nil
}

// --- Forms ---

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name must not be empty")
	}
	return nil
}

func validateValue(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func (d dashboardModel) showCommitForm(inboxID int64, name string) (dashboardModel, tea.Cmd) {
	*d.formName = name
	*d.formValue = ""
	*d.formClient = ""
	*d.formProject = ""
	*d.formFocusType = string(store.FocusBillable)
	*d.formPriority = string(store.PriorityMedium)
	d.commitInboxID = inboxID
	d.formType = "commit"

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(d.formName).Validate(validateName),
			huh.NewSelect[string]().Title("Type").
				Options(
					huh.NewOption("Billable", string(store.FocusBillable)),
					huh.NewOption("Internal", string(store.FocusInternal)),
					huh.NewOption("Personal", string(store.FocusPersonal)),
				).Value(d.formFocusType),
			huh.NewInput().Title("Client").Value(d.formClient),
			huh.NewInput().Title("Project").Value(d.formProject),
			huh.NewInput().Title("Value").Value(d.formValue).Validate(validateValue),
			huh.NewSelect[string]().Title("Priority").
				Options(
					huh.NewOption("Low", string(store.PriorityLow)),
					huh.NewOption("Medium", string(store.PriorityMedium)),
					huh.NewOption("High", string(store.PriorityHigh)),
				).Value(d.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showInboxForm() (dashboardModel, tea.Cmd) {
	*d.formName = ""
	d.formType = "inbox"

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Capture").Value(d.formName).Validate(validateName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showEditForm(task store.FocusTask) (dashboardModel, tea.Cmd) {
	*d.formName = task.Name
	*d.formValue = strconv.FormatFloat(task.Value, 'f', -1, 64)
	*d.formPriority = string(task.Priority)
	d.editingID = task.ID
	d.formType = "edit"

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(d.formName).Validate(validateName),
			huh.NewInput().Title("Value").Value(d.formValue).Validate(validateValue),
			huh.NewSelect[string]().Title("Priority").
				Options(
					huh.NewOption("Low", string(store.PriorityLow)),
					huh.NewOption("Medium", string(store.PriorityMedium)),
					huh.NewOption("High", string(store.PriorityHigh)),
				).Value(d.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showDistractionForm() (dashboardModel, tea.Cmd) {
	*d.formNote = ""
	d.formType = "distraction"

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("What pulled you away?").Value(d.formNote),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showNoteForm() (dashboardModel, tea.Cmd) {
	*d.formNote = ""
	d.formType = "note"

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Session note (optional)").Value(d.formNote),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			if d.formType == "note" {
				d.session.closeEndModal("")
			}
			return d, nil
		}
	}

	// Ticks keep flowing while a form is up; only the note form belongs
	// to an ended session, so a live countdown still advances.
	if _, ok := msg.(tickMsg); ok {
		d.session.tick()
		return d, nil
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		return d.submitForm()
	}

	return d, cmd
}

func (d dashboardModel) submitForm() (dashboardModel, tea.Cmd) {
	switch d.formType {
	case "commit":
		return d.submitCommit()

	case "inbox":
		if strings.TrimSpace(*d.formName) != "" {
			d.store.AddToInbox(*d.formName)
		}
		return d, d.loadData()

	case "edit":
		task := d.store.FindFocusTask(d.editingID)
		if task != nil {
			task.Name = strings.TrimSpace(*d.formName)
			task.Value, _ = strconv.ParseFloat(*d.formValue, 64)
			task.Priority = store.Priority(*d.formPriority)
			d.store.UpdateFocusTask(*task)
		}
		return d, d.loadData()

	case "distraction":
		d.store.LogDistraction(*d.formNote)
		d.session.resume()
		return d, d.loadData()

	case "note":
		d.session.closeEndModal(strings.TrimSpace(*d.formNote))
		return d, d.loadData()
	}
	return d, nil
}

func (d dashboardModel) submitCommit() (dashboardModel, tea.Cmd) {
	focusType := store.FocusType(*d.formFocusType)
	client := strings.TrimSpace(*d.formClient)
	project := strings.TrimSpace(*d.formProject)

	// Type-dependent requirements that per-field validators can't see.
	if focusType == store.FocusBillable && client == "" {
		return d, func() tea.Msg {
			return statusMsg{text: "Billable tasks need a client", isError: true}
		}
	}
	if focusType != store.FocusPersonal && project == "" {
		return d, func() tea.Msg {
			return statusMsg{text: "Billable and internal tasks need a project", isError: true}
		}
	}

	value, _ := strconv.ParseFloat(strings.TrimSpace(*d.formValue), 64)
	_, err := d.store.CommitToFocus(store.CommitInput{
		InboxID:     d.commitInboxID,
		Name:        *d.formName,
		Value:       value,
		Priority:    store.Priority(*d.formPriority),
		FocusType:   focusType,
		ClientName:  client,
		ProjectName: project,
	})
	if err != nil {
		return d, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	d.inboxFocused = false
	return d, d.loadData()
}

// --- View ---

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	w := d.width - 4

	if d.formActive && d.form != nil {
		title := map[string]string{
			"commit":      "Plan Focus Task",
			"inbox":       "Inbox Capture",
			"edit":        "Edit Task",
			"distraction": "Log Distraction",
			"note":        "Session Complete",
		}[d.formType]
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", d.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if d.session.pauseModal {
		return d.renderPauseModal(w)
	}

	timerPanel := d.renderTimerPanel(w)
	taskPanel := d.renderTaskPanel(w)
	inboxPanel := d.renderInboxPanel(w)

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, taskPanel, inboxPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	countdown := formatCountdown(d.session.remaining)

	var timeDisplay, indicator, taskLine string
	switch {
	case d.session.running():
		timeDisplay = timerRunningStyle.Width(w - 6).Render(countdown)
		indicator = successStyle.Render("●  FOCUS")
		if t := d.store.FindFocusTask(d.session.activeTaskID); t != nil {
			taskLine = highlightStyle.Render(t.Name)
		}
	case d.session.paused():
		timeDisplay = timerPausedStyle.Width(w - 6).Render(countdown)
		indicator = warningStyle.Render("⏸  PAUSED")
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(formatCountdown(d.store.PomodoroDuration()))
		indicator = mutedStyle.Render("Select a task and press s to focus")
	}

	content := lipgloss.JoinVertical(lipgloss.Center, timeDisplay, indicator, taskLine)
	if d.session.running() || d.session.paused() {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTaskPanel(w int) string {
	title := titleStyle.Render("Focus Plan")

	if len(d.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No focus tasks. Press n to plan one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, t := range d.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor && !d.inboxFocused {
			cursor = "> "
			style = selectedItemStyle
		}
		if t.Completed {
			style = completedItemStyle
		}

		check := "○"
		if t.Completed {
			check = "✓"
		}
		active := " "
		if t.ID == d.session.activeTaskID && !d.session.idle() {
			active = successStyle.Render("●")
		}
		prio := priorityStyle(string(t.Priority)).Render(fmt.Sprintf("%-4s", priorityLabel(t.Priority)))
		poms := mutedStyle.Render(fmt.Sprintf("🍅 %d", t.Pomodoros))
		val := ""
		if t.Value > 0 {
			val = mutedStyle.Render("  " + formatMoney(t.Value))
		}

		rows = append(rows, fmt.Sprintf("%s%s %s %s %s  %s%s",
			cursor, active, check, prio, style.Render(t.Name), poms, val))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s: focus  c: done  e: edit  d: delete  n: plan  →: inbox"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderInboxPanel(w int) string {
	title := titleStyle.Render(fmt.Sprintf("Inbox (%d)", len(d.inbox)))

	var rows []string
	rows = append(rows, title)

	if len(d.inbox) == 0 {
		rows = append(rows, mutedStyle.Render("Empty. Press a to capture something."))
	} else {
		for i, t := range d.inbox {
			cursor := "  "
			style := normalItemStyle
			if i == d.inboxCursor && d.inboxFocused {
				cursor = "> "
				style = selectedItemStyle
			}
			rows = append(rows, style.Render(cursor+t.Name))
		}
		if d.inboxFocused {
			rows = append(rows, "")
			rows = append(rows, mutedStyle.Render("  enter: plan  d: delete  esc: back"))
		}
	}

	if d.inboxFocused {
		return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderPauseModal(w int) string {
	task := ""
	if t := d.store.FindFocusTask(d.session.activeTaskID); t != nil {
		task = t.Name
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Session Paused"),
		"",
		warningStyle.Render(formatCountdown(d.session.remaining))+mutedStyle.Render(" remaining on ")+highlightStyle.Render(task),
		"",
		mutedStyle.Render("r: resume   b: break off session   l: log distraction"),
	)
	return activePanelStyle.Width(w).Render(content)
}
