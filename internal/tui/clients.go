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

const (
	paneClients = iota
	paneProjects
)

type clientsModel struct {
	store  *store.Store
	width  int
	height int

	clients  []store.Client
	projects []store.Project

	pane          int
	clientCursor  int
	projectCursor int

	formActive bool
	form       *huh.Form
	formType   string // "client", "clientEdit", "project", "projectEdit"

	formName     *string
	formBilling  *string
	formRetainer *string

	editingID int64
}

func newClientsModel(s *store.Store) clientsModel {
	name, billing, retainer := "", string(store.BillingTask), ""
	return clientsModel{
		store:        s,
		formName:     &name,
		formBilling:  &billing,
		formRetainer: &retainer,
	}
}

func (c *clientsModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c clientsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return clientsDataMsg{
			clients:  c.store.Clients(),
			projects: c.store.Projects(),
		}
	}
}

// selectedClientID maps the cursor onto the client list. Row 0 is the
// internal bucket, which has no stored client behind it.
func (c clientsModel) selectedClientID() int64 {
	if c.clientCursor == 0 {
		return 0
	}
	idx := c.clientCursor - 1
	if idx >= len(c.clients) {
		return 0
	}
	return c.clients[idx].ID
}

func (c clientsModel) selectedProjects() []store.Project {
	return c.store.ProjectsForClient(c.selectedClientID())
}

func (c clientsModel) update(msg tea.Msg) (clientsModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case clientsDataMsg:
		c.clients = msg.clients
		c.projects = msg.projects
		if c.clientCursor > len(c.clients) {
			c.clientCursor = len(c.clients)
		}
		if c.projectCursor >= len(c.selectedProjects()) {
			c.projectCursor = max(0, len(c.selectedProjects())-1)
		}
		return c, nil

	case tea.KeyMsg:
		if c.pane == paneProjects {
			return c.updateProjectPane(msg)
		}
		return c.updateClientPane(msg)
	}
	return c, nil
}

func (c clientsModel) updateClientPane(msg tea.KeyMsg) (clientsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if c.clientCursor > 0 {
			c.clientCursor--
		}
		c.projectCursor = 0
	case key.Matches(msg, keys.Down):
		if c.clientCursor < len(c.clients) {
			c.clientCursor++
		}
		c.projectCursor = 0
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Right):
		c.pane = paneProjects
		c.projectCursor = 0
	case key.Matches(msg, keys.New):
		return c.showClientForm(0, "")
	case key.Matches(msg, keys.Edit):
		if id := c.selectedClientID(); id != 0 {
			if cl := c.store.GetClient(id); cl != nil {
				return c.showClientForm(cl.ID, cl.Name)
			}
		}
	case key.Matches(msg, keys.Delete):
		if id := c.selectedClientID(); id != 0 {
			if err := c.store.DeleteClient(id); err != nil {
				return c, func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
				}
			}
			if c.clientCursor > 0 {
				c.clientCursor--
			}
			return c, c.refresh()
		}
	}
	return c, nil
}

func (c clientsModel) updateProjectPane(msg tea.KeyMsg) (clientsModel, tea.Cmd) {
	projects := c.selectedProjects()
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Left):
		c.pane = paneClients
	case key.Matches(msg, keys.Up):
		if c.projectCursor > 0 {
			c.projectCursor--
		}
	case key.Matches(msg, keys.Down):
		if c.projectCursor < len(projects)-1 {
			c.projectCursor++
		}
	case key.Matches(msg, keys.New), key.Matches(msg, keys.Add):
		return c.showProjectForm(nil)
	case key.Matches(msg, keys.Edit):
		if len(projects) > 0 {
			p := projects[c.projectCursor]
			return c.showProjectForm(&p)
		}
	}
	return c, nil
}

// --- Forms ---

func (c clientsModel) showClientForm(id int64, name string) (clientsModel, tea.Cmd) {
	*c.formName = name
	c.editingID = id
	if id == 0 {
		c.formType = "client"
	} else {
		c.formType = "clientEdit"
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Client name").Value(c.formName).Validate(validateName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c clientsModel) showProjectForm(p *store.Project) (clientsModel, tea.Cmd) {
	if p == nil {
		*c.formName = ""
		*c.formBilling = string(store.BillingTask)
		*c.formRetainer = ""
		c.editingID = 0
		c.formType = "project"
	} else {
		*c.formName = p.Name
		*c.formBilling = string(p.BillingType)
		*c.formRetainer = strconv.FormatFloat(p.RetainerValue, 'f', -1, 64)
		c.editingID = p.ID
		c.formType = "projectEdit"
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project name").Value(c.formName).Validate(validateName),
			huh.NewSelect[string]().Title("Billing").
				Options(
					huh.NewOption("Per task", string(store.BillingTask)),
					huh.NewOption("Retainer", string(store.BillingRetainer)),
				).Value(c.formBilling),
			huh.NewInput().Title("Retainer value").Value(c.formRetainer).Validate(validateValue),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c clientsModel) updateForm(msg tea.Msg) (clientsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		c.formActive = false
		c.form = nil
		return c, nil
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		return c.submitForm()
	}
	return c, cmd
}

func (c clientsModel) submitForm() (clientsModel, tea.Cmd) {
	name := strings.TrimSpace(*c.formName)

	var err error
	switch c.formType {
	case "client":
		_, err = c.store.AddClient(name)
	case "clientEdit":
		err = c.store.UpdateClient(c.editingID, name)
	case "project":
		_, err = c.store.AddProject(name, c.selectedClientID())
	case "projectEdit":
		retainer, _ := strconv.ParseFloat(strings.TrimSpace(*c.formRetainer), 64)
		if err = c.store.UpdateProjectDetails(c.editingID, name); err == nil {
			err = c.store.UpdateProjectBilling(c.editingID, store.BillingType(*c.formBilling), retainer)
		}
	}
	if err != nil {
		return c, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return c, c.refresh()
}

// --- View ---

func (c clientsModel) view() string {
	if c.width < 20 {
		return "Terminal too small"
	}

	if c.formActive && c.form != nil {
		title := map[string]string{
			"client":      "New Client",
			"clientEdit":  "Edit Client",
			"project":     "New Project",
			"projectEdit": "Edit Project",
		}[c.formType]
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", c.form.View())
		return panelStyle.Width(c.width - 4).Render(content)
	}

	paneWidth := (c.width - 8) / 2
	left := c.renderClientPane(paneWidth)
	right := c.renderProjectPane(paneWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (c clientsModel) renderClientPane(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Clients"))
	rows = append(rows, "")

	names := []string{"Internal"}
	for _, cl := range c.clients {
		names = append(names, cl.Name)
	}

	for i, name := range names {
		cursor := "  "
		style := normalItemStyle
		if i == c.clientCursor && c.pane == paneClients {
			cursor = "> "
			style = selectedItemStyle
		}
		var label string
		if i == 0 {
			label = mutedStyle.Render(name)
		} else {
			label = style.Render(name)
		}
		count := len(c.store.ProjectsForClient(c.clientIDAt(i)))
		rows = append(rows, fmt.Sprintf("%s%s %s", cursor, label,
			mutedStyle.Render(fmt.Sprintf("(%d)", count))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  enter: projects"))

	if c.pane == paneClients {
		return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c clientsModel) clientIDAt(row int) int64 {
	if row == 0 || row > len(c.clients) {
		return 0
	}
	return c.clients[row-1].ID
}

func (c clientsModel) renderProjectPane(w int) string {
	var rows []string
	header := "Projects"
	if id := c.selectedClientID(); id != 0 {
		if cl := c.store.GetClient(id); cl != nil {
			header = "Projects · " + cl.Name
		}
	} else {
		header = "Projects · Internal"
	}
	rows = append(rows, titleStyle.Render(header))
	rows = append(rows, "")

	projects := c.selectedProjects()
	if len(projects) == 0 {
		rows = append(rows, mutedStyle.Render("No projects yet."))
	}
	for i, p := range projects {
		cursor := "  "
		style := normalItemStyle
		if i == c.projectCursor && c.pane == paneProjects {
			cursor = "> "
			style = selectedItemStyle
		}
		billing := billingLabel(p)
		rows = append(rows, fmt.Sprintf("%s%s  %s", cursor, style.Render(p.Name), mutedStyle.Render(billing)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  esc: back"))

	if c.pane == paneProjects {
		return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func billingLabel(p store.Project) string {
	if p.BillingType == store.BillingRetainer {
		return fmt.Sprintf("retainer %s/mo", formatMoney(p.RetainerValue))
	}
	return "per task"
}
