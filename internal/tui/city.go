package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/arquiteck/internal/store"
)

// cityModel draws the reward skyline. Buildings live on a fixed-width
// abstract canvas and get scaled down to the terminal; layers render back
// to front so closer buildings occlude farther ones.
type cityModel struct {
	store  *store.Store
	width  int
	height int

	buildings []store.Building
}

func newCityModel(s *store.Store) cityModel {
	return cityModel{store: s}
}

func (c *cityModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c cityModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return cityDataMsg{buildings: c.store.CityData()}
	}
}

func (c cityModel) update(msg tea.Msg) (cityModel, tea.Cmd) {
	if msg, ok := msg.(cityDataMsg); ok {
		c.buildings = msg.buildings
	}
	return c, nil
}

const maxBuildingHeight = 200 // matches the placement ceiling

func (c cityModel) view() string {
	if c.width < 20 {
		return "Terminal too small"
	}
	w := c.width - 4

	profile := c.store.Profile()
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(fmt.Sprintf("%s's City", profile.Name)),
		"  ",
		mutedStyle.Render(fmt.Sprintf("%d buildings · %d sessions total",
			len(c.buildings), c.store.TotalPomodoros())),
	)

	skyline := c.renderSkyline(w-6, c.skylineRows())
	legend := mutedStyle.Render("  every finished session raises one building")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", skyline, "", legend),
	)
}

func (c cityModel) skylineRows() int {
	rows := c.height - 12
	if rows < 8 {
		rows = 8
	}
	if rows > 20 {
		rows = 20
	}
	return rows
}

// renderSkyline rasterizes the canvas into a cols x rows cell grid. Cell
// value is the layer that owns it, empty cells stay sky.
func (c cityModel) renderSkyline(cols, rows int) string {
	if cols < 10 {
		cols = 10
	}

	grid := make([][]store.Layer, rows)
	for i := range grid {
		grid[i] = make([]store.Layer, cols)
	}

	for _, layer := range []store.Layer{store.LayerBack, store.LayerMid, store.LayerFront} {
		for _, b := range c.buildings {
			if b.Layer != layer {
				continue
			}
			x0 := b.X * cols / store.CityCanvasWidth
			x1 := (b.X + b.Width) * cols / store.CityCanvasWidth
			if x1 <= x0 {
				x1 = x0 + 1
			}
			h := b.Height * rows / maxBuildingHeight
			if h < 1 {
				h = 1
			}
			if h > rows {
				h = rows
			}
			for row := rows - h; row < rows; row++ {
				for col := x0; col < x1 && col < cols; col++ {
					grid[row][col] = layer
				}
			}
		}
	}

	var out []string
	for _, row := range grid {
		var sb strings.Builder
		col := 0
		for col < len(row) {
			layer := row[col]
			run := col
			for run < len(row) && row[run] == layer {
				run++
			}
			if layer == "" {
				sb.WriteString(strings.Repeat(" ", run-col))
			} else {
				block := strings.Repeat("█", run-col)
				sb.WriteString(lipgloss.NewStyle().Foreground(layerColors[string(layer)]).Render(block))
			}
			col = run
		}
		out = append(out, sb.String())
	}

	ground := mutedStyle.Render(strings.Repeat("▔", cols))
	out = append(out, ground)

	if len(c.buildings) == 0 {
		empty := mutedStyle.Render("The skyline is empty. Finish a session to break ground.")
		return lipgloss.JoinVertical(lipgloss.Left, strings.Join(out, "\n"), "", empty)
	}
	return strings.Join(out, "\n")
}
