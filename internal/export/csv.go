package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/arquiteck/internal/store"
)

func ToCSV(ledger []store.CompletedPomodoro, tasks map[int64]store.FocusTask, clients map[int64]store.Client, projects map[int64]store.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Completed At", "Task", "Client", "Project", "Duration (s)", "Duration", "Value"}); err != nil {
		return err
	}

	for _, p := range ledger {
		task, client, project := resolveNames(p, tasks, clients, projects)

		row := []string{
			fmt.Sprintf("%d", p.ID),
			p.Timestamp.Local().Format(time.RFC3339),
			task,
			client,
			project,
			fmt.Sprintf("%d", p.Duration),
			formatDuration(p.Duration),
			fmt.Sprintf("%.2f", p.Value),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// resolveNames maps the ledger record's references to display names. A
// reference whose entity was deleted since falls back to a placeholder;
// id 0 means the record never had one.
func resolveNames(p store.CompletedPomodoro, tasks map[int64]store.FocusTask, clients map[int64]store.Client, projects map[int64]store.Project) (task, client, project string) {
	task = "Deleted task"
	if t, ok := tasks[p.TaskID]; ok {
		task = t.Name
	}
	if p.ClientID != 0 {
		client = "Deleted client"
		if c, ok := clients[p.ClientID]; ok {
			client = c.Name
		}
	}
	if p.ProjectID != 0 {
		project = "Deleted project"
		if pr, ok := projects[p.ProjectID]; ok {
			project = pr.Name
		}
	}
	return task, client, project
}

func formatDuration(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
