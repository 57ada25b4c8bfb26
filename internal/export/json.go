package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/arquiteck/internal/store"
)

type jsonExport struct {
	ExportedAt string       `json:"exported_at"`
	Count      int          `json:"count"`
	Sessions   []jsonRecord `json:"sessions"`
}

type jsonRecord struct {
	ID          int64   `json:"id"`
	CompletedAt string  `json:"completed_at"`
	Task        string  `json:"task"`
	TaskID      int64   `json:"task_id"`
	Client      string  `json:"client,omitempty"`
	Project     string  `json:"project,omitempty"`
	DurationSec int     `json:"duration_seconds"`
	Duration    string  `json:"duration"`
	Value       float64 `json:"value"`
}

func ToJSON(ledger []store.CompletedPomodoro, tasks map[int64]store.FocusTask, clients map[int64]store.Client, projects map[int64]store.Project, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(ledger),
	}

	for _, p := range ledger {
		task, client, project := resolveNames(p, tasks, clients, projects)

		export.Sessions = append(export.Sessions, jsonRecord{
			ID:          p.ID,
			CompletedAt: p.Timestamp.Local().Format(time.RFC3339),
			Task:        task,
			TaskID:      p.TaskID,
			Client:      client,
			Project:     project,
			DurationSec: p.Duration,
			Duration:    formatDuration(p.Duration),
			Value:       p.Value,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
