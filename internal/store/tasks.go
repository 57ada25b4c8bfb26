package store

import (
	"strings"
	"time"
)

// CommitToFocus turns planning input into exactly one new focus task,
// resolving or creating the client and project it names. When the input
// originates from an inbox item, that item is removed in the same mutation;
// no intermediate state where both or neither exist is ever observable.
func (s *Store) CommitToFocus(in CommitInput) (*FocusTask, error) {
	var clientID, projectID int64

	switch in.FocusType {
	case FocusBillable:
		client := s.findClientByName(in.ClientName)
		if client == nil {
			c := Client{ID: s.nextID(), Name: strings.TrimSpace(in.ClientName)}
			s.app.Clients = append(s.app.Clients, c)
			client = &s.app.Clients[len(s.app.Clients)-1]
		}
		clientID = client.ID
		projectID = s.resolveProject(clientID, in.ProjectName)

	case FocusInternal:
		projectID = s.resolveProject(0, in.ProjectName)

	case FocusPersonal:
		// No client or project at all.
	}

	task := FocusTask{
		ID:        s.nextID(),
		ProjectID: projectID,
		ClientID:  clientID,
		Name:      strings.TrimSpace(in.Name),
		FocusType: in.FocusType,
		Value:     in.Value,
		Priority:  in.Priority,
	}

	// Most-recent-first ordering.
	s.app.FocusTasks = append([]FocusTask{task}, s.app.FocusTasks...)

	if in.InboxID != 0 {
		for i, t := range s.app.InboxTasks {
			if t.ID == in.InboxID {
				s.app.InboxTasks = append(s.app.InboxTasks[:i], s.app.InboxTasks[i+1:]...)
				break
			}
		}
	}

	return &task, s.saveApp()
}

func (s *Store) resolveProject(clientID int64, name string) int64 {
	if p := s.findProjectByName(clientID, name); p != nil {
		return p.ID
	}
	p := Project{
		ID:          s.nextID(),
		ClientID:    clientID,
		Name:        strings.TrimSpace(name),
		BillingType: BillingTask,
	}
	s.app.Projects = append(s.app.Projects, p)
	return p.ID
}

// UpdateFocusTask replaces an existing task's editable fields. Pomodoro
// count and focus type are not touched. Unknown ids are a no-op.
func (s *Store) UpdateFocusTask(task FocusTask) error {
	for i := range s.app.FocusTasks {
		if s.app.FocusTasks[i].ID == task.ID {
			t := &s.app.FocusTasks[i]
			t.Name = task.Name
			t.Value = task.Value
			t.Priority = task.Priority
			return s.saveApp()
		}
	}
	return nil
}

// UpdateFocusTaskPomodoros sets the pomodoro counter directly. Used by the
// timer's completion callback, not by user-facing forms.
func (s *Store) UpdateFocusTaskPomodoros(id int64, pomodoros int) error {
	for i := range s.app.FocusTasks {
		if s.app.FocusTasks[i].ID == id {
			s.app.FocusTasks[i].Pomodoros = pomodoros
			return s.saveApp()
		}
	}
	return nil
}

// ToggleComplete flips the completion flag, stamping CompletedAt on the
// way to complete and clearing it on the way back.
func (s *Store) ToggleComplete(id int64) error {
	for i := range s.app.FocusTasks {
		t := &s.app.FocusTasks[i]
		if t.ID != id {
			continue
		}
		t.Completed = !t.Completed
		if t.Completed {
			now := time.Now()
			t.CompletedAt = &now
		} else {
			t.CompletedAt = nil
		}
		return s.saveApp()
	}
	return nil
}

// TogglePaid flips the paid flag on a task.
func (s *Store) TogglePaid(id int64) error {
	for i := range s.app.FocusTasks {
		if s.app.FocusTasks[i].ID == id {
			s.app.FocusTasks[i].Paid = !s.app.FocusTasks[i].Paid
			return s.saveApp()
		}
	}
	return nil
}

// DeleteTask removes a focus task. Unknown ids are a no-op.
func (s *Store) DeleteTask(id int64) error {
	for i, t := range s.app.FocusTasks {
		if t.ID == id {
			s.app.FocusTasks = append(s.app.FocusTasks[:i], s.app.FocusTasks[i+1:]...)
			return s.saveApp()
		}
	}
	return nil
}

func (s *Store) FocusTasks() []FocusTask {
	return s.app.FocusTasks
}

// FindFocusTask returns a copy of the task, or nil when absent.
func (s *Store) FindFocusTask(id int64) *FocusTask {
	for _, t := range s.app.FocusTasks {
		if t.ID == id {
			task := t
			return &task
		}
	}
	return nil
}
