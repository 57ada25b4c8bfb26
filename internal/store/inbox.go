package store

import "strings"

// AddToInbox captures a quick task. Newest first.
func (s *Store) AddToInbox(name string) (*InboxTask, error) {
	t := InboxTask{ID: s.nextID(), Name: strings.TrimSpace(name)}
	s.app.InboxTasks = append([]InboxTask{t}, s.app.InboxTasks...)
	return &t, s.saveApp()
}

// DeleteFromInbox drops an inbox item. Unknown ids are a no-op.
func (s *Store) DeleteFromInbox(id int64) error {
	for i, t := range s.app.InboxTasks {
		if t.ID == id {
			s.app.InboxTasks = append(s.app.InboxTasks[:i], s.app.InboxTasks[i+1:]...)
			return s.saveApp()
		}
	}
	return nil
}

func (s *Store) InboxTasks() []InboxTask {
	return s.app.InboxTasks
}
