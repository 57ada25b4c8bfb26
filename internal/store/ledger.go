package store

import (
	"strings"
	"time"
)

// AddCompletedPomodoro appends one immutable ledger record for a finished
// countdown attributed to the given task, and bumps the global counter.
// The record carries the task's value and refs at completion time, so later
// edits to the task do not rewrite history. Unknown ids are a no-op.
func (s *Store) AddCompletedPomodoro(taskID int64) error {
	t := s.FindFocusTask(taskID)
	if t == nil {
		return nil
	}
	rec := CompletedPomodoro{
		ID:        s.nextID(),
		TaskID:    t.ID,
		Duration:  s.timer.PomodoroDuration,
		Timestamp: time.Now(),
		Value:     t.Value,
		ClientID:  t.ClientID,
		ProjectID: t.ProjectID,
	}
	s.app.CompletedPomodoros = append(s.app.CompletedPomodoros, rec)
	s.app.TotalPomodoros++
	return s.saveApp()
}

func (s *Store) CompletedPomodoros() []CompletedPomodoro {
	return s.app.CompletedPomodoros
}

func (s *Store) TotalPomodoros() int {
	return s.app.TotalPomodoros
}

// LogDistraction appends a reason to the distraction log.
func (s *Store) LogDistraction(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil
	}
	s.app.Distractions = append(s.app.Distractions, reason)
	return s.saveApp()
}

func (s *Store) Distractions() []string {
	return s.app.Distractions
}

// UpdateGoal sets the target of one of the two fixed goals. Unknown ids
// are a no-op.
func (s *Store) UpdateGoal(id GoalID, target float64) error {
	for i := range s.app.Goals {
		if s.app.Goals[i].ID == id {
			s.app.Goals[i].Target = target
			return s.saveApp()
		}
	}
	return nil
}

func (s *Store) Goals() []Goal {
	return s.app.Goals
}

func (s *Store) GetGoal(id GoalID) Goal {
	for _, g := range s.app.Goals {
		if g.ID == id {
			return g
		}
	}
	return Goal{ID: id}
}

func (s *Store) UpdateProfile(p Profile) error {
	s.app.Profile = p
	return s.saveApp()
}

func (s *Store) Profile() Profile {
	return s.app.Profile
}
