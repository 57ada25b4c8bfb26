package store

import (
	"strings"
	"time"
)

// PomodoroDuration is the configured countdown length. Changing it never
// rescales a countdown already in flight; the timer reads it fresh when a
// session starts.
func (s *Store) PomodoroDuration() time.Duration {
	return time.Duration(s.timer.PomodoroDuration) * time.Second
}

func (s *Store) SetPomodoroDuration(d time.Duration) error {
	s.timer.PomodoroDuration = int(d.Seconds())
	return s.saveTimer()
}

// IncrementFocusBreaks counts a session broken off from the pause prompt.
func (s *Store) IncrementFocusBreaks() error {
	s.timer.FocusBreaks++
	return s.saveTimer()
}

func (s *Store) FocusBreaks() int {
	return s.timer.FocusBreaks
}

// AddNote records an end-of-session note, newest first. Empty content is
// a no-op.
func (s *Store) AddNote(content, taskName string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	n := PomodoroNote{
		ID:        s.nextNoteID(),
		Content:   content,
		Timestamp: time.Now(),
		TaskName:  taskName,
	}
	s.timer.Notes = append([]PomodoroNote{n}, s.timer.Notes...)
	return s.saveTimer()
}

func (s *Store) Notes() []PomodoroNote {
	return s.timer.Notes
}
