package tui

import (
	"time"

	"github.com/sadopc/arquiteck/internal/store"
)

// sessionState tracks the countdown lifecycle.
type sessionState int

const (
	sessionIdle sessionState = iota
	sessionRunning
	sessionPaused
	sessionEnded
)

// sessionModel owns the single active countdown and the two prompts tied
// to its lifecycle: the strict-pause confirmation and the end-of-session
// note capture. It drives store mutations on tick-to-zero but owns no
// business entities itself.
type sessionModel struct {
	store *store.Store

	state        sessionState
	activeTaskID int64
	remaining    time.Duration

	lastCompleted *store.FocusTask

	pauseModal bool
	endModal   bool
}

func newSessionModel(s *store.Store) sessionModel {
	return sessionModel{
		store:     s,
		state:     sessionIdle,
		remaining: s.PomodoroDuration(),
	}
}

// start begins a countdown for taskID at the full configured duration.
// Starting while another task's session is live abandons that session
// without completion side effects; partial progress is lost.
func (m *sessionModel) start(taskID int64) {
	if taskID == 0 {
		return
	}
	if (m.state == sessionRunning || m.state == sessionPaused) && taskID == m.activeTaskID {
		return
	}
	m.activeTaskID = taskID
	m.remaining = m.store.PomodoroDuration()
	m.state = sessionRunning
	m.pauseModal = false
}

// toggle pauses the active task's running countdown and raises the strict
// pause prompt. Toggling a different task starts a fresh session for it.
// While paused the caller must go through resume or breakSession.
func (m *sessionModel) toggle(taskID int64) {
	if taskID != m.activeTaskID || m.state == sessionIdle || m.state == sessionEnded {
		m.start(taskID)
		return
	}
	if m.state == sessionRunning {
		m.state = sessionPaused
		m.pauseModal = true
	}
}

// resume continues a paused countdown; remaining time is untouched.
func (m *sessionModel) resume() {
	if m.state != sessionPaused {
		return
	}
	m.state = sessionRunning
	m.pauseModal = false
}

// breakSession abandons a paused countdown: back to idle, full duration
// restored, focus-break counter bumped. No pomodoro is awarded.
func (m *sessionModel) breakSession() {
	if m.state != sessionPaused {
		return
	}
	m.state = sessionIdle
	m.activeTaskID = 0
	m.remaining = m.store.PomodoroDuration()
	m.pauseModal = false
	m.store.IncrementFocusBreaks()
}

// tick advances the countdown by one second. Only a running session ticks;
// reaching zero fires the completion side effects.
func (m *sessionModel) tick() {
	if m.state != sessionRunning {
		return
	}
	m.remaining -= time.Second
	if m.remaining > 0 {
		return
	}
	m.complete()
}

func (m *sessionModel) complete() {
	task := m.store.FindFocusTask(m.activeTaskID)
	if task != nil {
		m.store.UpdateFocusTaskPomodoros(task.ID, task.Pomodoros+1)
		m.store.AddCompletedPomodoro(task.ID)
		m.store.AddBuildingToCity(task.ClientID, task.ProjectID, task.ID)
	}
	m.lastCompleted = task
	m.state = sessionEnded
	m.activeTaskID = 0
	m.remaining = m.store.PomodoroDuration()
	m.endModal = true
}

// closeEndModal dismisses the note prompt; a non-empty note is recorded
// against the last completed task's name.
func (m *sessionModel) closeEndModal(note string) {
	if m.state == sessionEnded {
		m.state = sessionIdle
	}
	m.endModal = false
	if note != "" {
		taskName := ""
		if m.lastCompleted != nil {
			taskName = m.lastCompleted.Name
		}
		m.store.AddNote(note, taskName)
	}
}

// setDuration changes the configured countdown length. A live countdown is
// never rescaled; the new duration applies from the next start.
func (m *sessionModel) setDuration(d time.Duration) {
	m.store.SetPomodoroDuration(d)
	if m.state == sessionIdle || m.state == sessionEnded {
		m.remaining = d
	}
}

func (m sessionModel) running() bool { return m.state == sessionRunning }
func (m sessionModel) paused() bool  { return m.state == sessionPaused }
func (m sessionModel) ended() bool   { return m.state == sessionEnded }
func (m sessionModel) idle() bool    { return m.state == sessionIdle }
