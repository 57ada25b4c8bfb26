package tui

import (
	"testing"
	"time"

	"github.com/sadopc/arquiteck/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func addTask(t *testing.T, s *store.Store, name string) *store.FocusTask {
	t.Helper()
	task, err := s.CommitToFocus(store.CommitInput{
		Name:        name,
		Value:       100,
		Priority:    store.PriorityMedium,
		FocusType:   store.FocusBillable,
		ClientName:  "Acme",
		ProjectName: "Site",
	})
	if err != nil {
		t.Fatalf("commit task: %v", err)
	}
	return task
}

// ============================================================
// Session lifecycle
// ============================================================

func TestSessionStart(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Design")
	m := newSessionModel(s)

	m.start(task.ID)

	if !m.running() {
		t.Fatal("not running after start")
	}
	if m.activeTaskID != task.ID {
		t.Fatalf("active task = %d, want %d", m.activeTaskID, task.ID)
	}
	if m.remaining != s.PomodoroDuration() {
		t.Fatalf("remaining = %v, want full duration", m.remaining)
	}
}

func TestSessionStartZeroIDIsNoop(t *testing.T) {
	s := newTestStore(t)
	m := newSessionModel(s)

	m.start(0)
	if !m.idle() {
		t.Fatal("started a session for task 0")
	}
}

func TestSessionStartSameTaskIsNoop(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Design")
	m := newSessionModel(s)

	m.start(task.ID)
	m.tick()
	before := m.remaining

	m.start(task.ID)
	if m.remaining != before {
		t.Fatal("restarting the active task reset the countdown")
	}
}

func TestSessionPauseAndResume(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Design")
	m := newSessionModel(s)

	m.start(task.ID)
	m.tick()
	paused := m.remaining

	m.toggle(task.ID)
	if !m.paused() || !m.pauseModal {
		t.Fatal("toggle on the running task must pause and prompt")
	}

	m.tick()
	if m.remaining != paused {
		t.Fatal("paused session kept ticking")
	}

	m.resume()
	if !m.running() || m.pauseModal {
		t.Fatal("resume did not continue the session")
	}
	if m.remaining != paused {
		t.Fatal("resume changed the remaining time")
	}
}

func TestSessionBreak(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Design")
	m := newSessionModel(s)

	m.start(task.ID)
	m.tick()
	m.toggle(task.ID)
	m.breakSession()

	if !m.idle() {
		t.Fatal("break did not return to idle")
	}
	if m.remaining != s.PomodoroDuration() {
		t.Fatal("break did not restore the full duration")
	}
	if s.FocusBreaks() != 1 {
		t.Fatalf("focus breaks = %d, want 1", s.FocusBreaks())
	}
	if s.FindFocusTask(task.ID).Pomodoros != 0 {
		t.Fatal("broken session awarded a pomodoro")
	}
	if len(s.CompletedPomodoros()) != 0 {
		t.Fatal("broken session wrote a ledger record")
	}
}

func TestSessionBreakOnlyWhenPaused(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Design")
	m := newSessionModel(s)

	m.start(task.ID)
	m.breakSession()
	if !m.running() {
		t.Fatal("break applied to a running session")
	}
	if s.FocusBreaks() != 0 {
		t.Fatal("break counted without a pause")
	}
}

func TestSessionToggleOtherTaskStartsFresh(t *testing.T) {
	s := newTestStore(t)
	a := addTask(t, s, "First")
	b := addTask(t, s, "Second")
	m := newSessionModel(s)

	m.start(a.ID)
	m.tick()
	m.tick()

	m.toggle(b.ID)
	if !m.running() || m.activeTaskID != b.ID {
		t.Fatal("toggle on another task must start it")
	}
	if m.remaining != s.PomodoroDuration() {
		t.Fatal("new session did not start at full duration")
	}
	// The abandoned session leaves no trace.
	if s.FindFocusTask(a.ID).Pomodoros != 0 || len(s.CompletedPomodoros()) != 0 {
		t.Fatal("abandoned session left completion side effects")
	}
}

// ============================================================
// Completion
// ============================================================

func TestSessionTickToZeroCompletes(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Design")
	s.SetPomodoroDuration(2 * time.Second)
	m := newSessionModel(s)

	m.start(task.ID)
	m.tick()
	if m.endModal {
		t.Fatal("ended early")
	}
	m.tick()

	if !m.ended() || !m.endModal {
		t.Fatal("session did not end at zero")
	}
	if m.activeTaskID != 0 {
		t.Fatal("active task not cleared on completion")
	}

	got := s.FindFocusTask(task.ID)
	if got.Pomodoros != 1 {
		t.Fatalf("pomodoros = %d, want 1", got.Pomodoros)
	}
	if len(s.CompletedPomodoros()) != 1 {
		t.Fatal("no ledger record written")
	}
	if len(s.CityData()) != 1 {
		t.Fatal("no building placed")
	}
	if s.CityData()[0].ClientID != task.ClientID {
		t.Fatal("building not attributed to the task's client")
	}
}

func TestSessionEndedDoesNotTick(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Design")
	s.SetPomodoroDuration(1 * time.Second)
	m := newSessionModel(s)

	m.start(task.ID)
	m.tick()
	m.tick()
	m.tick()

	if s.FindFocusTask(task.ID).Pomodoros != 1 {
		t.Fatal("ended session completed again")
	}
}

func TestCloseEndModalWithNote(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Design")
	s.SetPomodoroDuration(1 * time.Second)
	m := newSessionModel(s)

	m.start(task.ID)
	m.tick()
	m.closeEndModal("shipped the header")

	if !m.idle() || m.endModal {
		t.Fatal("end prompt did not close")
	}
	notes := s.Notes()
	if len(notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes))
	}
	if notes[0].Content != "shipped the header" || notes[0].TaskName != "Design" {
		t.Fatalf("note = %+v", notes[0])
	}
}

func TestCloseEndModalWithoutNote(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Design")
	s.SetPomodoroDuration(1 * time.Second)
	m := newSessionModel(s)

	m.start(task.ID)
	m.tick()
	m.closeEndModal("")

	if len(s.Notes()) != 0 {
		t.Fatal("empty note was recorded")
	}
	if !m.idle() {
		t.Fatal("session not idle after dismissing the prompt")
	}
}

// ============================================================
// Duration changes
// ============================================================

func TestSetDurationWhileIdle(t *testing.T) {
	s := newTestStore(t)
	m := newSessionModel(s)

	m.setDuration(50 * time.Minute)
	if m.remaining != 50*time.Minute {
		t.Fatalf("remaining = %v, want 50m", m.remaining)
	}
	if s.PomodoroDuration() != 50*time.Minute {
		t.Fatal("store duration not updated")
	}
}

func TestSetDurationDoesNotRescaleLiveSession(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, "Design")
	m := newSessionModel(s)

	m.start(task.ID)
	m.tick()
	before := m.remaining

	m.setDuration(5 * time.Minute)
	if m.remaining != before {
		t.Fatal("live countdown was rescaled")
	}

	// The next session picks the new duration up.
	m.toggle(task.ID)
	m.breakSession()
	m.start(task.ID)
	if m.remaining != 5*time.Minute {
		t.Fatalf("next session remaining = %v, want 5m", m.remaining)
	}
}

// ============================================================
// Countdown formatting
// ============================================================

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{25 * time.Minute, "25:00"},
		{61 * time.Second, "01:01"},
		{0, "00:00"},
		{-3 * time.Second, "00:00"},
	}
	for _, c := range cases {
		if got := formatCountdown(c.d); got != c.want {
			t.Fatalf("formatCountdown(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}
