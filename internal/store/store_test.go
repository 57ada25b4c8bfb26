package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// commitBillable is a test helper that commits a fresh billable task.
func commitBillable(t *testing.T, s *Store, name, client, project string, value float64) *FocusTask {
	t.Helper()
	task, err := s.CommitToFocus(CommitInput{
		Name:        name,
		Value:       value,
		Priority:    PriorityMedium,
		FocusType:   FocusBillable,
		ClientName:  client,
		ProjectName: project,
	})
	if err != nil {
		t.Fatalf("commit billable: %v", err)
	}
	return task
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "arquiteck.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestFreshStoreDefaults(t *testing.T) {
	s := newTestStore(t)

	if got := s.PomodoroDuration(); got != 25*time.Minute {
		t.Fatalf("default duration = %v, want 25m", got)
	}
	goals := s.Goals()
	if len(goals) != 2 {
		t.Fatalf("expected 2 default goals, got %d", len(goals))
	}
	if s.GetGoal(GoalIncome).Target != 2000 {
		t.Fatalf("income target = %v, want 2000", s.GetGoal(GoalIncome).Target)
	}
	if s.GetGoal(GoalFocus).Target != 20 {
		t.Fatalf("focus target = %v, want 20", s.GetGoal(GoalFocus).Target)
	}
	if s.Profile().Name == "" {
		t.Fatal("expected a default profile")
	}
}

// ============================================================
// ID allocation
// ============================================================

func TestIDsAreUniqueAndIncreasing(t *testing.T) {
	s := newTestStore(t)

	c, _ := s.AddClient("Acme")
	p, _ := s.AddProject("Site", c.ID)
	i, _ := s.AddToInbox("thing")

	if c.ID == 0 || p.ID == 0 || i.ID == 0 {
		t.Fatal("ids must be non-zero")
	}
	if !(c.ID < p.ID && p.ID < i.ID) {
		t.Fatalf("ids not increasing: %d %d %d", c.ID, p.ID, i.ID)
	}
}

func TestIDsSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arquiteck.db")

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := s.AddClient("Acme")
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	c2, _ := s2.AddClient("Globex")
	if c2.ID <= c.ID {
		t.Fatalf("id %d reused or went backwards after restart (was %d)", c2.ID, c.ID)
	}
}

// ============================================================
// Clients and projects
// ============================================================

func TestAddAndRenameClient(t *testing.T) {
	s := newTestStore(t)

	c, err := s.AddClient("  Acme  ")
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Acme" {
		t.Fatalf("name not trimmed: %q", c.Name)
	}

	if err := s.UpdateClient(c.ID, "Acme Corp"); err != nil {
		t.Fatal(err)
	}
	if got := s.GetClient(c.ID); got == nil || got.Name != "Acme Corp" {
		t.Fatalf("rename not applied: %+v", got)
	}

	// Unknown id is a no-op
	if err := s.UpdateClient(9999, "x"); err != nil {
		t.Fatal(err)
	}
}

func TestProjectBuckets(t *testing.T) {
	s := newTestStore(t)

	c, _ := s.AddClient("Acme")
	s.AddProject("Site", c.ID)
	s.AddProject("Ops", 0)

	if got := len(s.ProjectsForClient(c.ID)); got != 1 {
		t.Fatalf("client projects = %d, want 1", got)
	}
	if got := len(s.ProjectsForClient(0)); got != 1 {
		t.Fatalf("internal projects = %d, want 1", got)
	}
}

func TestUpdateProjectBilling(t *testing.T) {
	s := newTestStore(t)

	p, _ := s.AddProject("Ops", 0)
	if p.BillingType != BillingTask {
		t.Fatalf("default billing = %q, want task", p.BillingType)
	}

	if err := s.UpdateProjectBilling(p.ID, BillingRetainer, 1500); err != nil {
		t.Fatal(err)
	}
	got := s.GetProject(p.ID)
	if got.BillingType != BillingRetainer || got.RetainerValue != 1500 {
		t.Fatalf("billing not applied: %+v", got)
	}
}

func TestDeleteClientCascades(t *testing.T) {
	s := newTestStore(t)

	task := commitBillable(t, s, "Design", "Acme", "Site", 100)
	keep := commitBillable(t, s, "Audit", "Globex", "Infra", 200)
	s.AddProject("Ops", 0)

	var acmeID int64
	for _, c := range s.Clients() {
		if c.Name == "Acme" {
			acmeID = c.ID
		}
	}
	if acmeID == 0 {
		t.Fatal("Acme not created")
	}

	if err := s.DeleteClient(acmeID); err != nil {
		t.Fatal(err)
	}

	if s.GetClient(acmeID) != nil {
		t.Fatal("client still present")
	}
	if len(s.ProjectsForClient(acmeID)) != 0 {
		t.Fatal("client projects survived the cascade")
	}
	if s.FindFocusTask(task.ID) != nil {
		t.Fatal("task under deleted client survived")
	}
	if s.FindFocusTask(keep.ID) == nil {
		t.Fatal("unrelated task was deleted")
	}
	if len(s.ProjectsForClient(0)) != 1 {
		t.Fatal("internal bucket was touched")
	}
}

// ============================================================
// Inbox and commit-to-focus
// ============================================================

func TestInboxOrdering(t *testing.T) {
	s := newTestStore(t)

	s.AddToInbox("first")
	s.AddToInbox("second")

	inbox := s.InboxTasks()
	if len(inbox) != 2 || inbox[0].Name != "second" {
		t.Fatalf("inbox not newest-first: %+v", inbox)
	}
}

func TestCommitRemovesInboxItemAtomically(t *testing.T) {
	s := newTestStore(t)

	item, _ := s.AddToInbox("write report")
	task, err := s.CommitToFocus(CommitInput{
		InboxID:   item.ID,
		Name:      "write report",
		FocusType: FocusPersonal,
		Priority:  PriorityLow,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(s.InboxTasks()) != 0 {
		t.Fatal("inbox item survived commit")
	}
	if s.FindFocusTask(task.ID) == nil {
		t.Fatal("focus task missing after commit")
	}
}

func TestCommitBillableCreatesClientAndProject(t *testing.T) {
	s := newTestStore(t)

	task := commitBillable(t, s, "Design", "Acme", "Site", 150)

	if task.ClientID == 0 || task.ProjectID == 0 {
		t.Fatalf("billable task missing refs: %+v", task)
	}
	if len(s.Clients()) != 1 || len(s.Projects()) != 1 {
		t.Fatalf("expected 1 client + 1 project, got %d/%d", len(s.Clients()), len(s.Projects()))
	}
	p := s.GetProject(task.ProjectID)
	if p.ClientID != task.ClientID {
		t.Fatal("project not linked to the created client")
	}
}

func TestCommitReusesClientCaseInsensitively(t *testing.T) {
	s := newTestStore(t)

	a := commitBillable(t, s, "One", "Acme", "Site", 0)
	b := commitBillable(t, s, "Two", "  acme ", "SITE", 0)

	if a.ClientID != b.ClientID {
		t.Fatalf("client duplicated: %d vs %d", a.ClientID, b.ClientID)
	}
	if a.ProjectID != b.ProjectID {
		t.Fatalf("project duplicated: %d vs %d", a.ProjectID, b.ProjectID)
	}
}

func TestCommitProjectScopedToClient(t *testing.T) {
	s := newTestStore(t)

	a := commitBillable(t, s, "One", "Acme", "Site", 0)
	b := commitBillable(t, s, "Two", "Globex", "Site", 0)

	// Same project name under different clients must stay distinct.
	if a.ProjectID == b.ProjectID {
		t.Fatal("projects merged across clients")
	}
}

func TestCommitInternalTask(t *testing.T) {
	s := newTestStore(t)

	task, err := s.CommitToFocus(CommitInput{
		Name:        "Maintenance",
		FocusType:   FocusInternal,
		Priority:    PriorityLow,
		ProjectName: "Ops",
	})
	if err != nil {
		t.Fatal(err)
	}

	if task.ClientID != 0 {
		t.Fatalf("internal task has a client: %d", task.ClientID)
	}
	if task.ProjectID == 0 {
		t.Fatal("internal task has no project")
	}
	if s.GetProject(task.ProjectID).ClientID != 0 {
		t.Fatal("internal project not in the clientless bucket")
	}
	if len(s.Clients()) != 0 {
		t.Fatal("a client was created for an internal task")
	}
}

func TestCommitPersonalTask(t *testing.T) {
	s := newTestStore(t)

	task, err := s.CommitToFocus(CommitInput{
		Name:      "Gym",
		FocusType: FocusPersonal,
		Priority:  PriorityLow,
	})
	if err != nil {
		t.Fatal(err)
	}
	if task.ClientID != 0 || task.ProjectID != 0 {
		t.Fatalf("personal task carries refs: %+v", task)
	}
	if len(s.Clients()) != 0 || len(s.Projects()) != 0 {
		t.Fatal("entities created for a personal task")
	}
}

func TestFocusTasksNewestFirst(t *testing.T) {
	s := newTestStore(t)

	commitBillable(t, s, "first", "Acme", "Site", 0)
	commitBillable(t, s, "second", "Acme", "Site", 0)

	tasks := s.FocusTasks()
	if len(tasks) != 2 || tasks[0].Name != "second" {
		t.Fatalf("focus list not newest-first: %+v", tasks)
	}
}

// ============================================================
// Focus task lifecycle
// ============================================================

func TestToggleCompleteStampsTimestamp(t *testing.T) {
	s := newTestStore(t)
	task := commitBillable(t, s, "Design", "Acme", "Site", 0)

	if err := s.ToggleComplete(task.ID); err != nil {
		t.Fatal(err)
	}
	got := s.FindFocusTask(task.ID)
	if !got.Completed || got.CompletedAt == nil {
		t.Fatalf("completion not stamped: %+v", got)
	}

	if err := s.ToggleComplete(task.ID); err != nil {
		t.Fatal(err)
	}
	got = s.FindFocusTask(task.ID)
	if got.Completed || got.CompletedAt != nil {
		t.Fatalf("un-complete did not clear timestamp: %+v", got)
	}
}

func TestTogglePaid(t *testing.T) {
	s := newTestStore(t)
	task := commitBillable(t, s, "Design", "Acme", "Site", 100)

	s.TogglePaid(task.ID)
	if !s.FindFocusTask(task.ID).Paid {
		t.Fatal("not marked paid")
	}
	s.TogglePaid(task.ID)
	if s.FindFocusTask(task.ID).Paid {
		t.Fatal("paid flag stuck")
	}
}

func TestUpdateFocusTaskEditableFieldsOnly(t *testing.T) {
	s := newTestStore(t)
	task := commitBillable(t, s, "Design", "Acme", "Site", 100)
	s.UpdateFocusTaskPomodoros(task.ID, 3)

	edit := *s.FindFocusTask(task.ID)
	edit.Name = "Redesign"
	edit.Value = 250
	edit.Priority = PriorityHigh
	edit.Pomodoros = 99 // must be ignored
	if err := s.UpdateFocusTask(edit); err != nil {
		t.Fatal(err)
	}

	got := s.FindFocusTask(task.ID)
	if got.Name != "Redesign" || got.Value != 250 || got.Priority != PriorityHigh {
		t.Fatalf("edit not applied: %+v", got)
	}
	if got.Pomodoros != 3 {
		t.Fatalf("pomodoro counter rewritten by edit: %d", got.Pomodoros)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	task := commitBillable(t, s, "Design", "Acme", "Site", 0)

	if err := s.DeleteTask(task.ID); err != nil {
		t.Fatal(err)
	}
	if s.FindFocusTask(task.ID) != nil {
		t.Fatal("task still present")
	}
	// Unknown id is a no-op
	if err := s.DeleteTask(9999); err != nil {
		t.Fatal(err)
	}
}

// ============================================================
// Pomodoro ledger
// ============================================================

func TestAddCompletedPomodoro(t *testing.T) {
	s := newTestStore(t)
	task := commitBillable(t, s, "Design", "Acme", "Site", 100)
	s.SetPomodoroDuration(10 * time.Minute)

	if err := s.AddCompletedPomodoro(task.ID); err != nil {
		t.Fatal(err)
	}

	ledger := s.CompletedPomodoros()
	if len(ledger) != 1 {
		t.Fatalf("ledger size = %d, want 1", len(ledger))
	}
	rec := ledger[0]
	if rec.TaskID != task.ID || rec.Value != 100 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.ClientID != task.ClientID || rec.ProjectID != task.ProjectID {
		t.Fatalf("refs not carried: %+v", rec)
	}
	if rec.Duration != 600 {
		t.Fatalf("duration = %d, want 600", rec.Duration)
	}
	if s.TotalPomodoros() != 1 {
		t.Fatalf("total = %d, want 1", s.TotalPomodoros())
	}
}

func TestLedgerIsImmutableUnderTaskEdits(t *testing.T) {
	s := newTestStore(t)
	task := commitBillable(t, s, "Design", "Acme", "Site", 100)
	s.AddCompletedPomodoro(task.ID)

	edit := *s.FindFocusTask(task.ID)
	edit.Value = 9999
	s.UpdateFocusTask(edit)

	if got := s.CompletedPomodoros()[0].Value; got != 100 {
		t.Fatalf("ledger value rewritten to %v", got)
	}
}

func TestTotalPomodorosMonotonic(t *testing.T) {
	s := newTestStore(t)
	task := commitBillable(t, s, "Design", "Acme", "Site", 0)

	for i := 0; i < 3; i++ {
		s.AddCompletedPomodoro(task.ID)
	}
	s.DeleteTask(task.ID)

	if s.TotalPomodoros() != 3 {
		t.Fatalf("total dropped with task deletion: %d", s.TotalPomodoros())
	}
	if len(s.CompletedPomodoros()) != 3 {
		t.Fatal("ledger shrank with task deletion")
	}
}

func TestAddCompletedPomodoroUnknownTask(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddCompletedPomodoro(9999); err != nil {
		t.Fatal(err)
	}
	if len(s.CompletedPomodoros()) != 0 || s.TotalPomodoros() != 0 {
		t.Fatal("phantom record for unknown task")
	}
}

// ============================================================
// Distractions, goals, profile
// ============================================================

func TestLogDistraction(t *testing.T) {
	s := newTestStore(t)

	s.LogDistraction("  phone  ")
	s.LogDistraction("")
	s.LogDistraction("   ")

	got := s.Distractions()
	if len(got) != 1 || got[0] != "phone" {
		t.Fatalf("distraction log = %+v", got)
	}
}

func TestUpdateGoal(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpdateGoal(GoalIncome, 5000); err != nil {
		t.Fatal(err)
	}
	if s.GetGoal(GoalIncome).Target != 5000 {
		t.Fatal("income target not applied")
	}
	if s.GetGoal(GoalFocus).Target != 20 {
		t.Fatal("other goal was touched")
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newTestStore(t)

	s.UpdateProfile(Profile{Name: "Dana", AvatarLetter: "D"})
	p := s.Profile()
	if p.Name != "Dana" || p.AvatarLetter != "D" {
		t.Fatalf("profile = %+v", p)
	}
}

// ============================================================
// Timer settings and notes
// ============================================================

func TestSetPomodoroDuration(t *testing.T) {
	s := newTestStore(t)

	s.SetPomodoroDuration(50 * time.Minute)
	if s.PomodoroDuration() != 50*time.Minute {
		t.Fatalf("duration = %v", s.PomodoroDuration())
	}
}

func TestFocusBreaks(t *testing.T) {
	s := newTestStore(t)

	s.IncrementFocusBreaks()
	s.IncrementFocusBreaks()
	if s.FocusBreaks() != 2 {
		t.Fatalf("breaks = %d, want 2", s.FocusBreaks())
	}
}

func TestAddNote(t *testing.T) {
	s := newTestStore(t)

	s.AddNote("first", "Design")
	s.AddNote("second", "")
	s.AddNote("   ", "Design")

	notes := s.Notes()
	if len(notes) != 2 {
		t.Fatalf("notes = %d, want 2", len(notes))
	}
	if notes[0].Content != "second" {
		t.Fatal("notes not newest-first")
	}
	if notes[1].TaskName != "Design" {
		t.Fatalf("task name lost: %+v", notes[1])
	}
}

// ============================================================
// Persistence round-trip
// ============================================================

func TestStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arquiteck.db")

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	task := commitBillable(t, s, "Design", "Acme", "Site", 100)
	commitBillable(t, s, "Audit", "Acme", "Site", 50)
	s.AddToInbox("later")
	s.AddCompletedPomodoro(task.ID)
	s.SetPomodoroDuration(40 * time.Minute)
	s.AddNote("went well", "Design")
	s.LogDistraction("phone")
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	tasks := s2.FocusTasks()
	if len(tasks) != 2 || tasks[0].Name != "Audit" || tasks[1].Name != "Design" {
		t.Fatalf("focus list order lost: %+v", tasks)
	}
	if len(s2.InboxTasks()) != 1 {
		t.Fatal("inbox lost")
	}
	if len(s2.CompletedPomodoros()) != 1 || s2.TotalPomodoros() != 1 {
		t.Fatal("ledger lost")
	}
	if s2.PomodoroDuration() != 40*time.Minute {
		t.Fatalf("duration lost: %v", s2.PomodoroDuration())
	}
	if len(s2.Notes()) != 1 || len(s2.Distractions()) != 1 {
		t.Fatal("notes or distractions lost")
	}
}

func TestCorruptSnapshotFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arquiteck.db")

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.AddClient("Acme")
	if _, err := s.db.Exec(`UPDATE snapshots SET value = 'not json' WHERE key = 'app'`); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatalf("open with corrupt snapshot: %v", err)
	}
	defer s2.Close()

	if len(s2.Clients()) != 0 {
		t.Fatal("corrupt snapshot should yield empty state")
	}
	if len(s2.Goals()) != 2 {
		t.Fatal("defaults not reinstated")
	}
}

func TestLegacySnapshotWithoutCounterIsRepaired(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arquiteck.db")

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	// A snapshot written before the counter existed: entities present,
	// next_id absent.
	legacy := `{"clients":[{"id":7,"name":"Acme"}],"projects":[],"focus_tasks":[{"id":12,"name":"Design","focus_type":"personal"}]}`
	if _, err := s.db.Exec(
		`INSERT INTO snapshots (key, value) VALUES ('app', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		legacy,
	); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	c, err := s2.AddClient("Globex")
	if err != nil {
		t.Fatal(err)
	}
	if c.ID <= 12 {
		t.Fatalf("repaired counter issued stale id %d", c.ID)
	}
	if len(s2.Goals()) != 2 {
		t.Fatal("missing goals not repaired")
	}
}

// ============================================================
// Reset
// ============================================================

func TestResetState(t *testing.T) {
	s := newTestStore(t)

	task := commitBillable(t, s, "Design", "Acme", "Site", 100)
	s.AddCompletedPomodoro(task.ID)
	s.AddNote("note", "Design")

	if err := s.ResetState(); err != nil {
		t.Fatal(err)
	}

	if len(s.Clients()) != 0 || len(s.FocusTasks()) != 0 || len(s.CompletedPomodoros()) != 0 {
		t.Fatal("entities survived reset")
	}
	if len(s.Notes()) != 0 {
		t.Fatal("notes survived reset")
	}
	if s.PomodoroDuration() != 25*time.Minute {
		t.Fatal("duration not back to default")
	}

	// Idempotent
	if err := s.ResetState(); err != nil {
		t.Fatalf("second reset: %v", err)
	}
}

func TestResetSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arquiteck.db")

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	commitBillable(t, s, "Design", "Acme", "Site", 100)
	if err := s.ResetState(); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if len(s2.FocusTasks()) != 0 || len(s2.Clients()) != 0 {
		t.Fatal("reset did not persist")
	}
}
