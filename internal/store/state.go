package store

// appState is the business-entity snapshot, persisted as one JSON document
// under the "app" key on every mutation.
type appState struct {
	NextID             int64               `json:"next_id"`
	Clients            []Client            `json:"clients"`
	Projects           []Project           `json:"projects"`
	InboxTasks         []InboxTask         `json:"inbox_tasks"`
	FocusTasks         []FocusTask         `json:"focus_tasks"`
	Goals              []Goal              `json:"goals"`
	Distractions       []string            `json:"distractions"`
	CityData           []Building          `json:"city_data"`
	CompletedPomodoros []CompletedPomodoro `json:"completed_pomodoros"`
	TotalPomodoros     int                 `json:"total_pomodoros"`
	Profile            Profile             `json:"profile"`
}

// timerState is the timer-side snapshot: configuration and the note ledger,
// persisted under the "timer" key. Live countdown state is deliberately not
// part of it; a session does not survive a restart.
type timerState struct {
	NextID           int64          `json:"next_id"`
	PomodoroDuration int            `json:"pomodoro_duration"` // seconds
	FocusBreaks      int            `json:"focus_breaks"`
	Notes            []PomodoroNote `json:"notes"`
}

const defaultPomodoroSeconds = 25 * 60

func defaultAppState() appState {
	return appState{
		NextID: 1,
		Goals: []Goal{
			{ID: GoalIncome, Target: 2000},
			{ID: GoalFocus, Target: 20},
		},
		Profile: Profile{Name: "User", AvatarLetter: "U"},
	}
}

func defaultTimerState() timerState {
	return timerState{
		NextID:           1,
		PomodoroDuration: defaultPomodoroSeconds,
	}
}

// normalize repairs a decoded snapshot so that snapshots written by older
// shapes (missing counter, missing goals) still load into a usable state.
func (a *appState) normalize() {
	if a.NextID < 1 {
		a.NextID = 1
		for _, c := range a.Clients {
			a.bumpNextID(c.ID)
		}
		for _, p := range a.Projects {
			a.bumpNextID(p.ID)
		}
		for _, t := range a.InboxTasks {
			a.bumpNextID(t.ID)
		}
		for _, t := range a.FocusTasks {
			a.bumpNextID(t.ID)
		}
		for _, r := range a.CompletedPomodoros {
			a.bumpNextID(r.ID)
		}
		for _, b := range a.CityData {
			a.bumpNextID(b.ID)
		}
	}
	if len(a.Goals) == 0 {
		a.Goals = defaultAppState().Goals
	}
	if a.Profile.Name == "" {
		a.Profile = defaultAppState().Profile
	}
}

func (a *appState) bumpNextID(id int64) {
	if id >= a.NextID {
		a.NextID = id + 1
	}
}

func (t *timerState) normalize() {
	if t.NextID < 1 {
		t.NextID = 1
		for _, n := range t.Notes {
			if n.ID >= t.NextID {
				t.NextID = n.ID + 1
			}
		}
	}
	if t.PomodoroDuration <= 0 {
		t.PomodoroDuration = defaultPomodoroSeconds
	}
}
