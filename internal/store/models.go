package store

import "time"

// BillingType says how a project is invoiced.
type BillingType string

const (
	BillingTask     BillingType = "task"
	BillingRetainer BillingType = "retainer"
)

// FocusType tags a focus task with its bucket. Billable tasks carry a real
// client and project, internal tasks a project without a client, personal
// tasks neither.
type FocusType string

const (
	FocusBillable FocusType = "billable"
	FocusInternal FocusType = "internal"
	FocusPersonal FocusType = "personal"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Layer is the depth slot a building is drawn on.
type Layer string

const (
	LayerBack  Layer = "back"
	LayerMid   Layer = "mid"
	LayerFront Layer = "front"
)

type GoalID string

const (
	GoalIncome GoalID = "income"
	GoalFocus  GoalID = "focus"
)

type Client struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Project belongs to a client. ClientID 0 means the internal bucket:
// the project has no client at all.
type Project struct {
	ID            int64       `json:"id"`
	ClientID      int64       `json:"client_id"`
	Name          string      `json:"name"`
	BillingType   BillingType `json:"billing_type"`
	RetainerValue float64     `json:"retainer_value"`
}

// InboxTask is a capture-only item. It either gets deleted or committed
// into a FocusTask, never both.
type InboxTask struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FocusTask is the unit the timer runs against. ProjectID 0 is only valid
// for personal tasks; ClientID 0 for internal and personal ones.
type FocusTask struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	ClientID    int64      `json:"client_id"`
	Name        string     `json:"name"`
	FocusType   FocusType  `json:"focus_type"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Pomodoros   int        `json:"pomodoros"`
	Value       float64    `json:"value"`
	Paid        bool       `json:"paid"`
	Priority    Priority   `json:"priority"`
}

// CompletedPomodoro is one immutable ledger record per finished countdown.
type CompletedPomodoro struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Duration  int       `json:"duration"` // seconds
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	ClientID  int64     `json:"client_id"`
	ProjectID int64     `json:"project_id"`
}

// Building is one decorative reward rectangle on the city canvas.
type Building struct {
	ID        int64  `json:"id"`
	X         int    `json:"x"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Layer     Layer  `json:"layer"`
	ClientID  int64  `json:"client_id"`
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
}

type Goal struct {
	ID     GoalID  `json:"id"`
	Target float64 `json:"target"`
}

type Profile struct {
	Name         string `json:"name"`
	AvatarLetter string `json:"avatar_letter"`
}

// PomodoroNote is captured by the end-of-session dialog.
type PomodoroNote struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	TaskName  string    `json:"task_name"`
}

// CommitInput is the payload for CommitToFocus. InboxID is non-zero when
// the task originates from an inbox item, which is removed in the same
// operation.
type CommitInput struct {
	InboxID     int64
	Name        string
	Value       float64
	Priority    Priority
	FocusType   FocusType
	ClientName  string
	ProjectName string
}
