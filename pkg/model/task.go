package model

import "time"

type TaskType string

const (
	TaskCleaning    TaskType = "cleaning"
	TaskLaundry     TaskType = "laundry"
	TaskMaintenance TaskType = "maintenance"
	TaskInspection  TaskType = "inspection"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// CanTransitionTo enforces the monotonic task lifecycle. Jumping straight
// from pending to completed is allowed; going backwards never is.
func (s TaskStatus) CanTransitionTo(to TaskStatus) bool {
	switch s {
	case TaskPending:
		return to == TaskInProgress || to == TaskCompleted
	case TaskInProgress:
		return to == TaskCompleted
	}
	return false
}

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
	ShiftNight   Shift = "night"
)

// ShiftForTime maps a clock hour to the shift that covers it.
func ShiftForTime(t time.Time) Shift {
	switch h := t.Hour(); {
	case h >= 6 && h < 14:
		return ShiftMorning
	case h >= 14 && h < 22:
		return ShiftEvening
	default:
		return ShiftNight
	}
}

// HousekeepingTask is a work item bound to one bed. StaffID is empty for
// tasks queued automatically from checkout events until a supervisor
// assigns them.
type HousekeepingTask struct {
	ID             string     `json:"id,omitempty" bson:"_id,omitempty"`
	StaffID        string     `json:"staff_id,omitempty" bson:"staff_id,omitempty" validate:"omitempty,min=1,max=64"`
	RoomNumber     int        `json:"room_number" bson:"room_number" validate:"required,gt=0"`
	BedNumber      string     `json:"bed_number" bson:"bed_number" validate:"required,min=1,max=16"`
	Task           TaskType   `json:"task" bson:"task" validate:"required,oneof=cleaning laundry maintenance inspection"`
	Shift          Shift      `json:"shift" bson:"shift" validate:"required,oneof=morning evening night"`
	TaskStatus     TaskStatus `json:"task_status" bson:"task_status" validate:"required,oneof=pending in-progress completed"`
	AssignedDate   time.Time  `json:"assigned_date" bson:"assigned_date"`
	CompletionDate *time.Time `json:"completion_date,omitempty" bson:"completion_date,omitempty"`
}

// TaskRequest is one entry in the batch assignment payload.
type TaskRequest struct {
	RoomNumber int      `json:"room_number" validate:"required,gt=0"`
	BedNumber  string   `json:"bed_number" validate:"required,min=1,max=16"`
	Task       TaskType `json:"task" validate:"required,oneof=cleaning laundry maintenance inspection"`
	Shift      Shift    `json:"shift" validate:"required,oneof=morning evening night"`
}

type TaskStats struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}
