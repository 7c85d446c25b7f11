package model

import (
	"testing"
	"time"
)

func at(hour int) time.Time {
	return time.Date(2026, 9, 1, hour, 0, 0, 0, time.UTC)
}

func TestShiftForTime(t *testing.T) {
	cases := []struct {
		hour int
		want Shift
	}{
		{6, ShiftMorning},
		{13, ShiftMorning},
		{14, ShiftEvening},
		{21, ShiftEvening},
		{22, ShiftNight},
		{23, ShiftNight},
		{0, ShiftNight},
		{5, ShiftNight},
	}

	for _, tc := range cases {
		if got := ShiftForTime(at(tc.hour)); got != tc.want {
			t.Errorf("ShiftForTime(hour=%d) = %s, want %s", tc.hour, got, tc.want)
		}
	}
}

func TestTaskStatusTransitions(t *testing.T) {
	cases := []struct {
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{TaskPending, TaskInProgress, true},
		{TaskPending, TaskCompleted, true},
		{TaskInProgress, TaskCompleted, true},
		{TaskInProgress, TaskPending, false},
		{TaskCompleted, TaskInProgress, false},
		{TaskCompleted, TaskPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
