package model

import "testing"

func TestTaskState_IsActive(t *testing.T) {
	tests := []struct {
		state    TaskState
		expected bool
	}{
		{TaskStateIdle, false},
		{TaskStateActive, true},
		{TaskStateSucceeded, false},
		{TaskStateCanceled, false},
		{TaskStateFailed, false},
	}

	for _, test := range tests {
		result := test.state.IsActive()
		if result != test.expected {
			t.Errorf("TaskState(%s).IsActive() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestTaskState_IsFinished(t *testing.T) {
	tests := []struct {
		state    TaskState
		expected bool
	}{
		{TaskStateIdle, false},
		{TaskStateActive, false},
		{TaskStateSucceeded, true},
		{TaskStateCanceled, true},
		{TaskStateFailed, true},
	}

	for _, test := range tests {
		result := test.state.IsFinished()
		if result != test.expected {
			t.Errorf("TaskState(%s).IsFinished() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestTaskState_IsValid(t *testing.T) {
	if !TaskStateFailed.IsValid() {
		t.Error("Failed should be a valid state")
	}
	if TaskState("Paused").IsValid() {
		t.Error("Paused should not be a valid state")
	}
}

func TestTaskState_String(t *testing.T) {
	state := TaskStateCanceled
	expected := "Canceled"
	result := state.String()

	if result != expected {
		t.Errorf("TaskState.String() = %s, expected %s", result, expected)
	}
}
