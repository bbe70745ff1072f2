package userconf

import (
	"fmt"
	"math"
)

const (
	HiddenPriority int64 = -1
	NormalPriority int64 = 0
	// Pins start here when a conversation is pinned from the normal or hidden band.
	PinnedPriority int64 = 1
	// Largest integer a JSON number carries exactly.
	MaxPriority int64 = 1<<53 - 1
)

func IsHidden(priority int64) bool {
	return priority < 0
}

func IsPinned(priority int64) bool {
	return priority > 0
}

// TransitionPriority computes the priority applied when requested is written
// over current. Hidden is a single value, so negative requests other than
// HiddenPriority are rejected. Re-pinning an already pinned profile keeps its
// current pin rank.
func TransitionPriority(current, requested int64) (int64, error) {
	switch {
	case IsHidden(requested) && requested != HiddenPriority:
		return current, &ValidationError{
			Field:  "priority",
			Reason: fmt.Sprintf("%d is below the hidden band (%d)", requested, HiddenPriority),
		}
	case requested > MaxPriority:
		return current, &ValidationError{
			Field:  "priority",
			Reason: fmt.Sprintf("%d exceeds %d", requested, MaxPriority),
		}
	case IsPinned(requested) && IsPinned(current):
		return current, nil
	default:
		return requested, nil
	}
}

// PriorityFromNumber converts a boundary number (e.g. decoded from JSON) into
// a priority. Non-finite and fractional values are rejected, never rounded.
func PriorityFromNumber(value float64) (int64, error) {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		return 0, &ValidationError{Field: "priority", Reason: "not a finite number"}
	case value != math.Trunc(value):
		return 0, &ValidationError{Field: "priority", Reason: fmt.Sprintf("%v is not an integer", value)}
	case value > float64(MaxPriority) || value < -float64(MaxPriority):
		return 0, &ValidationError{Field: "priority", Reason: fmt.Sprintf("%v is out of range", value)}
	}
	return int64(value), nil
}
