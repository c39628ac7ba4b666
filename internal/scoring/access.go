package scoring

import "time"

// DenialReason identifies why an access or start decision failed. Callers map
// these onto user-facing errors; the evaluators themselves never error.
type DenialReason string

const (
	ReasonNotStarted      DenialReason = "not_started"
	ReasonExpired         DenialReason = "expired"
	ReasonNotRepeatable   DenialReason = "not_repeatable"
	ReasonAttemptsReached DenialReason = "max_attempts_reached"
)

type AccessDecision struct {
	Allowed bool
	Reason  DenialReason
}

// CanAccess decides whether a student may enter a simulation right now.
//
// The start gate blocks only when a start date exists, lies strictly in the
// future and no virtual room is open; an open room bypasses the start gate
// entirely but never the end gate. The end gate blocks only when an end date
// exists, lies strictly in the past and staff has not pinned the assignment
// active. Boundary instants count as inside the window.
func CanAccess(now time.Time, effectiveStart, effectiveEnd *time.Time, virtualRoomOpen, assignmentActive bool) AccessDecision {
	if effectiveStart != nil && effectiveStart.After(now) && !virtualRoomOpen {
		return AccessDecision{Allowed: false, Reason: ReasonNotStarted}
	}
	if effectiveEnd != nil && effectiveEnd.Before(now) && !assignmentActive {
		return AccessDecision{Allowed: false, Reason: ReasonExpired}
	}
	return AccessDecision{Allowed: true}
}
