package scoring

type AttemptDecision struct {
	Allowed bool
	Reason  DenialReason
}

// CanStartAttempt decides whether a new attempt may begin.
//
// An unfinished session always wins: the student may resume it regardless of
// repeatability or limits. Otherwise a non-repeatable simulation admits a
// single completed attempt, and maxAttempts caps the completed count when
// set; nil means unlimited.
func CanStartAttempt(isRepeatable bool, completedAttempts int, maxAttempts *int, hasInProgress bool) AttemptDecision {
	if hasInProgress {
		return AttemptDecision{Allowed: true}
	}
	if !isRepeatable && completedAttempts > 0 {
		return AttemptDecision{Allowed: false, Reason: ReasonNotRepeatable}
	}
	if maxAttempts != nil && completedAttempts >= *maxAttempts {
		return AttemptDecision{Allowed: false, Reason: ReasonAttemptsReached}
	}
	return AttemptDecision{Allowed: true}
}
