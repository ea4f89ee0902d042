package state

// validTransitions contains every permitted onboarding transition.
var validTransitions = map[State][]State{
	StateUnresolved: {
		StateSurveyPending,
		StateResolved,
	},
	StateSurveyPending: {
		StateResolved,
		StateSignInPending,
	},
	StateSignInPending: {
		StateResolved,
		StateSurveyPending,
	},
	// sign-out
	StateResolved: {
		StateSurveyPending,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
func IsTransitionAllowed(from, to State) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == to {
			return true
		}
	}

	return false
}
