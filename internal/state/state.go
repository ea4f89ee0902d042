// Package state holds the onboarding state machine that decides which startup view is shown.
package state

// State represents an onboarding state.
type State string

const (
	// StateUnresolved is the value before the startup check has run.
	StateUnresolved State = "unresolved"
	// StateSurveyPending indicates that the create-profile survey is shown.
	StateSurveyPending State = "survey_pending"
	// StateSignInPending indicates that the sign-in-existing-user view is shown.
	StateSignInPending State = "sign_in_pending"
	// StateResolved indicates that a profile is known and the home view may be shown.
	StateResolved State = "resolved"
)

func (s State) String() string {
	return string(s)
}
