package i18n

// Message keys used by the client.
const (
	KeyWelcome        = "onboarding.welcome"
	KeyWelcomeBack    = "onboarding.welcome_back"
	KeySurveyPrompt   = "onboarding.survey_prompt"
	KeyInvalidInput   = "onboarding.invalid_input"
	KeySignInPrompt   = "onboarding.sign_in_prompt"
	KeyNoExistingUser = "onboarding.no_existing_user"
	KeySessionStarted = "session.started"
	KeySessionEnded   = "session.ended"
	KeyHome           = "session.home"
	KeyGenericError   = "errors.generic"
	KeyUnavailable    = "errors.unavailable"

	KeySurveyHint     = "console.survey_hint"
	KeySignInHint     = "console.sign_in_hint"
	KeyHomeHint       = "console.home_hint"
	KeySessionHint    = "console.session_hint"
	KeyStatus         = "console.status"
	KeyUnknownCommand = "console.unknown_command"
	KeyHelp           = "console.help"
)
