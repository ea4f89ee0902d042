package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	m, err := Load("en")
	require.NoError(t, err)

	en := m.Translator("en")
	assert.Equal(t, "Please enter a valid name and age.", en.T(KeyInvalidInput))
	assert.Equal(t, "No existing user found on this device.", en.T(KeyNoExistingUser))
	assert.Equal(t, "Welcome back, Ada!", en.Tf(KeyWelcomeBack, "Ada"))

	for _, key := range []string{
		KeyWelcome, KeyWelcomeBack, KeySurveyPrompt, KeyInvalidInput, KeySignInPrompt,
		KeyNoExistingUser, KeySessionStarted, KeySessionEnded, KeyHome, KeyGenericError, KeyUnavailable,
	} {
		for _, lang := range []string{"en", "ru"} {
			assert.NotEqual(t, key, m.Translator(lang).T(key), "missing %s for %s", key, lang)
		}
	}
}

func TestTranslator_Fallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/a.yaml": {Data: []byte("en:\n  greet: hello\n  only_en: english\nde:\n  greet: hallo\n")},
	}

	m, err := LoadFromFS(fsys, "locales", "en")
	require.NoError(t, err)

	de := m.Translator(" DE ")
	assert.Equal(t, "de", de.Lang())
	assert.Equal(t, "hallo", de.T("greet"))
	assert.Equal(t, "english", de.T("only_en"))
	assert.Equal(t, "missing.key", de.T("missing.key"))

	assert.Equal(t, "en", m.Translator("fr").Lang())
}

func TestLoadFromFS_MissingDefault(t *testing.T) {
	fsys := fstest.MapFS{"l/a.yaml": {Data: []byte("de:\n  greet: hallo\n")}}

	_, err := LoadFromFS(fsys, "l", "en")
	assert.ErrorContains(t, err, "default language")
}
