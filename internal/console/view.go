package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Proton-105/cortex-client/internal/domain"
	"github.com/Proton-105/cortex-client/internal/i18n"
)

// Terminal renders the client screens as lines of text.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	t   i18n.Translator
}

// NewTerminal writes localized screens to out.
func NewTerminal(out io.Writer, t i18n.Translator) *Terminal {
	return &Terminal{out: out, t: t}
}

func (v *Terminal) ShowSurvey() {
	v.println(v.t.T(i18n.KeyWelcome))
	v.println(v.t.T(i18n.KeySurveyPrompt))
	v.println(v.t.T(i18n.KeySurveyHint))
}

func (v *Terminal) ShowSignIn() {
	v.println(v.t.T(i18n.KeySignInPrompt))
	v.println(v.t.T(i18n.KeySignInHint))
}

func (v *Terminal) ShowHome(p *domain.UserProfile) {
	v.println("== " + v.t.T(i18n.KeyHome) + " ==")
	if p != nil {
		v.println(v.t.Tf(i18n.KeyWelcomeBack, p.DisplayName))
	}
	v.println(v.t.T(i18n.KeyHomeHint))
}

func (v *Terminal) ShowSession(start time.Time) {
	v.println(v.t.T(i18n.KeySessionStarted) + " " + start.Local().Format(time.Kitchen))
	v.println(v.t.T(i18n.KeySessionHint))
}

func (v *Terminal) ShowError(msg string) {
	v.println("! " + msg)
}

// Printf writes a formatted line.
func (v *Terminal) Printf(format string, args ...any) {
	v.println(fmt.Sprintf(format, args...))
}

func (v *Terminal) println(line string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, line)
}
