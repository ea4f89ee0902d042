package console

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Proton-105/cortex-client/internal/app"
	apperrors "github.com/Proton-105/cortex-client/internal/errors"
	"github.com/Proton-105/cortex-client/internal/i18n"
	"github.com/Proton-105/cortex-client/internal/state"
)

// Console commands.
const (
	CommandStart    = "/start"
	CommandEnd      = "/end"
	CommandExisting = "/existing"
	CommandSignIn   = "/signin"
	CommandBack     = "/back"
	CommandSignOut  = "/signout"
	CommandStatus   = "/status"
	CommandHelp     = "/help"
	CommandQuit     = "/quit"
)

// ErrQuit stops the console loop.
var ErrQuit = errors.New("console: quit")

// Printer writes an informational line.
type Printer interface {
	Printf(format string, args ...any)
}

type commands struct {
	shell *app.Shell
	out   Printer
	t     i18n.Translator
}

// RegisterCommands wires the shell actions to router and dispatcher.
func RegisterCommands(r *Router, d *Dispatcher, shell *app.Shell, out Printer, t i18n.Translator) {
	c := &commands{shell: shell, out: out, t: t}

	r.RegisterCommand(CommandStart, c.requireResolved(c.startSession))
	r.RegisterCommand(CommandEnd, c.requireResolved(c.endSession))
	r.RegisterCommand(CommandSignOut, c.requireResolved(c.signOut))
	r.RegisterCommand(CommandExisting, c.existing)
	r.RegisterCommand(CommandSignIn, c.signIn)
	r.RegisterCommand(CommandBack, c.back)
	r.RegisterCommand(CommandStatus, c.status)
	r.RegisterCommand(CommandHelp, c.help)
	r.RegisterCommand(CommandQuit, func(context.Context, Input) error { return ErrQuit })

	d.RegisterStateHandler(state.StateSurveyPending, c.survey)
	d.RegisterStateHandler(state.StateSignInPending, c.signIn)

	r.SetDefault(c.unknown)
}

// survey reads "<name>, <age>". The age is whatever follows the last comma.
func (c *commands) survey(ctx context.Context, in Input) error {
	name, age := in.Text, ""
	if i := strings.LastIndex(in.Text, ","); i >= 0 {
		name, age = in.Text[:i], in.Text[i+1:]
	}
	return c.shell.Flow().Submit(ctx, name, age)
}

func (c *commands) existing(ctx context.Context, _ Input) error {
	return c.shell.Flow().ChooseExistingAccount(ctx)
}

func (c *commands) signIn(ctx context.Context, _ Input) error {
	return c.shell.Flow().SignIn(ctx)
}

func (c *commands) back(ctx context.Context, _ Input) error {
	return c.shell.Flow().Back(ctx)
}

func (c *commands) startSession(context.Context, Input) error {
	c.shell.StartNewSession()
	return nil
}

func (c *commands) endSession(context.Context, Input) error {
	wasActive := c.shell.IsSessionActive()
	c.shell.EndCurrentSession()
	if wasActive {
		c.out.Printf(c.t.T(i18n.KeySessionEnded), c.shell.LastDuration().Round(time.Second))
	}
	return nil
}

func (c *commands) signOut(ctx context.Context, _ Input) error {
	return c.shell.SignOut(ctx)
}

func (c *commands) status(context.Context, Input) error {
	c.out.Printf(c.t.T(i18n.KeyStatus), c.shell.State(), c.shell.IsSessionActive(), c.shell.LastDuration().Round(time.Second))
	return nil
}

func (c *commands) help(context.Context, Input) error {
	c.out.Printf("%s", c.t.T(i18n.KeyHelp))
	return nil
}

func (c *commands) unknown(context.Context, Input) error {
	c.out.Printf("%s", c.t.T(i18n.KeyUnknownCommand))
	return nil
}

func (c *commands) requireResolved(next Handler) Handler {
	return func(ctx context.Context, in Input) error {
		if c.shell.State() != state.StateResolved {
			return apperrors.NewStateError(in.Command+" requires a profile", state.ErrInvalidTransition)
		}
		return next(ctx, in)
	}
}
