package console

import (
	"context"
	"strings"
)

// Input is one line typed at the console.
type Input struct {
	Text    string
	Command string
	Args    string
}

// ParseInput splits a line into a slash command and its arguments. Lines without a leading
// slash have an empty Command.
func ParseInput(line string) Input {
	text := strings.TrimSpace(line)
	in := Input{Text: text}
	if !strings.HasPrefix(text, "/") {
		return in
	}

	cmd, args, _ := strings.Cut(text, " ")
	in.Command = strings.ToLower(cmd)
	in.Args = strings.TrimSpace(args)
	return in
}

// Handler processes console input.
type Handler func(ctx context.Context, in Input) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler
