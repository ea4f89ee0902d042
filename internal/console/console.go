// Package console drives the client from a line-oriented terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
)

// Console reads lines from an input stream and routes them until quit, EOF or cancellation.
type Console struct {
	router *Router
	in     io.Reader
	log    *slog.Logger
}

func New(router *Router, in io.Reader, log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}
	return &Console{router: router, in: in, log: log}
}

// Run blocks until the user quits, the input ends, or ctx is done. A reader blocked on
// input is abandoned when ctx is done.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			err := c.router.Route(ctx, line)
			if errors.Is(err, ErrQuit) {
				c.log.DebugContext(ctx, "console quit")
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}
