package console

import (
	"context"
	"log/slog"
	"sync"
)

// Router dispatches slash commands and state-aware text input.
type Router struct {
	mu             sync.RWMutex
	commands       map[string]Handler
	dispatcher     *Dispatcher
	defaultHandler Handler
	middlewares    []Middleware
	log            *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(dispatcher *Dispatcher, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:   make(map[string]Handler),
		dispatcher: dispatcher,
		log:        log,
	}
}

// RegisterCommand registers a handler for a slash command.
func (r *Router) RegisterCommand(cmd string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = h
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// SetDefault sets the fallback handler for unmatched commands or states.
func (r *Router) SetDefault(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultHandler = h
}

// Route parses line and runs the matching handler through the middleware chain.
func (r *Router) Route(ctx context.Context, line string) error {
	in := ParseInput(line)
	if in.Text == "" {
		return nil
	}

	h := r.resolve(in)
	if h == nil {
		r.log.DebugContext(ctx, "no handler for input", "command", in.Command)
		return nil
	}

	return r.applyMiddlewares(h)(ctx, in)
}

func (r *Router) resolve(in Input) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if in.Command != "" {
		if h := r.commands[in.Command]; h != nil {
			return h
		}
		return r.defaultHandler
	}

	if h := r.dispatcher.Handler(); h != nil {
		return h
	}
	return r.defaultHandler
}

// applyMiddlewares wraps the handler with all registered middlewares, first registered outermost.
func (r *Router) applyMiddlewares(h Handler) Handler {
	r.mu.RLock()
	middlewares := append([]Middleware(nil), r.middlewares...)
	r.mu.RUnlock()

	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}
