package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	apperrors "github.com/Proton-105/cortex-client/internal/errors"
	"github.com/Proton-105/cortex-client/pkg/logger"
)

// ErrorView shows an error message to the user.
type ErrorView interface {
	ShowError(msg string)
}

// CorrelationMiddleware tags every input with a fresh correlation id.
func CorrelationMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, in Input) error {
			return next(logger.WithCorrelationID(ctx), in)
		}
	}
}

// RecoveryMiddleware turns a handler panic into a reported error so the console keeps running.
func RecoveryMiddleware(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, in Input) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.ErrorContext(ctx, "panic recovered in handler", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
					err = fmt.Errorf("panic recovered: %v", r)
				}
			}()

			return next(ctx, in)
		}
	}
}

// ErrorHandlingMiddleware reports handler failures and shows their user message. Validation and
// sign-in errors were already shown by the onboarding flow and are only absorbed. ErrQuit
// passes through.
func ErrorHandlingMiddleware(errHandler *apperrors.Handler, view ErrorView) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, in Input) error {
			err := next(ctx, in)
			if err == nil || errors.Is(err, ErrQuit) {
				return err
			}

			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				if appErr.Code == apperrors.CodeValidation || appErr.Code == apperrors.CodeSignIn {
					return nil
				}
				if view != nil {
					view.ShowError(apperrors.UserMessage(err))
				}
				return nil
			}

			msg := apperrors.UserMessage(err)
			if errHandler != nil {
				msg, _ = errHandler.Handle(ctx, err)
			}
			if view != nil {
				view.ShowError(msg)
			}
			return nil
		}
	}
}

// LoggingMiddleware logs every handled input.
func LoggingMiddleware(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, in Input) error {
			start := time.Now()
			action := in.Command
			if action == "" {
				action = "text"
			}

			err := next(ctx, in)
			log.InfoContext(ctx, "handled input",
				slog.String("action", action),
				slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}
