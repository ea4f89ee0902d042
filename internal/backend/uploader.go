package backend

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const uploadTask = "session_upload"

// SessionUploader sends completed sessions to the backend on behalf of a dashboard account.
// It implements session.Recorder; uploads run on the dispatcher and never block the clock.
type SessionUploader struct {
	client     *Client
	dispatcher *Dispatcher
	username   string
	password   string
	log        *slog.Logger
	now        func() time.Time

	mu    sync.Mutex
	token Token
}

// NewSessionUploader logs in lazily with the given credentials before the first upload.
func NewSessionUploader(client *Client, dispatcher *Dispatcher, username, password string, log *slog.Logger) *SessionUploader {
	if log == nil {
		log = slog.Default()
	}

	return &SessionUploader{
		client:     client,
		dispatcher: dispatcher,
		username:   username,
		password:   password,
		log:        log,
		now:        time.Now,
	}
}

func (u *SessionUploader) SessionStarted(time.Time) {}

// SessionEnded schedules the upload of a finished session.
func (u *SessionUploader) SessionEnded(start time.Time, d time.Duration) {
	u.dispatcher.Go(context.Background(), uploadTask, func(ctx context.Context) error {
		tok, err := u.currentToken(ctx)
		if err != nil {
			return err
		}

		rec, err := u.client.UploadSession(ctx, tok, start, d)
		if err != nil {
			return err
		}

		u.log.DebugContext(ctx, "session uploaded", "session_id", rec.ID, "duration", d)
		return nil
	})
}

func (u *SessionUploader) currentToken(ctx context.Context) (Token, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.token.AccessToken != "" && !u.token.Expired(u.now()) {
		return u.token, nil
	}

	tok, err := u.client.Login(ctx, u.username, u.password)
	if err != nil {
		return Token{}, err
	}

	u.token = tok
	return tok, nil
}
