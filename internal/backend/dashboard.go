package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/Proton-105/cortex-client/internal/errors"
)

// Token is an access token returned by the login endpoint. Subject and ExpiresAt are read
// from the JWT claims without verifying the signature; they are zero for opaque tokens.
type Token struct {
	AccessToken string
	Type        string
	Subject     string
	ExpiresAt   time.Time
}

// Expired reports whether the token carries an expiry that has passed at now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// User is a backend account.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// SessionRecord is a session stored by the backend.
type SessionRecord struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	Mood            string    `json:"mood,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	DurationSeconds int       `json:"duration_seconds"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type sessionPayload struct {
	DurationSeconds int `json:"duration_seconds"`
}

// Login exchanges credentials for an access token using the password grant.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return Token{}, apperrors.NewValidationError("login credentials are empty", "Username and password are required.")
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("grant_type", "password")

	var resp tokenResponse
	err := c.send(ctx, request{
		name:        "login",
		method:      http.MethodPost,
		path:        "/auth/login",
		contentType: "application/x-www-form-urlencoded",
		body:        []byte(form.Encode()),
	}, &resp)
	if err != nil {
		return Token{}, err
	}

	if resp.AccessToken == "" {
		return Token{}, apperrors.NewExternalAPIError("login", fmt.Errorf("empty access token"))
	}

	return parseToken(resp.AccessToken, resp.TokenType), nil
}

func parseToken(raw, typ string) Token {
	tok := Token{AccessToken: raw, Type: typ}
	if tok.Type == "" {
		tok.Type = "bearer"
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return tok
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tok.ExpiresAt = exp.Time
	}
	if sub, ok := claims["sub"]; ok && sub != nil {
		tok.Subject = fmt.Sprint(sub)
	}

	return tok
}

// Me returns the account that owns token.
func (c *Client) Me(ctx context.Context, token Token) (*User, error) {
	var u User
	if err := c.read(ctx, request{name: "users", method: http.MethodGet, path: "/users/me", token: token.AccessToken}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all backend accounts.
func (c *Client) ListUsers(ctx context.Context, token Token) ([]User, error) {
	var users []User
	if err := c.read(ctx, request{name: "users", method: http.MethodGet, path: "/users/", token: token.AccessToken}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListSessions returns the sessions of the token owner.
func (c *Client) ListSessions(ctx context.Context, token Token) ([]SessionRecord, error) {
	var sessions []SessionRecord
	if err := c.read(ctx, request{name: "sessions", method: http.MethodGet, path: "/sessions/", token: token.AccessToken}, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UploadSession records a completed session for the token owner. The backend stores a row per
// request, so the upload is sent once and never retried. The Idempotency-Key header lets a
// deduplicating proxy or backend drop replays.
func (c *Client) UploadSession(ctx context.Context, token Token, start time.Time, d time.Duration) (*SessionRecord, error) {
	body, err := jsonBody(sessionPayload{DurationSeconds: int(d.Round(time.Second) / time.Second)})
	if err != nil {
		return nil, err
	}

	var rec SessionRecord
	err = c.send(ctx, request{
		name:        "sessions",
		method:      http.MethodPost,
		path:        "/sessions/",
		token:       token.AccessToken,
		contentType: "application/json",
		body:        body,
		header:      map[string]string{"Idempotency-Key": IdempotencyKey(token.Subject, start.UTC().UnixNano(), int64(d))},
	}, &rec)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}
