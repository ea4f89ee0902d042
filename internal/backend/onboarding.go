package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Proton-105/cortex-client/internal/domain"
)

// Notifier receives the onboarding notification for a newly created profile.
type Notifier interface {
	NotifyOnboarding(ctx context.Context, p *domain.UserProfile) error
}

type onboardingPayload struct {
	ClientUserID string `json:"client_user_id"`
	DisplayName  string `json:"display_name"`
	Age          int    `json:"age"`
}

// OnboardingRecord is the backend's copy of a client profile.
type OnboardingRecord struct {
	ID           int    `json:"id"`
	ClientUserID string `json:"client_user_id"`
	DisplayName  string `json:"display_name"`
	Age          int    `json:"age"`
}

// NotifyOnboarding posts the profile to {api_base}/onboarding/. It makes a single attempt and
// does not read the response body.
func (c *Client) NotifyOnboarding(ctx context.Context, p *domain.UserProfile) error {
	body, err := jsonBody(onboardingPayload{
		ClientUserID: p.ID,
		DisplayName:  p.DisplayName,
		Age:          p.Age,
	})
	if err != nil {
		return err
	}

	err = c.send(ctx, request{
		name:        "onboarding",
		method:      http.MethodPost,
		path:        "/onboarding/",
		contentType: "application/json",
		body:        body,
	}, nil)
	if err != nil {
		return err
	}

	c.log.DebugContext(ctx, "onboarding notification delivered", "client_user_id", p.ID)
	return nil
}

// GetOnboarding fetches the backend record for a client profile id.
func (c *Client) GetOnboarding(ctx context.Context, clientUserID string) (*OnboardingRecord, error) {
	var rec OnboardingRecord
	err := c.read(ctx, request{
		name:   "onboarding",
		method: http.MethodGet,
		path:   "/onboarding/" + url.PathEscape(clientUserID),
	}, &rec)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}
