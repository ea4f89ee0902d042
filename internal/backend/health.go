package backend

import (
	"context"
	"fmt"
	"net/http"
)

type healthResponse struct {
	Status string `json:"status"`
}

// HealthCheck calls GET /health once and expects {"status":"ok"}.
func (c *Client) HealthCheck(ctx context.Context) error {
	var resp healthResponse
	if err := c.send(ctx, request{name: "health", method: http.MethodGet, path: "/health"}, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("backend reports status %q", resp.Status)
	}
	return nil
}
