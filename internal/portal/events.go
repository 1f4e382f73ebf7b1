package portal

import (
	"context"
	"net/url"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// Events fetches campus events, optionally filtered by status
// ("upcoming", "completed").
func (c *Client) Events(ctx context.Context, status string) ([]model.Event, error) {
	path := "/api/events"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var events []model.Event
	if err := c.Get(ctx, path, &events); err != nil {
		return nil, err
	}
	return events, nil
}
