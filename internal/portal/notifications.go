package portal

import (
	"context"
	"fmt"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// Notifications fetches up to limit notifications for the current user,
// newest first. Ordering authority is the backend; the client does not
// re-sort.
func (c *Client) Notifications(ctx context.Context, limit int) ([]model.Notification, error) {
	path := "/api/notifications"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var notifications []model.Notification
	if err := c.Get(ctx, path, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadCount fetches the user's true unread total from the dedicated
// aggregate endpoint.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.Get(ctx, "/api/notifications/unread/count", &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkNotificationRead transitions a single notification to read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/notifications/%s/read", id)
	var resp statusResponse
	return c.Put(ctx, path, nil, &resp)
}

// DeleteNotification removes a single notification. The notification does
// not need to be unread.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/notifications/%s", id)
	var resp statusResponse
	return c.Delete(ctx, path, &resp)
}

// MarkAllNotificationsRead transitions every unread notification to read in
// one call and returns the backend-reported count of affected records.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	var resp markAllResponse
	if err := c.Put(ctx, "/api/notifications/mark-all-read", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
