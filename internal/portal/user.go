package portal

import (
	"context"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// CurrentUser resolves the signed-in user for the stored session. Every
// other call is scoped to this user by the backend.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.Get(ctx, "/api/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
