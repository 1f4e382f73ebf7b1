package portal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// Tickets fetches the current user's support tickets, optionally filtered
// by status ("Open", "In Progress", "Resolved", "Closed").
func (c *Client) Tickets(ctx context.Context, status string) ([]model.Ticket, error) {
	path := "/api/tickets"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var tickets []model.Ticket
	if err := c.Get(ctx, path, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Ticket fetches a single ticket by id.
func (c *Client) Ticket(ctx context.Context, id string) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := c.Get(ctx, fmt.Sprintf("/api/tickets/%s", id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicketStatus transitions a ticket to a new status ("Resolved",
// "Closed", ...).
func (c *Client) UpdateTicketStatus(ctx context.Context, id, status string) error {
	path := fmt.Sprintf("/api/tickets/%s", id)
	body := map[string]string{"status": status}
	var resp statusResponse
	return c.Put(ctx, path, body, &resp)
}

// CreateTicket raises a new support ticket and returns its backend id.
func (c *Client) CreateTicket(ctx context.Context, req model.TicketRequest) (string, error) {
	var resp createdResponse
	if err := c.Post(ctx, "/api/tickets", req, &resp); err != nil {
		return "", err
	}
	return resp.TicketID, nil
}
