package model

// Notification statuses as reported by the backend. The client never owns
// notification state; it only mirrors what the last fetch returned.
const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

// Notification priorities.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification represents a single alert delivered to the signed-in user
// by the campus backend.
type Notification struct {
	// ID is the backend-assigned identifier.
	ID string `json:"_id"`

	// Type categorizes the notification (e.g., "ticket", "appointment",
	// "survey", "event").
	Type string `json:"type"`

	// Title is the short headline shown in the notification center.
	Title string `json:"title"`

	// Message is the full notification text.
	Message string `json:"message"`

	// Priority is one of "normal", "high", or "urgent".
	Priority string `json:"priority"`

	// Status is "unread" or "read".
	Status string `json:"status"`

	// RelatedID links the notification to its originating record
	// (ticket id, survey id, ...), when present.
	RelatedID string `json:"related_id,omitempty"`

	// Link is an optional portal path to open when the notification is
	// acted on. The backend sometimes stores "#" as a placeholder.
	Link string `json:"link,omitempty"`

	// CreatedAt is the backend's ISO-8601 creation timestamp.
	CreatedAt string `json:"created_at"`
}

// IsUnread reports whether the notification has not been read yet.
func (n Notification) IsUnread() bool {
	return n.Status == NotificationUnread
}

// NavLink returns the notification's navigation target and whether it is
// usable. Empty and placeholder ("#") links are not followed.
func (n Notification) NavLink() (string, bool) {
	if n.Link == "" || n.Link == "#" {
		return "", false
	}
	return n.Link, true
}
