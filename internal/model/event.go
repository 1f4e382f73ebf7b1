package model

// Event is a campus event announced to students and staff.
type Event struct {
	ID             string `json:"_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	EventDate      string `json:"event_date"`
	EventTime      string `json:"event_time,omitempty"`
	Priority       string `json:"priority"`
	TargetAudience string `json:"target_audience"`
	Category       string `json:"category"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}
