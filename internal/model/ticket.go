package model

// Ticket is a support request raised by a student.
type Ticket struct {
	ID             string `json:"_id"`
	StudentEmail   string `json:"student_email"`
	StudentName    string `json:"student_name"`
	Subject        string `json:"subject"`
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	AssignedStaff  string `json:"assigned_staff,omitempty"`
	AssignedToName string `json:"assigned_to_name,omitempty"`
	CreatedAt      string `json:"created_at"`
	LastUpdated    string `json:"last_updated"`
}

// TicketRequest is the payload for creating a new support ticket. The
// backend fills in the student identity from the session.
type TicketRequest struct {
	Subject     string `json:"subject"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}
