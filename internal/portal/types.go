package portal

// statusResponse is the generic mutation acknowledgement returned by the
// backend's write endpoints.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// countResponse wraps endpoints that return a single aggregate count.
type countResponse struct {
	Count int `json:"count"`
}

// markAllResponse is returned by the bulk mark-all-read endpoint. Count is
// the number of notifications the backend transitioned.
type markAllResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// createdResponse is returned by creation endpoints that echo the new
// record's identifier.
type createdResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TicketID      string `json:"ticket_id,omitempty"`
	AppointmentID string `json:"appointment_id,omitempty"`
	SurveyID      string `json:"survey_id,omitempty"`
}

// registrationResponse is returned by the course registration endpoint,
// which reports failures in-band rather than via HTTP status.
type registrationResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
