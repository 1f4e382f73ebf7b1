package model

// Appointment is a meeting booked between a student and a staff member.
type Appointment struct {
	ID                string `json:"_id"`
	StudentEmail      string `json:"student_email"`
	StudentName       string `json:"student_name"`
	Department        string `json:"department"`
	Subject           string `json:"subject"`
	Date              string `json:"date"`
	TimeSlot          string `json:"time_slot"`
	MeetingMode       string `json:"meeting_mode"`
	Notes             string `json:"notes,omitempty"`
	Status            string `json:"status"`
	AssignedStaff     string `json:"assigned_staff,omitempty"`
	AssignedStaffName string `json:"assigned_staff_name,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// AppointmentRequest is the payload for booking a new appointment. The
// booking endpoint is form-based and requires the student identity; an
// empty Staff means "any available staff member".
type AppointmentRequest struct {
	StudentEmail string
	StudentName  string
	Department   string
	Staff        string
	Subject      string
	Date         string
	TimeSlot     string
	MeetingMode  string
	Notes        string
}
