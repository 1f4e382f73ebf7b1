package portal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// Appointments fetches the current user's appointments.
func (c *Client) Appointments(ctx context.Context) ([]model.Appointment, error) {
	var appointments []model.Appointment
	if err := c.Get(ctx, "/api/appointments", &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// BookAppointment schedules a new appointment and returns its backend id.
// Unlike the rest of the appointment API, booking is a form-based endpoint
// at the backend root. Staff defaults to the backend's admin auto-assign
// sentinel when left empty.
func (c *Client) BookAppointment(ctx context.Context, req model.AppointmentRequest) (string, error) {
	staff := req.Staff
	if staff == "" {
		staff = "auto-assign-admin"
	}

	form := url.Values{
		"student_email":  {req.StudentEmail},
		"student_name":   {req.StudentName},
		"department":     {req.Department},
		"assigned_staff": {staff},
		"subject":        {req.Subject},
		"date":           {req.Date},
		"time_slot":      {req.TimeSlot},
		"meeting_mode":   {req.MeetingMode},
		"notes":          {req.Notes},
	}

	var resp createdResponse
	if err := c.PostForm(ctx, "/book_appointment", form, &resp); err != nil {
		return "", err
	}
	return resp.AppointmentID, nil
}

// CancelAppointment cancels an existing appointment.
func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/appointments/cancel/%s", id)
	var resp statusResponse
	return c.Post(ctx, path, nil, &resp)
}

// RescheduleAppointment moves an appointment to a new date and time slot.
func (c *Client) RescheduleAppointment(ctx context.Context, id, newDate, newTime string) error {
	path := fmt.Sprintf(
		"/api/appointments/reschedule/%s?new_date=%s&new_time=%s",
		id, url.QueryEscape(newDate), url.QueryEscape(newTime),
	)
	var resp statusResponse
	return c.Post(ctx, path, nil, &resp)
}
