package portal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// Courses fetches the course catalog for an academic term.
func (c *Client) Courses(ctx context.Context, term string) ([]model.Course, error) {
	var courses []model.Course
	path := fmt.Sprintf("/api/courses/%s", url.PathEscape(term))
	if err := c.Get(ctx, path, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// RegisterCourse registers the student into a course. The endpoint reports
// validation failures in-band; those are normalized to a ServerError.
func (c *Client) RegisterCourse(ctx context.Context, reg model.CourseRegistration) error {
	var resp registrationResponse
	if err := c.Post(ctx, "/api/register_course", reg, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return &ServerError{StatusCode: 400, Message: resp.Error}
	}
	return nil
}

// RegisteredCourses fetches the courses the student is registered in.
func (c *Client) RegisteredCourses(ctx context.Context, email string) ([]model.Course, error) {
	path := fmt.Sprintf("/api/registered_courses/%s", url.PathEscape(email))

	// The backend returns registration records with the course embedded
	// under course_details.
	var registrations []struct {
		CourseDetails model.Course `json:"course_details"`
	}
	if err := c.Get(ctx, path, &registrations); err != nil {
		return nil, err
	}

	courses := make([]model.Course, 0, len(registrations))
	for _, r := range registrations {
		courses = append(courses, r.CourseDetails)
	}
	return courses, nil
}
