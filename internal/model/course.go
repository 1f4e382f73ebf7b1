package model

// Course is a catalog entry for a given academic term.
type Course struct {
	ID         string `json:"_id"`
	Code       string `json:"course_code"`
	Name       string `json:"course_name"`
	Term       string `json:"term"`
	Instructor string `json:"instructor,omitempty"`
	Schedule   string `json:"schedule,omitempty"`
	Credits    int    `json:"credits,omitempty"`
}

// CourseRegistration is the payload for registering the student into a
// course for a term.
type CourseRegistration struct {
	StudentEmail string `json:"student_email"`
	CourseID     string `json:"course_id"`
	Term         string `json:"term"`
}
