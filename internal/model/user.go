package model

// User is the signed-in portal user, resolved once at startup and used to
// scope every backend call.
type User struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
}
