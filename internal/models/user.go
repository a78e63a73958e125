package models

// User represents an authenticated user of the instructor console
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	IsInstructor bool   `json:"is_instructor"`
}

// LoginRequest represents a login request against the auth API
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the payload issued by the auth API on login
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
