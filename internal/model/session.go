package model

// User is the account profile returned by the login endpoint.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Session is the authenticated user together with the bearer token
// issued at login.
type Session struct {
	User
	Token string `json:"token"`
}
