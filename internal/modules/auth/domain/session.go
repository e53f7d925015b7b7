package domain

// User is the backend's projection of the authenticated account.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Credentials is what a successful login or registration returns.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Session is the client-side authentication state. User is meaningful only
// while Token is set and was last accepted by the backend.
type Session struct {
	Token string
	User  User
}
