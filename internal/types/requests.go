package types

// CredentialsRequest is the body of POST /signup and POST /login. Both form
// and JSON encodings are accepted.
type CredentialsRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// MessageResponse carries a user-facing status message
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is returned by a successful POST /login
type LoginResponse struct {
	Message   string `json:"message"`
	UserEmail string `json:"user_email"`
}

// AuthPageResponse describes the sign-in page to an anonymous visitor
type AuthPageResponse struct {
	Page   string `json:"page"`
	Signup string `json:"signup"`
	Login  string `json:"login"`
}

// DashboardResponse is returned by GET /dashboard for a signed-in user
type DashboardResponse struct {
	UserEmail string `json:"user_email"`
}
