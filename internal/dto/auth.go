package dto

// RegisterRequest captures self-service registration payloads.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role"`
}

// LoginRequest captures credential input.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries the ID token obtained by the Google sign-in button.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}

// SessionUser is the signed-in user as seen by clients.
type SessionUser struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	FullName string  `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginResponse contains the issued access token.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        SessionUser `json:"user"`
}
