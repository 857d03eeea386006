package models

// User is the profile of an authenticated customer
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RegisterData is the payload for creating an account
type RegisterData struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginData is the payload for password sign-in
type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries the profile fields to change. Empty fields are left
// unchanged by the backend.
type ProfileUpdate struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

// PasswordReset is the payload for completing a password recovery
type PasswordReset struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

// TokenPair holds the credentials issued by a successful authentication
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	TokenPair
	User User `json:"user"`
}
