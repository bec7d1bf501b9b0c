package dto

import "time"

// UserRegisterRequest payload for new visitors.
type UserRegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"date_of_birth"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateDetailsRequest carries the account fields to overwrite. Omitted or blank fields
// are left as they are.
type UpdateDetailsRequest struct {
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	DateOfBirth *string `json:"date_of_birth"`
}

// UserResponse is the visitor's account view.
type UserResponse struct {
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	PhoneNumber     string   `json:"phone_number"`
	DateOfBirth     string   `json:"date_of_birth"`
	PurchaseHistory []string `json:"purchase_history"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
