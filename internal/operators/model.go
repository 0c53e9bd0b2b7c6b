package operators

import "time"

// Operator represents a logistics operator account able to issue gatepasses.
type Operator struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the body for POST /operators/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /operators/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on register / login.
type AuthResponse struct {
	Token    string    `json:"token"`
	Operator *Operator `json:"operator,omitempty"`
}
