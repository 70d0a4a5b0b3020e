package models

// UserProfile is the rider record returned by the remote auth endpoints and
// carried through the booking flow to prefill passenger rows.
type UserProfile struct {
	ID          int    `json:"id"`
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateofbirth"`
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the registration form payload.
type RegisterRequest struct {
	Fullname        string `json:"fullname" binding:"required"`
	DateOfBirth     string `json:"dateofbirth" binding:"required"`
	Gender          string `json:"gender" binding:"required"`
	Email           string `json:"email" binding:"required"`
	PhoneNumber     string `json:"phonenumber" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}
