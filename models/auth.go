package models

// LoginRequest represents the payload of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
}

type GoogleLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email" conform:"trim,lower"`
}

type ResetPassword struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}
