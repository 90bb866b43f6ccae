package request

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Identity        string `json:"identity"`
	DisplayName     string `json:"display_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the request body for setting a new password,
// either while logged in or with a reset token
type ChangePasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// PasswordResetRequest is the request body for requesting a reset link
type PasswordResetRequest struct {
	Identity string `json:"identity"`
}
