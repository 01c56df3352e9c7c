package model

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Username string `json:"username"`
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

type CreateTodoRequest struct {
	Text    string `json:"text"`
	Details string `json:"details"`
}
