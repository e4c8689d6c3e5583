package model

// UserRole is the answer of the user-role hook.
type UserRole struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}
