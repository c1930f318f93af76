package dto

// RegisterRequest is the JSON body for POST /register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=120"`
	Email    string `json:"email" binding:"required,min=3,max=254"`
	Password string `json:"password" binding:"required,min=1"`
}

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the opaque session token issued on login.
type LoginResponse struct {
	SessionKey string `json:"session_key"`
}

// UpdateProfileRequest is the JSON body for PATCH /user.
// nil = не менять, значение = поставить.
type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=120"`
	Email    *string `json:"email" binding:"omitempty,min=3,max=254"`
	Password *string `json:"password" binding:"omitempty,min=1"`
}

// ProfileResponse is returned by GET /user. UpdateAt is a human-readable
// timestamp string, not RFC3339.
type ProfileResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	UpdateAt string `json:"update_at"`
}
