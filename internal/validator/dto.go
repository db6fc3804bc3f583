package validator

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"notblank,max=100"`
	Email    string  `json:"email" validate:"notblank,email,max=150"`
	Password string  `json:"password" validate:"required"`
	Prodi    *string `json:"prodi" validate:"omitempty,max=255"`
	NIM      *string `json:"nim" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type CreatePostRequest struct {
	Title      string   `json:"title" validate:"notblank,max=255"`
	Content    string   `json:"content" validate:"notblank"`
	References []string `json:"references" validate:"omitempty,dive,max=500"`
}

type CreateCommentRequest struct {
	PostID  uint   `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"notblank"`
}
