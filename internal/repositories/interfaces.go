package repositories

import (
	"errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// ===== SHARED FILTER STRUCTS =====

type PostFilters struct {
	AuthorID *uint `json:"author_id"`
	Limit    int   `json:"limit"`
	Offset   int   `json:"offset"`
}

type CommentFilters struct {
	PostID uint `json:"post_id"`
	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
}
