package models

type InteractionType string

const (
	InteractionLike    InteractionType = "like"
	InteractionDislike InteractionType = "dislike"
)

func (t InteractionType) IsValid() bool {
	return t == InteractionLike || t == InteractionDislike
}

// PostInteraction records the single like or dislike a user holds on a post.
type PostInteraction struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;uniqueIndex:_user_post_uc"`
	PostID          uint            `json:"post_id" gorm:"not null;uniqueIndex:_user_post_uc;index"`
	InteractionType InteractionType `json:"interaction_type" gorm:"not null;size:10"`
}

func (PostInteraction) TableName() string {
	return "post_interactions"
}
