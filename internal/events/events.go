package events

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

const (
	EventSource  = "edutrack-forum"
	EventVersion = "1.0"

	EventPostInteractionChanged    = "post.interaction.changed"
	EventPostRecommendationChanged = "post.recommendation.changed"
)

// Event is the envelope for every forum event sent to the message bus.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type InteractionChangedEvent struct {
	PostID   uint   `json:"post_id"`
	UserID   uint   `json:"user_id"`
	Action   string `json:"action"`
	From     string `json:"from"`
	To       string `json:"to"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}

type RecommendationChangedEvent struct {
	PostID        uint   `json:"post_id"`
	UserID        uint   `json:"user_id"`
	Recommended   bool   `json:"recommended"`
	RecommendedBy []uint `json:"recommended_by"`
}

// EventPublisher publishes forum events after the change is committed.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
