package services

import (
	"fmt"

	"github.com/boboboiiiw/backend-edutrack/internal/models"
)

// InteractionState is what a user currently holds on a post.
type InteractionState string

const (
	StateNone     InteractionState = "none"
	StateLiked    InteractionState = "liked"
	StateDisliked InteractionState = "disliked"
)

// InteractionOp is the row mutation a transition needs.
type InteractionOp int

const (
	OpCreate InteractionOp = iota
	OpDelete
	OpUpdate
)

func (op InteractionOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	case OpUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// InteractionTransition is one row of the like/dislike toggle table.
type InteractionTransition struct {
	Action        models.InteractionType
	From          InteractionState
	To            InteractionState
	Op            InteractionOp
	LikesDelta    int
	DislikesDelta int
	Message       string
}

type toggleMessages struct {
	added    string
	removed  string
	switched string
}

var interactionMessages = map[models.InteractionType]toggleMessages{
	models.InteractionLike: {
		added:    "Post berhasil disukai.",
		removed:  "Like dibatalkan.",
		switched: "Dislike diubah menjadi like.",
	},
	models.InteractionDislike: {
		added:    "Post berhasil tidak disukai.",
		removed:  "Dislike dibatalkan.",
		switched: "Like diubah menjadi dislike.",
	},
}

// StateOf maps a stored interaction to its state; nil means StateNone.
func StateOf(interaction *models.PostInteraction) InteractionState {
	if interaction == nil {
		return StateNone
	}
	return stateFor(interaction.InteractionType)
}

func stateFor(t models.InteractionType) InteractionState {
	if t == models.InteractionDislike {
		return StateDisliked
	}
	return StateLiked
}

// NextInteraction applies action to current. Repeating the held action
// toggles it off; the opposite action flips the stored type.
func NextInteraction(current InteractionState, action models.InteractionType) (InteractionTransition, error) {
	if !action.IsValid() {
		return InteractionTransition{}, fmt.Errorf("unknown interaction action %q", action)
	}

	msgs := interactionMessages[action]
	target := stateFor(action)
	t := InteractionTransition{Action: action, From: current}

	switch current {
	case StateNone:
		t.To = target
		t.Op = OpCreate
		t.Message = msgs.added
		t.addDelta(action, 1)
	case target:
		t.To = StateNone
		t.Op = OpDelete
		t.Message = msgs.removed
		t.addDelta(action, -1)
	case StateLiked, StateDisliked:
		t.To = target
		t.Op = OpUpdate
		t.Message = msgs.switched
		t.addDelta(action, 1)
		t.addDelta(opposite(action), -1)
	default:
		return InteractionTransition{}, fmt.Errorf("unknown interaction state %q", current)
	}

	return t, nil
}

func (t *InteractionTransition) addDelta(kind models.InteractionType, delta int) {
	if kind == models.InteractionLike {
		t.LikesDelta += delta
	} else {
		t.DislikesDelta += delta
	}
}

func opposite(action models.InteractionType) models.InteractionType {
	if action == models.InteractionLike {
		return models.InteractionDislike
	}
	return models.InteractionLike
}
