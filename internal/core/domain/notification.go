package domain

import "time"

type Verb string

const (
	VerbLike    Verb = "like"
	VerbComment Verb = "comment"
	VerbFollow  Verb = "follow"
)

const (
	TargetPost = "post"
	TargetUser = "user"
)

// Display is the human-readable form shown next to the verb.
func (v Verb) Display() string {
	switch v {
	case VerbLike:
		return "liked your post"
	case VerbComment:
		return "commented on your post"
	case VerbFollow:
		return "started following you"
	default:
		return string(v)
	}
}

type Notification struct {
	ID             string    `json:"id"`
	RecipientID    uint      `json:"recipient_id"`
	ActorID        uint      `json:"actor_id"`
	Verb           Verb      `json:"verb"`
	TargetType     string    `json:"target_type"`
	TargetObjectID uint      `json:"target_object_id"`
	Read           bool      `json:"read"`
	Timestamp      time.Time `json:"timestamp"`
}
