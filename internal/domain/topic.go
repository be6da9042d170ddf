package domain

import (
	"time"
)

// Topic is a discussion category. Topics are created lazily the first time
// a room references a new topic name and are never deleted.
type Topic struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RoomCount int       `json:"room_count"`
	CreatedAt time.Time `json:"created_at"`
}

// TopicResponse represents a topic in API responses.
type TopicResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RoomCount int    `json:"room_count"`
}

// ListTopicsRequest represents a topic search request.
type ListTopicsRequest struct {
	Query string `form:"q"`
}

// ToResponse converts Topic to TopicResponse.
func (t *Topic) ToResponse() TopicResponse {
	return TopicResponse{
		ID:        t.ID,
		Name:      t.Name,
		RoomCount: t.RoomCount,
	}
}
