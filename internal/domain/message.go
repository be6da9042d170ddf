package domain

import (
	"time"
)

// Message is a post inside a room. Messages are immutable except for
// deletion, which only the author may perform.
type Message struct {
	ID             string    `json:"id"`
	RoomID         string    `json:"room_id"`
	RoomName       string    `json:"room_name"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// PostMessageRequest represents a post message request.
type PostMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID             string    `json:"id"`
	RoomID         string    `json:"room_id"`
	RoomName       string    `json:"room_name"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse converts Message to MessageResponse.
func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		RoomID:         m.RoomID,
		RoomName:       m.RoomName,
		AuthorID:       m.AuthorID,
		AuthorUsername: m.AuthorUsername,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}
