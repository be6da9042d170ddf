package domain

import (
	"time"
)

// Room is a discussion room. It belongs to exactly one topic and one host;
// participants are the users who posted in it (or were explicitly added).
type Room struct {
	ID           string    `json:"id"`
	TopicID      string    `json:"topic_id"`
	TopicName    string    `json:"topic"`
	HostID       string    `json:"host_id"`
	HostUsername string    `json:"host_username"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Participants []User    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateRoomRequest represents a create room request. The topic is referenced
// by name and created on first use.
type CreateRoomRequest struct {
	Topic       string `json:"topic" binding:"required,min=1,max=100"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description"`
}

// UpdateRoomRequest represents an update room request. Updates overwrite
// name, topic, and description wholesale.
type UpdateRoomRequest struct {
	Topic       string `json:"topic" binding:"required,min=1,max=100"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description"`
}

// SearchRoomsRequest represents a room search request. An absent query is
// normalized to the empty string, which matches every room.
type SearchRoomsRequest struct {
	Query string `form:"q"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	HostID       string    `json:"host_id"`
	HostUsername string    `json:"host_username"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoomDetailResponse is the room page payload: the room, its messages
// newest-first, and its participant set.
type RoomDetailResponse struct {
	Room         RoomResponse      `json:"room"`
	Messages     []MessageResponse `json:"messages"`
	Participants []UserResponse    `json:"participants"`
}

// HomeResponse is the home page payload: rooms matching the query with their
// count, the leading topics, and the message feed for matching room names.
type HomeResponse struct {
	Rooms     []RoomResponse    `json:"rooms"`
	RoomCount int               `json:"room_count"`
	Topics    []TopicResponse   `json:"topics"`
	Messages  []MessageResponse `json:"messages"`
}

// DeleteConfirmation is the first phase of a two-phase delete: a summary of
// what would be removed, returned only after ownership has been verified.
type DeleteConfirmation struct {
	Kind  string `json:"kind"` // "room" or "message"
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ToResponse converts Room to RoomResponse.
func (r *Room) ToResponse() RoomResponse {
	return RoomResponse{
		ID:           r.ID,
		Topic:        r.TopicName,
		HostID:       r.HostID,
		HostUsername: r.HostUsername,
		Name:         r.Name,
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
