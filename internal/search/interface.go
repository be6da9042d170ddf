package search

import (
	"context"

	"forumhub/internal/domain"
)

// SearchService builds filtered views of rooms, topics, and messages from a
// free-text query. An empty query matches everything.
type SearchService interface {
	// Home assembles the home page: matching rooms with their count, the
	// leading topics, and the message feed for matching room names.
	Home(ctx context.Context, query string) (*domain.HomeResponse, error)
	// FilterRooms returns rooms where the query matches the topic name
	// case-insensitively, or the room name or description case-sensitively,
	// together with the match count.
	FilterRooms(ctx context.Context, query string) ([]domain.RoomResponse, int, error)
	// FilterTopics returns topics whose name contains the query
	// case-insensitively.
	FilterTopics(ctx context.Context, query string) ([]domain.TopicResponse, error)
	// FilterMessagesByRoomName returns messages whose parent room name
	// contains the query case-insensitively.
	FilterMessagesByRoomName(ctx context.Context, query string) ([]domain.MessageResponse, error)
}
