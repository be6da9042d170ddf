package repository

import (
	"context"
	"errors"

	"forumhub/internal/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameExists  = errors.New("username already exists")
	ErrRoomNotFound    = errors.New("room not found")
	ErrMessageNotFound = errors.New("message not found")
)

// UserRepository defines user data access.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// TopicRepository defines topic data access.
type TopicRepository interface {
	// FindOrCreate resolves a topic by exact name, creating it when absent.
	// The bool result reports whether a new topic row was created.
	FindOrCreate(ctx context.Context, name string) (*domain.Topic, bool, error)
	// List returns topics whose name contains query case-insensitively,
	// each with its room count. An empty query matches every topic.
	List(ctx context.Context, query string) ([]domain.Topic, error)
}

// RoomRepository defines room data access.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	// GetByID loads a room with its topic, host, and participants.
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	// Delete removes the room row together with its messages and
	// participant join rows.
	Delete(ctx context.Context, id string) error
	// Search returns rooms whose topic name, room name, or description
	// contains query case-insensitively. Callers needing stricter per-field
	// case rules refine the result.
	Search(ctx context.Context, query string) ([]domain.Room, error)
	ListByHost(ctx context.Context, hostID string) ([]domain.Room, error)
	// AddParticipant adds a user to the room participant set. Adding an
	// existing participant is a no-op.
	AddParticipant(ctx context.Context, roomID, userID string) error
}

// MessageRepository defines message data access.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	Delete(ctx context.Context, id string) error
	// ListByRoom returns a room's messages ordered newest first.
	ListByRoom(ctx context.Context, roomID string) ([]domain.Message, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Message, error)
	// ListAll returns every message, newest first.
	ListAll(ctx context.Context) ([]domain.Message, error)
	// SearchByRoomName returns messages whose parent room name contains
	// query case-insensitively, newest first.
	SearchByRoomName(ctx context.Context, query string) ([]domain.Message, error)
}
