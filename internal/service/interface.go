package service

import (
	"context"
	"errors"

	"forumhub/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrNotRoomHost        = errors.New("you are not the host of this room")
	ErrNotMessageAuthor   = errors.New("you are not the author of this message")
)

// AccountService handles registration, sessions, and profiles.
type AccountService interface {
	// Register creates a user with a lowercase username and establishes a
	// session immediately.
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	// Login authenticates a user. Unknown username and wrong password both
	// surface as ErrInvalidCredentials.
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	// Logout revokes the session.
	Logout(ctx context.Context, sessionID, userID string) error
	// GetProfile returns a user together with their rooms, their messages,
	// and the topic list.
	GetProfile(ctx context.Context, userID string) (*domain.ProfileResponse, error)
	// UpdateProfile updates the actor's own profile fields.
	UpdateProfile(ctx context.Context, actor *domain.User, req *domain.UpdateProfileRequest) (*domain.UserResponse, error)
}

// RoomService handles the room lifecycle.
type RoomService interface {
	// CreateRoom resolves the topic by name (creating it on first use) and
	// creates a room hosted by the actor.
	CreateRoom(ctx context.Context, actor *domain.User, req *domain.CreateRoomRequest) (*domain.RoomResponse, error)
	// GetRoom returns a room with its messages newest-first and its
	// participant set.
	GetRoom(ctx context.Context, roomID string) (*domain.RoomDetailResponse, error)
	// UpdateRoom overwrites name, topic, and description. Only the host may
	// update.
	UpdateRoom(ctx context.Context, actor *domain.User, roomID string, req *domain.UpdateRoomRequest) (*domain.RoomResponse, error)
	// GetRoomForDeletion is the first phase of the two-phase delete: it
	// verifies existence and ownership and returns a confirmation summary
	// without mutating anything.
	GetRoomForDeletion(ctx context.Context, actor *domain.User, roomID string) (*domain.DeleteConfirmation, error)
	// DeleteRoom executes the delete after re-checking ownership.
	DeleteRoom(ctx context.Context, actor *domain.User, roomID string) error
}

// MessageService handles posting and removing messages.
type MessageService interface {
	// PostMessage creates a message in a room and then adds the poster to
	// the room's participant set. The participant update happens only after
	// the message row is committed.
	PostMessage(ctx context.Context, actor *domain.User, roomID string, req *domain.PostMessageRequest) (*domain.MessageResponse, error)
	// GetMessageForDeletion is the first phase of the two-phase delete.
	GetMessageForDeletion(ctx context.Context, actor *domain.User, messageID string) (*domain.DeleteConfirmation, error)
	// DeleteMessage executes the delete after re-checking authorship.
	DeleteMessage(ctx context.Context, actor *domain.User, messageID string) error
	// ActivityFeed returns every message, newest first.
	ActivityFeed(ctx context.Context) ([]domain.MessageResponse, error)
}
