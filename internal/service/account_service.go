package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"forumhub/internal/audit"
	"forumhub/internal/domain"
	"forumhub/internal/repository"
	"forumhub/internal/session"
	"forumhub/pkg/log"
)

// accountServiceImpl implements AccountService.
type accountServiceImpl struct {
	users      repository.UserRepository
	rooms      repository.RoomRepository
	messages   repository.MessageRepository
	topics     repository.TopicRepository
	sessions   session.Store
	sessionTTL time.Duration
}

// NewAccountService creates a new account service.
func NewAccountService(
	users repository.UserRepository,
	rooms repository.RoomRepository,
	messages repository.MessageRepository,
	topics repository.TopicRepository,
	sessions session.Store,
	sessionTTL time.Duration,
) AccountService {
	return &accountServiceImpl{
		users:      users,
		rooms:      rooms,
		messages:   messages,
		topics:     topics,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// Register creates a user and logs them in immediately.
func (s *accountServiceImpl) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		Username:     strings.ToLower(req.Username),
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		l.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	sess, err := s.createSession(ctx, user)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to create session after register")
		return nil, err
	}

	audit.Log(ctx, audit.ActionRegister, user.ID, "user registered")

	return &domain.AuthResponse{
		User:      user.ToResponse(),
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// Login authenticates a user and establishes a session. Both unknown
// usernames and wrong passwords report the same generic failure; the
// distinction is recorded only in the audit log.
func (s *accountServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	username := strings.ToLower(req.Username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			audit.LogWithDetail(ctx, audit.ActionLoginFailed, "", username, "login failed: user not found")
			return nil, ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to get user by username")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.LogWithDetail(ctx, audit.ActionLoginFailed, user.ID, username, "login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	sess, err := s.createSession(ctx, user)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to create session after login")
		return nil, err
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")

	return &domain.AuthResponse{
		User:      user.ToResponse(),
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// Logout revokes the session.
func (s *accountServiceImpl) Logout(ctx context.Context, sessionID, userID string) error {
	l := log.Ctx(ctx)

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to revoke session")
		return err
	}

	audit.Log(ctx, audit.ActionLogout, userID, "user logged out")
	return nil
}

// GetProfile returns the profile page payload for a user.
func (s *accountServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.ProfileResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get user")
		return nil, err
	}

	rooms, err := s.rooms.ListByHost(ctx, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	topics, err := s.topics.List(ctx, "")
	if err != nil {
		return nil, err
	}

	resp := &domain.ProfileResponse{
		User:     user.ToResponse(),
		Rooms:    make([]domain.RoomResponse, len(rooms)),
		Messages: make([]domain.MessageResponse, len(messages)),
		Topics:   make([]domain.TopicResponse, len(topics)),
	}
	for i := range rooms {
		resp.Rooms[i] = rooms[i].ToResponse()
	}
	for i := range messages {
		resp.Messages[i] = messages[i].ToResponse()
	}
	for i := range topics {
		resp.Topics[i] = topics[i].ToResponse()
	}
	return resp, nil
}

// UpdateProfile updates the actor's own profile fields.
func (s *accountServiceImpl) UpdateProfile(ctx context.Context, actor *domain.User, req *domain.UpdateProfileRequest) (*domain.UserResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, actor.ID).Msg("failed to get user for update")
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, actor.ID).Msg("failed to update user")
		return nil, err
	}

	audit.Log(ctx, audit.ActionUpdateProfile, actor.ID, "profile updated")

	resp := user.ToResponse()
	return &resp, nil
}

func (s *accountServiceImpl) createSession(ctx context.Context, user *domain.User) (*session.Session, error) {
	now := time.Now()
	sess := &session.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}
