package service

import (
	"context"
	"errors"
	"time"

	"forumhub/internal/audit"
	"forumhub/internal/cache"
	"forumhub/internal/domain"
	"forumhub/internal/policy"
	"forumhub/internal/repository"
	"forumhub/pkg/log"
)

// confirmLabelLen caps the message preview shown in delete confirmations.
const confirmLabelLen = 50

// messageServiceImpl implements MessageService.
type messageServiceImpl struct {
	messages    repository.MessageRepository
	rooms       repository.RoomRepository
	searchCache cache.SearchCache
}

// NewMessageService creates a new message service. searchCache may be nil
// when caching is disabled.
func NewMessageService(
	messages repository.MessageRepository,
	rooms repository.RoomRepository,
	searchCache cache.SearchCache,
) MessageService {
	return &messageServiceImpl{
		messages:    messages,
		rooms:       rooms,
		searchCache: searchCache,
	}
}

// PostMessage creates a message in a room and adds the poster to the room's
// participant set. The participant add runs only after the message row is
// committed; if the insert fails the participant set is untouched.
func (s *messageServiceImpl) PostMessage(ctx context.Context, actor *domain.User, roomID string, req *domain.PostMessageRequest) (*domain.MessageResponse, error) {
	l := log.Ctx(ctx)

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	msg := &domain.Message{
		RoomID:         room.ID,
		RoomName:       room.Name,
		AuthorID:       actor.ID,
		AuthorUsername: actor.Username,
		Body:           req.Body,
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.rooms.AddParticipant(ctx, room.ID, actor.ID); err != nil {
		// The message is already durable; participation catches up the next
		// time the user posts.
		l.Warn().Err(err).Str(log.FieldRoomID, room.ID).Str(log.FieldUserID, actor.ID).
			Msg("failed to add participant after post")
	}

	audit.Log(ctx, audit.ActionPostMessage, actor.ID, "message posted")
	s.invalidateSearch()

	resp := msg.ToResponse()
	return &resp, nil
}

// GetMessageForDeletion verifies existence and authorship and returns the
// confirmation summary. Nothing is mutated.
func (s *messageServiceImpl) GetMessageForDeletion(ctx context.Context, actor *domain.User, messageID string) (*domain.DeleteConfirmation, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	if !policy.CanModifyMessage(actor, msg) {
		return nil, ErrNotMessageAuthor
	}

	// Truncate on rune boundaries so multi-byte bodies stay valid UTF-8.
	label := msg.Body
	if runes := []rune(label); len(runes) > confirmLabelLen {
		label = string(runes[:confirmLabelLen])
	}

	return &domain.DeleteConfirmation{
		Kind:  "message",
		ID:    msg.ID,
		Label: label,
	}, nil
}

// DeleteMessage executes the delete after re-checking authorship.
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, actor *domain.User, messageID string) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	if !policy.CanModifyMessage(actor, msg) {
		return ErrNotMessageAuthor
	}

	if err := s.messages.Delete(ctx, messageID); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	audit.Log(ctx, audit.ActionDeleteMessage, actor.ID, "message deleted")
	s.invalidateSearch()
	return nil
}

// ActivityFeed returns every message, newest first.
func (s *messageServiceImpl) ActivityFeed(ctx context.Context) ([]domain.MessageResponse, error) {
	messages, err := s.messages.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.MessageResponse, len(messages))
	for i := range messages {
		resp[i] = messages[i].ToResponse()
	}
	return resp, nil
}

// invalidateSearch drops cached search results after a mutation. Best
// effort: a failure only delays freshness until the cache TTL.
func (s *messageServiceImpl) invalidateSearch() {
	if s.searchCache == nil {
		return
	}
	go func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.searchCache.Flush(flushCtx); err != nil {
			l := log.L()
			l.Warn().Err(err).Msg("failed to flush search cache")
		}
	}()
}
