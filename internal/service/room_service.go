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

// roomServiceImpl implements RoomService.
type roomServiceImpl struct {
	rooms       repository.RoomRepository
	topics      repository.TopicRepository
	messages    repository.MessageRepository
	searchCache cache.SearchCache
}

// NewRoomService creates a new room service. searchCache may be nil when
// caching is disabled.
func NewRoomService(
	rooms repository.RoomRepository,
	topics repository.TopicRepository,
	messages repository.MessageRepository,
	searchCache cache.SearchCache,
) RoomService {
	return &roomServiceImpl{
		rooms:       rooms,
		topics:      topics,
		messages:    messages,
		searchCache: searchCache,
	}
}

// CreateRoom creates a room hosted by the actor. The topic is resolved by
// exact name, created on first use.
func (s *roomServiceImpl) CreateRoom(ctx context.Context, actor *domain.User, req *domain.CreateRoomRequest) (*domain.RoomResponse, error) {
	l := log.Ctx(ctx)

	topic, created, err := s.topics.FindOrCreate(ctx, req.Topic)
	if err != nil {
		return nil, err
	}
	if created {
		l.Debug().Str(log.FieldTopic, topic.Name).Msg("new topic created for room")
	}

	room := &domain.Room{
		TopicID:      topic.ID,
		TopicName:    topic.Name,
		HostID:       actor.ID,
		HostUsername: actor.Username,
		Name:         req.Name,
		Description:  req.Description,
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.ActionCreateRoom, actor.ID, "room created")
	s.invalidateSearch()

	resp := room.ToResponse()
	return &resp, nil
}

// GetRoom returns the room page payload.
func (s *roomServiceImpl) GetRoom(ctx context.Context, roomID string) (*domain.RoomDetailResponse, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	messages, err := s.messages.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	resp := &domain.RoomDetailResponse{
		Room:         room.ToResponse(),
		Messages:     make([]domain.MessageResponse, len(messages)),
		Participants: make([]domain.UserResponse, len(room.Participants)),
	}
	for i := range messages {
		resp.Messages[i] = messages[i].ToResponse()
	}
	for i := range room.Participants {
		resp.Participants[i] = room.Participants[i].ToResponse()
	}
	return resp, nil
}

// UpdateRoom overwrites a room's name, topic, and description.
func (s *roomServiceImpl) UpdateRoom(ctx context.Context, actor *domain.User, roomID string, req *domain.UpdateRoomRequest) (*domain.RoomResponse, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if !policy.CanModifyRoom(actor, room) {
		return nil, ErrNotRoomHost
	}

	topic, _, err := s.topics.FindOrCreate(ctx, req.Topic)
	if err != nil {
		return nil, err
	}

	room.Name = req.Name
	room.Description = req.Description
	room.TopicID = topic.ID
	room.TopicName = topic.Name

	if err := s.rooms.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	audit.Log(ctx, audit.ActionUpdateRoom, actor.ID, "room updated")
	s.invalidateSearch()

	resp := room.ToResponse()
	return &resp, nil
}

// GetRoomForDeletion verifies existence and ownership and returns the
// confirmation summary. Nothing is mutated.
func (s *roomServiceImpl) GetRoomForDeletion(ctx context.Context, actor *domain.User, roomID string) (*domain.DeleteConfirmation, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if !policy.CanModifyRoom(actor, room) {
		return nil, ErrNotRoomHost
	}

	return &domain.DeleteConfirmation{
		Kind:  "room",
		ID:    room.ID,
		Label: room.Name,
	}, nil
}

// DeleteRoom executes the delete. Ownership is re-checked so the confirm
// phase cannot be skipped or replayed by a different actor.
func (s *roomServiceImpl) DeleteRoom(ctx context.Context, actor *domain.User, roomID string) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	if !policy.CanModifyRoom(actor, room) {
		return ErrNotRoomHost
	}

	if err := s.rooms.Delete(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	audit.Log(ctx, audit.ActionDeleteRoom, actor.ID, "room deleted")
	s.invalidateSearch()
	return nil
}

// invalidateSearch drops cached search results after a mutation. Best
// effort: a failure only delays freshness until the cache TTL.
func (s *roomServiceImpl) invalidateSearch() {
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
