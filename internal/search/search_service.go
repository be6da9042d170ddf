package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"forumhub/internal/cache"
	"forumhub/internal/domain"
	"forumhub/internal/repository"
	"forumhub/pkg/log"
)

// homeTopicLimit caps the topic list shown on the home page.
const homeTopicLimit = 5

type searchServiceImpl struct {
	rooms    repository.RoomRepository
	topics   repository.TopicRepository
	messages repository.MessageRepository
	cache    cache.SearchCache
	cacheTTL time.Duration
	sf       singleflight.Group
}

// NewSearchService creates a new search service. searchCache may be nil to
// disable caching.
func NewSearchService(
	rooms repository.RoomRepository,
	topics repository.TopicRepository,
	messages repository.MessageRepository,
	searchCache cache.SearchCache,
	cacheTTL time.Duration,
) SearchService {
	return &searchServiceImpl{
		rooms:    rooms,
		topics:   topics,
		messages: messages,
		cache:    searchCache,
		cacheTTL: cacheTTL,
	}
}

// Home assembles the home page payload. The three queries run in parallel;
// identical concurrent searches collapse via singleflight, and results are
// cached when a cache is configured.
func (s *searchServiceImpl) Home(ctx context.Context, query string) (*domain.HomeResponse, error) {
	result, err, _ := s.sf.Do(query, func() (interface{}, error) {
		if s.cache != nil {
			cached, err := s.cache.Get(ctx, query)
			if err == nil {
				return cached, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Msg("cache get error")
			}
		}

		var (
			rooms     []domain.RoomResponse
			roomCount int
			topics    []domain.TopicResponse
			feed      []domain.MessageResponse
		)

		g, gCtx := errgroup.WithContext(ctx)

		g.Go(func() error {
			var err error
			rooms, roomCount, err = s.FilterRooms(gCtx, query)
			return err
		})

		g.Go(func() error {
			all, err := s.FilterTopics(gCtx, "")
			if err != nil {
				return err
			}
			topics = lo.Slice(all, 0, homeTopicLimit)
			return nil
		})

		g.Go(func() error {
			var err error
			feed, err = s.FilterMessagesByRoomName(gCtx, query)
			return err
		})

		if err := g.Wait(); err != nil {
			return nil, err
		}

		resp := &domain.HomeResponse{
			Rooms:     rooms,
			RoomCount: roomCount,
			Topics:    topics,
			Messages:  feed,
		}

		// Stored before returning so a mutation's flush cannot be undone by
		// a late write of this result.
		if s.cache != nil {
			if err := s.cache.Set(ctx, query, resp, s.cacheTTL); err != nil {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Msg("cache set error")
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.HomeResponse), nil
}

// FilterRooms returns rooms matching the query. The repository prefilters
// case-insensitively in SQL; the exact per-field rules are applied here so
// semantics do not depend on driver collation: topic name matches
// case-insensitively, room name and description case-sensitively.
func (s *searchServiceImpl) FilterRooms(ctx context.Context, query string) ([]domain.RoomResponse, int, error) {
	candidates, err := s.rooms.Search(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	lq := strings.ToLower(query)
	matched := lo.Filter(candidates, func(r domain.Room, _ int) bool {
		return strings.Contains(strings.ToLower(r.TopicName), lq) ||
			strings.Contains(r.Name, query) ||
			strings.Contains(r.Description, query)
	})

	rooms := make([]domain.RoomResponse, len(matched))
	for i := range matched {
		rooms[i] = matched[i].ToResponse()
	}
	return rooms, len(rooms), nil
}

// FilterTopics returns topics whose name contains the query
// case-insensitively.
func (s *searchServiceImpl) FilterTopics(ctx context.Context, query string) ([]domain.TopicResponse, error) {
	topics, err := s.topics.List(ctx, query)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.TopicResponse, len(topics))
	for i := range topics {
		resp[i] = topics[i].ToResponse()
	}
	return resp, nil
}

// FilterMessagesByRoomName returns messages whose parent room name contains
// the query case-insensitively.
func (s *searchServiceImpl) FilterMessagesByRoomName(ctx context.Context, query string) ([]domain.MessageResponse, error) {
	candidates, err := s.messages.SearchByRoomName(ctx, query)
	if err != nil {
		return nil, err
	}

	// SQL wildcards in the query can widen the LIKE prefilter; re-check the
	// exact substring rule here.
	lq := strings.ToLower(query)
	matched := lo.Filter(candidates, func(m domain.Message, _ int) bool {
		return strings.Contains(strings.ToLower(m.RoomName), lq)
	})

	msgs := make([]domain.MessageResponse, len(matched))
	for i := range matched {
		msgs[i] = matched[i].ToResponse()
	}
	return msgs, nil
}
