package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"forumhub/internal/cache"
	"forumhub/internal/domain"
	"forumhub/internal/repository"
)

// fakeCache is an in-memory SearchCache for exercising the cache path
// without redis.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*domain.HomeResponse
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.HomeResponse)}
}

func (f *fakeCache) Get(ctx context.Context, query string) (*domain.HomeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if resp, ok := f.entries[query]; ok {
		return resp, nil
	}
	return nil, cache.ErrCacheMiss
}

func (f *fakeCache) Set(ctx context.Context, query string, result *domain.HomeResponse, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[query] = result
	return nil
}

func (f *fakeCache) Flush(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string]*domain.HomeResponse)
	return nil
}

func (f *fakeCache) Close() error { return nil }

type fixture struct {
	db      *gorm.DB
	service SearchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.UserModel{},
		&domain.TopicModel{},
		&domain.RoomModel{},
		&domain.RoomParticipantModel{},
		&domain.MessageModel{},
	))

	service := NewSearchService(
		repository.NewGormRoomRepository(db),
		repository.NewGormTopicRepository(db),
		repository.NewGormMessageRepository(db),
		nil,
		time.Minute,
	)
	return &fixture{db: db, service: service}
}

func (f *fixture) seedUser(t *testing.T, username string) *domain.User {
	t.Helper()

	user := &domain.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, repository.NewGormUserRepository(f.db).Create(context.Background(), user))
	return user
}

func (f *fixture) seedRoom(t *testing.T, host *domain.User, topicName, name, description string) *domain.Room {
	t.Helper()
	ctx := context.Background()

	topic, _, err := repository.NewGormTopicRepository(f.db).FindOrCreate(ctx, topicName)
	require.NoError(t, err)

	room := &domain.Room{
		TopicID:     topic.ID,
		HostID:      host.ID,
		Name:        name,
		Description: description,
	}
	require.NoError(t, repository.NewGormRoomRepository(f.db).Create(ctx, room))
	return room
}

func (f *fixture) seedMessage(t *testing.T, author *domain.User, room *domain.Room, body string) {
	t.Helper()

	msg := &domain.Message{RoomID: room.ID, AuthorID: author.ID, Body: body}
	require.NoError(t, repository.NewGormMessageRepository(f.db).Create(context.Background(), msg))
}

func TestFilterRooms_TopicMatchesCaseInsensitively(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "alice")
	f.seedRoom(t, alice, "Python", "Intro to Django", "")
	f.seedRoom(t, alice, "Go", "Generics", "")

	rooms, count, err := f.service.FilterRooms(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Intro to Django", rooms[0].Name)
}

func TestFilterRooms_NameAndDescriptionMatchCaseSensitively(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "alice")
	f.seedRoom(t, alice, "Python", "Intro to Django", "web frameworks")

	// Exact-case substring of the name matches.
	rooms, _, err := f.service.FilterRooms(ctx, "Django")
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	// A lowercased name query matches neither the name (case differs) nor
	// the topic, so the room is filtered out.
	rooms, _, err = f.service.FilterRooms(ctx, "django")
	require.NoError(t, err)
	assert.Empty(t, rooms)

	// Same rule for descriptions.
	rooms, _, err = f.service.FilterRooms(ctx, "web frame")
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	rooms, _, err = f.service.FilterRooms(ctx, "Web Frame")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestFilterRooms_EmptyQueryMatchesAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "alice")
	f.seedRoom(t, alice, "Python", "Intro to Django", "")
	f.seedRoom(t, alice, "Go", "Generics", "")

	rooms, count, err := f.service.FilterRooms(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, rooms, 2)
}

func TestFilterTopics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	topicRepo := repository.NewGormTopicRepository(f.db)
	for _, name := range []string{"Python", "Go", "Rust"} {
		_, _, err := topicRepo.FindOrCreate(ctx, name)
		require.NoError(t, err)
	}

	topics, err := f.service.FilterTopics(ctx, "go")
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Go", topics[0].Name)
}

func TestFilterMessagesByRoomName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "alice")
	django := f.seedRoom(t, alice, "Python", "Intro to Django", "")
	gin := f.seedRoom(t, alice, "Go", "Intro to Gin", "")
	f.seedMessage(t, alice, django, "orm tips")
	f.seedMessage(t, alice, gin, "router tips")

	msgs, err := f.service.FilterMessagesByRoomName(ctx, "django")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "orm tips", msgs[0].Body)
}

func TestHome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "alice")
	intro := f.seedRoom(t, alice, "Python", "Intro to Python", "")
	other := f.seedRoom(t, alice, "Go", "Generics", "")
	f.seedMessage(t, alice, intro, "list comprehensions")
	f.seedMessage(t, alice, other, "type params")

	home, err := f.service.Home(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, 1, home.RoomCount)
	require.Len(t, home.Rooms, 1)
	assert.Equal(t, "Intro to Python", home.Rooms[0].Name)
	// The topic list is unfiltered on the home page.
	assert.Len(t, home.Topics, 2)
	// The feed follows the room name, not the topic.
	require.Len(t, home.Messages, 1)
	assert.Equal(t, "list comprehensions", home.Messages[0].Body)
}

func TestHome_FlushDropsCachedResults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fc := newFakeCache()
	roomRepo := repository.NewGormRoomRepository(f.db)
	service := NewSearchService(
		roomRepo,
		repository.NewGormTopicRepository(f.db),
		repository.NewGormMessageRepository(f.db),
		fc,
		time.Minute,
	)

	alice := f.seedUser(t, "alice")
	f.seedRoom(t, alice, "Python", "Intro to Django", "")

	home, err := service.Home(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, home.RoomCount)

	// A new room behind the cached entry is invisible until the flush.
	f.seedRoom(t, alice, "Go", "Generics", "")

	home, err = service.Home(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, home.RoomCount)

	require.NoError(t, fc.Flush(ctx))

	home, err = service.Home(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, home.RoomCount)
}

func TestHome_TopicLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	topicRepo := repository.NewGormTopicRepository(f.db)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		_, _, err := topicRepo.FindOrCreate(ctx, name)
		require.NoError(t, err)
	}

	home, err := f.service.Home(ctx, "")
	require.NoError(t, err)
	assert.Len(t, home.Topics, homeTopicLimit)
}
