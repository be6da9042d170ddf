package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"forumhub/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()

	user := &domain.User{
		Username:     username,
		PasswordHash: "hash",
	}
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

func seedRoom(t *testing.T, db *gorm.DB, host *domain.User, topicName, name, description string) *domain.Room {
	t.Helper()
	ctx := context.Background()

	topic, _, err := NewGormTopicRepository(db).FindOrCreate(ctx, topicName)
	require.NoError(t, err)

	room := &domain.Room{
		TopicID:     topic.ID,
		HostID:      host.ID,
		Name:        name,
		Description: description,
	}
	require.NoError(t, NewGormRoomRepository(db).Create(ctx, room))
	return room
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := &domain.User{Username: "alice", DisplayName: "Alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "hash"}))

	err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByUsername(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	user.DisplayName = "Alice A."
	user.Bio = "gopher"
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", got.DisplayName)
	assert.Equal(t, "gopher", got.Bio)
}

func TestTopicRepository_FindOrCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTopicRepository(db)
	ctx := context.Background()

	topic, created, err := repo.FindOrCreate(ctx, "Python")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, topic.ID)

	again, created, err := repo.FindOrCreate(ctx, "Python")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, topic.ID, again.ID)

	// Topic names are exact: a different case is a different topic.
	other, created, err := repo.FindOrCreate(ctx, "python")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, topic.ID, other.ID)
}

func TestTopicRepository_ListWithRoomCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTopicRepository(db)
	ctx := context.Background()

	host := seedUser(t, db, "alice")
	seedRoom(t, db, host, "Python", "Intro to Django", "")
	seedRoom(t, db, host, "Python", "Asyncio", "")
	seedRoom(t, db, host, "Go", "Generics", "")
	_, _, err := repo.FindOrCreate(ctx, "Rust")
	require.NoError(t, err)

	// Two rooms share Python, so three distinct topics exist.
	topics, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, topics, 3)

	counts := map[string]int{}
	for _, topic := range topics {
		counts[topic.Name] = topic.RoomCount
	}
	assert.Equal(t, 2, counts["Python"])
	assert.Equal(t, 1, counts["Go"])
	assert.Equal(t, 0, counts["Rust"])
}

func TestTopicRepository_ListFilterCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTopicRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Python", "Go", "Rust"} {
		_, _, err := repo.FindOrCreate(ctx, name)
		require.NoError(t, err)
	}

	topics, err := repo.List(ctx, "PYT")
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, "Python", topics[0].Name)

	topics, err = repo.List(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, topics)
}

// Timestamps drive newest-first ordering, so seeds need distinct create times.
func advanceClock() {
	time.Sleep(2 * time.Millisecond)
}
