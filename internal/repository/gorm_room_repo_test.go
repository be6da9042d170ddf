package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forumhub/internal/domain"
)

func TestRoomRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	host := seedUser(t, db, "alice")
	room := seedRoom(t, db, host, "Python", "Intro to Django", "web frameworks")

	got, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Django", got.Name)
	assert.Equal(t, "Python", got.TopicName)
	assert.Equal(t, "alice", got.HostUsername)
	assert.Empty(t, got.Participants)
}

func TestRoomRepository_GetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRoomRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	host := seedUser(t, db, "alice")
	room := seedRoom(t, db, host, "Python", "Intro to Django", "")

	topic, _, err := NewGormTopicRepository(db).FindOrCreate(ctx, "Go")
	require.NoError(t, err)

	room.Name = "Intro to Gin"
	room.TopicID = topic.ID
	room.Description = "routers"
	require.NoError(t, repo.Update(ctx, room))

	got, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Gin", got.Name)
	assert.Equal(t, "Go", got.TopicName)
	assert.Equal(t, "routers", got.Description)

	err = repo.Update(ctx, &domain.Room{ID: "missing", Name: "x", TopicID: topic.ID})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomRepository_SearchMatchesAllFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	host := seedUser(t, db, "alice")
	seedRoom(t, db, host, "Python", "Intro to Django", "")
	advanceClock()
	seedRoom(t, db, host, "Go", "Concurrency patterns", "")
	advanceClock()
	seedRoom(t, db, host, "Databases", "Modeling", "python ORMs compared")

	// Matches topic name and description, case-insensitively.
	rooms, err := repo.Search(ctx, "PYTHON")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	// Newest first.
	assert.Equal(t, "Modeling", rooms[0].Name)
	assert.Equal(t, "Intro to Django", rooms[1].Name)

	// Matches room name.
	rooms, err = repo.Search(ctx, "concurrency")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Go", rooms[0].TopicName)

	// Empty query matches everything.
	rooms, err = repo.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rooms, 3)

	rooms, err = repo.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestRoomRepository_ListByHost(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedRoom(t, db, alice, "Python", "Intro to Django", "")
	advanceClock()
	seedRoom(t, db, alice, "Go", "Generics", "")
	seedRoom(t, db, bob, "Go", "Channels", "")

	rooms, err := repo.ListByHost(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Generics", rooms[0].Name)
	assert.Equal(t, "Intro to Django", rooms[1].Name)
}

func TestRoomRepository_AddParticipantIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	host := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	room := seedRoom(t, db, host, "Python", "Intro to Django", "")

	require.NoError(t, repo.AddParticipant(ctx, room.ID, bob.ID))
	require.NoError(t, repo.AddParticipant(ctx, room.ID, bob.ID))
	require.NoError(t, repo.AddParticipant(ctx, room.ID, host.ID))

	got, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participants, 2)
}

func TestRoomRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRoomRepository(db)
	msgRepo := NewGormMessageRepository(db)
	ctx := context.Background()

	host := seedUser(t, db, "alice")
	room := seedRoom(t, db, host, "Python", "Intro to Django", "")
	keep := seedRoom(t, db, host, "Go", "Generics", "")

	require.NoError(t, msgRepo.Create(ctx, &domain.Message{RoomID: room.ID, AuthorID: host.ID, Body: "hello"}))
	require.NoError(t, msgRepo.Create(ctx, &domain.Message{RoomID: keep.ID, AuthorID: host.ID, Body: "other"}))
	require.NoError(t, repo.AddParticipant(ctx, room.ID, host.ID))

	require.NoError(t, repo.Delete(ctx, room.ID))

	_, err := repo.GetByID(ctx, room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	msgs, err := msgRepo.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	var joinCount int64
	require.NoError(t, db.Model(&domain.RoomParticipantModel{}).Where("room_id = ?", room.ID).Count(&joinCount).Error)
	assert.Zero(t, joinCount)

	// The sibling room and its message survive.
	msgs, err = msgRepo.ListByRoom(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	err = repo.Delete(ctx, room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
