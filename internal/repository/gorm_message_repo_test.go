package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forumhub/internal/domain"
)

func TestMessageRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	room := seedRoom(t, db, alice, "Python", "Intro to Django", "")

	msg := &domain.Message{RoomID: room.ID, AuthorID: alice.ID, Body: "hello"}
	require.NoError(t, repo.Create(ctx, msg))
	assert.NotEmpty(t, msg.ID)

	got, err := repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Body)
	assert.Equal(t, "alice", got.AuthorUsername)
	assert.Equal(t, "Intro to Django", got.RoomName)
}

func TestMessageRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrMessageNotFound)

	err = repo.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestMessageRepository_ListByRoomNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	room := seedRoom(t, db, alice, "Python", "Intro to Django", "")
	other := seedRoom(t, db, alice, "Go", "Generics", "")

	for _, body := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &domain.Message{RoomID: room.ID, AuthorID: alice.ID, Body: body}))
		advanceClock()
	}
	require.NoError(t, repo.Create(ctx, &domain.Message{RoomID: other.ID, AuthorID: alice.ID, Body: "elsewhere"}))

	msgs, err := repo.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "third", msgs[0].Body)
	assert.Equal(t, "second", msgs[1].Body)
	assert.Equal(t, "first", msgs[2].Body)
}

func TestMessageRepository_ListByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	room := seedRoom(t, db, alice, "Python", "Intro to Django", "")

	require.NoError(t, repo.Create(ctx, &domain.Message{RoomID: room.ID, AuthorID: alice.ID, Body: "from alice"}))
	require.NoError(t, repo.Create(ctx, &domain.Message{RoomID: room.ID, AuthorID: bob.ID, Body: "from bob"}))

	msgs, err := repo.ListByAuthor(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "from bob", msgs[0].Body)
}

func TestMessageRepository_SearchByRoomName(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	django := seedRoom(t, db, alice, "Python", "Intro to Django", "")
	gin := seedRoom(t, db, alice, "Go", "Intro to Gin", "")

	require.NoError(t, repo.Create(ctx, &domain.Message{RoomID: django.ID, AuthorID: alice.ID, Body: "orm tips"}))
	advanceClock()
	require.NoError(t, repo.Create(ctx, &domain.Message{RoomID: gin.ID, AuthorID: alice.ID, Body: "router tips"}))

	msgs, err := repo.SearchByRoomName(ctx, "DJANGO")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "orm tips", msgs[0].Body)

	// Empty query matches every room name.
	msgs, err = repo.SearchByRoomName(ctx, "")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "router tips", msgs[0].Body)
}

func TestMessageRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	room := seedRoom(t, db, alice, "Python", "Intro to Django", "")

	msg := &domain.Message{RoomID: room.ID, AuthorID: alice.ID, Body: "hello"}
	require.NoError(t, repo.Create(ctx, msg))
	require.NoError(t, repo.Delete(ctx, msg.ID))

	_, err := repo.GetByID(ctx, msg.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}
