package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"forumhub/internal/domain"
)

func TestCanModifyRoom(t *testing.T) {
	host := &domain.User{ID: "user-1", Username: "alice"}
	other := &domain.User{ID: "user-2", Username: "bob"}
	room := &domain.Room{ID: "room-1", HostID: "user-1"}

	assert.True(t, CanModifyRoom(host, room))
	assert.False(t, CanModifyRoom(other, room))
	assert.False(t, CanModifyRoom(nil, room))
	assert.False(t, CanModifyRoom(host, nil))
}

func TestCanModifyMessage(t *testing.T) {
	author := &domain.User{ID: "user-1", Username: "alice"}
	other := &domain.User{ID: "user-2", Username: "bob"}
	msg := &domain.Message{ID: "msg-1", AuthorID: "user-1"}

	assert.True(t, CanModifyMessage(author, msg))
	assert.False(t, CanModifyMessage(other, msg))
	assert.False(t, CanModifyMessage(nil, msg))
	assert.False(t, CanModifyMessage(author, nil))
}
