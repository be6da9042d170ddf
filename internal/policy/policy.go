// Package policy holds the ownership predicates guarding every room and
// message mutation. The predicates are pure and total: a nil actor is
// simply not an owner.
package policy

import (
	"forumhub/internal/domain"
)

// CanModifyRoom reports whether actor may update or delete room.
// Only the host may modify a room.
func CanModifyRoom(actor *domain.User, room *domain.Room) bool {
	if actor == nil || room == nil {
		return false
	}
	return actor.ID == room.HostID
}

// CanModifyMessage reports whether actor may delete msg.
// Only the author may remove a message.
func CanModifyMessage(actor *domain.User, msg *domain.Message) bool {
	if actor == nil || msg == nil {
		return false
	}
	return actor.ID == msg.AuthorID
}
