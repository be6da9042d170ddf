package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"forumhub/internal/domain"
	"forumhub/pkg/log"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM-based message repository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create creates a new message.
func (r *GormMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	l := log.Ctx(ctx)

	msg.ID = uuid.New().String()

	model := domain.MessageToModel(msg)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldRoomID, msg.RoomID).Msg("failed to create message in db")
		return result.Error
	}

	msg.CreatedAt = model.CreatedAt
	l.Debug().Str(log.FieldMessageID, msg.ID).Str(log.FieldRoomID, msg.RoomID).Msg("message created in db")
	return nil
}

// GetByID retrieves a message by ID with its room and author.
func (r *GormMessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	l := log.Ctx(ctx)

	var model domain.MessageModel
	result := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Author").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		l.Error().Err(result.Error).Str(log.FieldMessageID, id).Msg("failed to get message by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Delete removes a message row.
func (r *GormMessageRepository) Delete(ctx context.Context, id string) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).Delete(&domain.MessageModel{}, "id = ?", id)
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldMessageID, id).Msg("failed to delete message in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}

	l.Debug().Str(log.FieldMessageID, id).Msg("message deleted in db")
	return nil
}

// ListByRoom returns a room's messages ordered newest first.
func (r *GormMessageRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Message, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("room_id = ?", roomID))
}

// ListByAuthor returns a user's messages ordered newest first.
func (r *GormMessageRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.Message, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("author_id = ?", authorID))
}

// ListAll returns every message, newest first.
func (r *GormMessageRepository) ListAll(ctx context.Context) ([]domain.Message, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

// SearchByRoomName returns messages whose parent room name contains query
// case-insensitively, newest first.
func (r *GormMessageRepository) SearchByRoomName(ctx context.Context, query string) ([]domain.Message, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	tx := r.db.WithContext(ctx).
		Joins("JOIN rooms ON rooms.id = messages.room_id").
		Where("LOWER(rooms.name) LIKE ?", pattern)
	return r.list(ctx, tx)
}

func (r *GormMessageRepository) list(ctx context.Context, tx *gorm.DB) ([]domain.Message, error) {
	l := log.Ctx(ctx)

	var models []domain.MessageModel
	err := tx.Model(&domain.MessageModel{}).
		Preload("Room").
		Preload("Author").
		Order("messages.created_at DESC").
		Find(&models).Error
	if err != nil {
		l.Error().Err(err).Msg("failed to list messages from db")
		return nil, err
	}

	msgs := make([]domain.Message, len(models))
	for i := range models {
		msgs[i] = *models[i].ToDomain()
	}
	return msgs, nil
}
