package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"forumhub/internal/domain"
	"forumhub/pkg/log"
)

// GormRoomRepository implements RoomRepository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GORM-based room repository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// Create creates a new room.
func (r *GormRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	l := log.Ctx(ctx)

	room.ID = uuid.New().String()

	model := domain.RoomToModel(room)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to create room in db")
		return result.Error
	}

	// Update the domain object with generated timestamps
	room.CreatedAt = model.CreatedAt
	room.UpdatedAt = model.UpdatedAt
	l.Debug().Str(log.FieldRoomID, room.ID).Msg("room created in db")
	return nil
}

// GetByID retrieves a room by ID with its topic, host, and participants.
func (r *GormRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	l := log.Ctx(ctx)

	var model domain.RoomModel
	result := r.db.WithContext(ctx).
		Preload("Topic").
		Preload("Host").
		Preload("Participants").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		l.Error().Err(result.Error).Str(log.FieldRoomID, id).Msg("failed to get room by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// Update overwrites a room's name, topic, and description.
func (r *GormRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).Model(&domain.RoomModel{}).
		Where("id = ?", room.ID).
		Updates(map[string]interface{}{
			"name":        room.Name,
			"topic_id":    room.TopicID,
			"description": room.Description,
		})
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldRoomID, room.ID).Msg("failed to update room in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoomNotFound
	}

	// Get updated timestamp
	var updated domain.RoomModel
	r.db.WithContext(ctx).First(&updated, "id = ?", room.ID)
	room.UpdatedAt = updated.UpdatedAt
	return nil
}

// Delete removes the room row with its messages and participant join rows.
func (r *GormRoomRepository) Delete(ctx context.Context, id string) error {
	l := log.Ctx(ctx)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.RoomModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRoomNotFound
		}

		if err := tx.Delete(&domain.MessageModel{}, "room_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.RoomParticipantModel{}, "room_id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return err
		}
		l.Error().Err(err).Str(log.FieldRoomID, id).Msg("failed to delete room in db")
		return err
	}

	l.Debug().Str(log.FieldRoomID, id).Msg("room deleted in db")
	return nil
}

// Search returns rooms whose topic name, room name, or description contains
// query case-insensitively. Wildcards in the query only widen the match;
// callers applying stricter per-field case rules refine the result.
func (r *GormRoomRepository) Search(ctx context.Context, query string) ([]domain.Room, error) {
	l := log.Ctx(ctx)

	pattern := "%" + strings.ToLower(query) + "%"

	var models []domain.RoomModel
	err := r.db.WithContext(ctx).Model(&domain.RoomModel{}).
		Joins("JOIN topics ON topics.id = rooms.topic_id").
		Where("LOWER(topics.name) LIKE ? OR LOWER(rooms.name) LIKE ? OR LOWER(rooms.description) LIKE ?",
			pattern, pattern, pattern).
		Preload("Topic").
		Preload("Host").
		Order("rooms.created_at DESC").
		Find(&models).Error
	if err != nil {
		l.Error().Err(err).Msg("failed to search rooms from db")
		return nil, err
	}

	rooms := make([]domain.Room, len(models))
	for i := range models {
		rooms[i] = *models[i].ToDomain()
	}
	return rooms, nil
}

// ListByHost retrieves rooms hosted by a user.
func (r *GormRoomRepository) ListByHost(ctx context.Context, hostID string) ([]domain.Room, error) {
	l := log.Ctx(ctx)

	var models []domain.RoomModel
	result := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Preload("Topic").
		Preload("Host").
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldUserID, hostID).Msg("failed to list host rooms from db")
		return nil, result.Error
	}

	rooms := make([]domain.Room, len(models))
	for i := range models {
		rooms[i] = *models[i].ToDomain()
	}
	return rooms, nil
}

// AddParticipant adds a user to the room participant set. The composite
// primary key on the join row makes the insert idempotent.
func (r *GormRoomRepository) AddParticipant(ctx context.Context, roomID, userID string) error {
	l := log.Ctx(ctx)

	row := domain.RoomParticipantModel{
		RoomID: roomID,
		UserID: userID,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Str(log.FieldUserID, userID).
			Msg("failed to add room participant")
		return err
	}
	return nil
}
