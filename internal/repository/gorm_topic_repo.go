package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"forumhub/internal/domain"
	"forumhub/pkg/log"
)

// GormTopicRepository implements TopicRepository using GORM.
type GormTopicRepository struct {
	db *gorm.DB
}

// NewGormTopicRepository creates a new GORM-based topic repository.
func NewGormTopicRepository(db *gorm.DB) *GormTopicRepository {
	return &GormTopicRepository{db: db}
}

// FindOrCreate resolves a topic by exact name, creating it when absent.
// The unique index on name closes the create race: if a concurrent request
// inserts the same name first, the conflict is detected and the winner's
// row is returned.
func (r *GormTopicRepository) FindOrCreate(ctx context.Context, name string) (*domain.Topic, bool, error) {
	l := log.Ctx(ctx)

	var model domain.TopicModel
	err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error
	if err == nil {
		return model.ToDomain(), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	model = domain.TopicModel{
		ID:   uuid.New().String(),
		Name: name,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost the create race; fetch the winner.
			var existing domain.TopicModel
			if err2 := r.db.WithContext(ctx).First(&existing, "name = ?", name).Error; err2 == nil {
				return existing.ToDomain(), false, nil
			}
		}
		l.Error().Err(err).Str(log.FieldTopic, name).Msg("failed to create topic")
		return nil, false, err
	}

	l.Debug().Str(log.FieldTopic, name).Msg("topic created")
	return model.ToDomain(), true, nil
}

// topicRow is the scan target for the topic listing with room counts.
type topicRow struct {
	ID        string
	Name      string
	RoomCount int
	CreatedAt time.Time
}

// List returns topics whose name contains query case-insensitively, each
// with its room count. An empty query matches every topic.
func (r *GormTopicRepository) List(ctx context.Context, query string) ([]domain.Topic, error) {
	l := log.Ctx(ctx)

	pattern := "%" + strings.ToLower(query) + "%"

	var rows []topicRow
	err := r.db.WithContext(ctx).Model(&domain.TopicModel{}).
		Select("topics.id, topics.name, topics.created_at, COUNT(rooms.id) AS room_count").
		Joins("LEFT JOIN rooms ON rooms.topic_id = topics.id").
		Where("LOWER(topics.name) LIKE ?", pattern).
		Group("topics.id, topics.name, topics.created_at").
		Order("topics.name").
		Scan(&rows).Error
	if err != nil {
		l.Error().Err(err).Msg("failed to list topics")
		return nil, err
	}

	topics := make([]domain.Topic, len(rows))
	for i, row := range rows {
		topics[i] = domain.Topic{
			ID:        row.ID,
			Name:      row.Name,
			RoomCount: row.RoomCount,
			CreatedAt: row.CreatedAt,
		}
	}
	return topics, nil
}
