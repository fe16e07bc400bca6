package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store interface {
	Create(ctx context.Context, event *RequestEvent) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]RequestEvent, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Migrate creates the request events table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&RequestEvent{})
}

func (s *gormStore) Create(ctx context.Context, event *RequestEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *gormStore) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]RequestEvent, error) {
	var out []RequestEvent
	err := s.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
