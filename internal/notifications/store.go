package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// Store is the persistence contract for in-app notifications.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID uuid.UUID, id uint) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Migrate creates the notifications table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Notification{})
}

func (s *gormStore) Create(ctx context.Context, n *Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *gormStore) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, limit, offset int) ([]Notification, error) {
	query := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC")
	if unreadOnly {
		query = query.Where("read = false")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var out []Notification
	err := query.Find(&out).Error
	return out, err
}

func (s *gormStore) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Count(&n).Error
	return n, err
}

func (s *gormStore) MarkRead(ctx context.Context, recipientID uuid.UUID, id uint) error {
	result := s.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return workflow.NotFound("notification %d not found", id)
	}
	return nil
}

func (s *gormStore) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Update("read", true).Error
}
