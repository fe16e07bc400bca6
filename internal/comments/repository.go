package comments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]Comment, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Migrate creates the comments table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Comment{})
}

func (r *gormRepository) Create(ctx context.Context, comment *Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *gormRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]Comment, error) {
	var out []Comment
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
