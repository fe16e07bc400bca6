package requests

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

// Filter narrows a request listing.
type Filter struct {
	Statuses      []workflow.Status
	RequesterID   *uuid.UUID
	DesignerID    *uuid.UUID
	Unassigned    bool
	UpdatedBefore *time.Time
	Limit         int
	Offset        int
}

type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)

	// GetForUpdate reads the row under a FOR UPDATE lock. Only meaningful
	// inside Transaction: two concurrent transitions serialize on the row
	// instead of both validating against the same stale status.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Request, error)
	List(ctx context.Context, filter Filter) ([]Request, int64, error)
	Update(ctx context.Context, req *Request) error
	NextCodeNumber(ctx context.Context, year int) (int64, error)

	// Transaction runs fn against a repository bound to one database
	// transaction. Together with GetForUpdate this makes a
	// read-validate-apply-write round trip an atomically visible unit per
	// request record.
	Transaction(ctx context.Context, fn func(Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Migrate creates the request tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Request{}, &RequestCounter{})
}

func (r *gormRepository) Create(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *gormRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *gormRepository) List(ctx context.Context, filter Filter) ([]Request, int64, error) {
	query := r.db.WithContext(ctx).Model(&Request{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.RequesterID != nil {
		query = query.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.DesignerID != nil {
		query = query.Where("designer_id = ?", *filter.DesignerID)
	}
	if filter.Unassigned {
		query = query.Where("designer_id IS NULL")
	}
	if filter.UpdatedBefore != nil {
		query = query.Where("updated_at < ?", *filter.UpdatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var out []Request
	if err := query.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *gormRepository) Update(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *gormRepository) NextCodeNumber(ctx context.Context, year int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO request_counters (year, value) VALUES (?, 1)
		ON CONFLICT (year) DO UPDATE SET value = request_counters.value + 1
		RETURNING value`, year).Scan(&n).Error
	return n, err
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}
