package repository

import (
	"context"
	"time"

	"poultrycore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WastageConfigRepository interface {
	// ActiveFor returns the most recent active config with
	// effective_date <= date for the (bird, target) pair.
	ActiveFor(ctx context.Context, birdType, targetState string, date time.Time) (*model.WastageConfig, error)
	Create(ctx context.Context, w *model.WastageConfig) error
	List(ctx context.Context) ([]model.WastageConfig, error)
	Deactivate(ctx context.Context, id uuid.UUID) (int64, error)
}

type wastageRepo struct{ db *gorm.DB }

func NewWastageConfigRepository(db *gorm.DB) WastageConfigRepository { return &wastageRepo{db: db} }

func (r *wastageRepo) ActiveFor(ctx context.Context, birdType, targetState string, date time.Time) (*model.WastageConfig, error) {
	var w model.WastageConfig
	err := r.db.WithContext(ctx).
		Where("bird_type = ? AND target_state = ? AND is_active AND effective_date <= ?", birdType, targetState, date).
		Order("effective_date DESC").
		First(&w).Error
	return &w, err
}

func (r *wastageRepo) Create(ctx context.Context, w *model.WastageConfig) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *wastageRepo) List(ctx context.Context) ([]model.WastageConfig, error) {
	var configs []model.WastageConfig
	err := r.db.WithContext(ctx).
		Order("bird_type, target_state, effective_date DESC").
		Find(&configs).Error
	return configs, err
}

func (r *wastageRepo) Deactivate(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.WastageConfig{}).
		Where("id = ? AND is_active", id).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
