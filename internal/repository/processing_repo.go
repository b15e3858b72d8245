package repository

import (
	"context"
	"time"

	"poultrycore/internal/dto"
	"poultrycore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserWeight is an aggregation row: total kg attributed to one user.
type UserWeight struct {
	UserID uuid.UUID
	Weight decimal.Decimal
}

type ProcessingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, run *model.ProcessingRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProcessingRun, error)
	FindByIdempotencyKey(ctx context.Context, storeID int, key string) (*model.ProcessingRun, error)
	List(ctx context.Context, filter dto.ProcessingFilter) ([]model.ProcessingRun, int64, error)
	// InputWeightByOperator sums input kg per operator for the grading fold.
	InputWeightByOperator(ctx context.Context, storeID int, from, to time.Time) ([]UserWeight, error)
	DB() *gorm.DB
}

type processingRepo struct{ db *gorm.DB }

func NewProcessingRepository(db *gorm.DB) ProcessingRepository { return &processingRepo{db: db} }

func (r *processingRepo) DB() *gorm.DB { return r.db }

func (r *processingRepo) Create(ctx context.Context, tx *gorm.DB, run *model.ProcessingRun) error {
	return tx.WithContext(ctx).Create(run).Error
}

func (r *processingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProcessingRun, error) {
	var run model.ProcessingRun
	err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error
	return &run, err
}

func (r *processingRepo) FindByIdempotencyKey(ctx context.Context, storeID int, key string) (*model.ProcessingRun, error) {
	var run model.ProcessingRun
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND idempotency_key = ?", storeID, key).
		First(&run).Error
	return &run, err
}

func (r *processingRepo) List(ctx context.Context, filter dto.ProcessingFilter) ([]model.ProcessingRun, int64, error) {
	var runs []model.ProcessingRun
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.ProcessingRun{}).Where("store_id = ?", filter.StoreID)
	if filter.BirdType != "" {
		q = q.Where("bird_type = ?", filter.BirdType)
	}
	if filter.From != "" {
		q = q.Where("created_at >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("created_at <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&runs).Error
	return runs, total, err
}

func (r *processingRepo) InputWeightByOperator(ctx context.Context, storeID int, from, to time.Time) ([]UserWeight, error) {
	var rows []UserWeight
	err := r.db.WithContext(ctx).Model(&model.ProcessingRun{}).
		Select("operator_id AS user_id, COALESCE(SUM(input_weight), 0) AS weight").
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, from, to).
		Group("operator_id").
		Scan(&rows).Error
	return rows, err
}
