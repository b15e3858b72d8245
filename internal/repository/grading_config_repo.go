package repository

import (
	"context"

	"poultrycore/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GradingConfigRepository interface {
	// ValuesFor overlays store-specific keys on the global defaults.
	ValuesFor(ctx context.Context, storeID int) (map[string]decimal.Decimal, error)
	List(ctx context.Context, storeID *int) ([]model.GradingConfig, error)
	Upsert(ctx context.Context, storeID *int, key string, value decimal.Decimal) error
}

type gradingConfigRepo struct{ db *gorm.DB }

func NewGradingConfigRepository(db *gorm.DB) GradingConfigRepository {
	return &gradingConfigRepo{db: db}
}

func (r *gradingConfigRepo) ValuesFor(ctx context.Context, storeID int) (map[string]decimal.Decimal, error) {
	var rows []model.GradingConfig
	err := r.db.WithContext(ctx).
		Where("store_id IS NULL OR store_id = ?", storeID).
		Order("store_id NULLS FIRST"). // store rows overwrite globals in the fold below
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	values := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

func (r *gradingConfigRepo) List(ctx context.Context, storeID *int) ([]model.GradingConfig, error) {
	var rows []model.GradingConfig
	q := r.db.WithContext(ctx).Order("key")
	if storeID == nil {
		q = q.Where("store_id IS NULL")
	} else {
		q = q.Where("store_id = ?", *storeID)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *gradingConfigRepo) Upsert(ctx context.Context, storeID *int, key string, value decimal.Decimal) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model.GradingConfig{StoreID: storeID, Key: key, Value: value}).Error
}
