package repository

import (
	"context"

	"poultrycore/internal/model"

	"gorm.io/gorm"
)

type TransferRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.StockTransfer) error
	List(ctx context.Context, storeID int, limit int) ([]model.StockTransfer, error)
	DB() *gorm.DB
}

type transferRepo struct{ db *gorm.DB }

func NewTransferRepository(db *gorm.DB) TransferRepository { return &transferRepo{db: db} }

func (r *transferRepo) DB() *gorm.DB { return r.db }

func (r *transferRepo) Create(ctx context.Context, tx *gorm.DB, t *model.StockTransfer) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *transferRepo) List(ctx context.Context, storeID int, limit int) ([]model.StockTransfer, error) {
	var transfers []model.StockTransfer
	if limit <= 0 {
		limit = 50
	}
	err := r.db.WithContext(ctx).
		Where("from_store_id = ? OR to_store_id = ?", storeID, storeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transfers).Error
	return transfers, err
}
