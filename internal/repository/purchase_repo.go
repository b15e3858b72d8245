package repository

import (
	"context"
	"time"

	"poultrycore/internal/dto"
	"poultrycore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, p *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	// Transition flips status only when the current status matches; the
	// returned row count is the optimistic check.
	Transition(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to string, committedAt *time.Time) (int64, error)
	List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error)
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).Preload("Supplier").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *purchaseRepo) Transition(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to string, committedAt *time.Time) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	updates := map[string]any{"status": to}
	if committedAt != nil {
		updates["committed_at"] = *committedAt
	}
	res := tx.WithContext(ctx).Model(&model.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *purchaseRepo) List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Purchase{}).Where("store_id = ?", filter.StoreID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
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

	err := q.Preload("Supplier").Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&purchases).Error
	return purchases, total, err
}
