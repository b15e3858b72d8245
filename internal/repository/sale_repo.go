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

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIdempotencyKey(ctx context.Context, storeID int, key string) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// SummaryByMethod totals the day's sales per payment method.
	SummaryByMethod(ctx context.Context, storeID int, from, to time.Time) (model.CashSummary, error)
	// ItemWeightByCashier sums sold kg per cashier for the grading fold.
	ItemWeightByCashier(ctx context.Context, storeID int, from, to time.Time) ([]UserWeight, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items.SKU").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByIdempotencyKey(ctx context.Context, storeID int, key string) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items.SKU").
		Where("store_id = ? AND idempotency_key = ?", storeID, key).
		First(&s).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("store_id = ?", filter.StoreID)
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.SKU").Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) SummaryByMethod(ctx context.Context, storeID int, from, to time.Time) (model.CashSummary, error) {
	var rows []struct {
		PaymentMethod string
		Total         decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("payment_method, COALESCE(SUM(total_amount), 0) AS total").
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, from, to).
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := model.CashSummary{
		model.PaymentCash: decimal.Zero,
		model.PaymentUPI:  decimal.Zero,
		model.PaymentCard: decimal.Zero,
		model.PaymentBank: decimal.Zero,
	}
	for _, row := range rows {
		summary[row.PaymentMethod] = row.Total
	}
	return summary, nil
}

func (r *saleRepo) ItemWeightByCashier(ctx context.Context, storeID int, from, to time.Time) ([]UserWeight, error) {
	var rows []UserWeight
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select("sales.cashier_id AS user_id, COALESCE(SUM(sale_items.weight), 0) AS weight").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.store_id = ? AND sales.created_at >= ? AND sales.created_at < ?", storeID, from, to).
		Group("sales.cashier_id").
		Scan(&rows).Error
	return rows, err
}
