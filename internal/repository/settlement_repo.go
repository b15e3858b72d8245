package repository

import (
	"context"
	"time"

	"poultrycore/internal/dto"
	"poultrycore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettlementRepository interface {
	Create(ctx context.Context, s *model.Settlement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Settlement, error)
	FindByStoreDate(ctx context.Context, storeID int, date time.Time) (*model.Settlement, error)
	// Transition performs the optimistic state change: the UPDATE only fires
	// when the row is still in the expected `from` status. Additional column
	// updates ride in the same statement.
	Transition(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to string, updates map[string]any) (int64, error)
	List(ctx context.Context, filter dto.SettlementFilter) ([]model.Settlement, int64, error)
	// ExistsSubmittedFor reports whether the store has a settlement past
	// DRAFT for the given date (daily check input).
	ExistsSubmittedFor(ctx context.Context, storeID int, date time.Time) (bool, error)
	DB() *gorm.DB
}

type settlementRepo struct{ db *gorm.DB }

func NewSettlementRepository(db *gorm.DB) SettlementRepository { return &settlementRepo{db: db} }

func (r *settlementRepo) DB() *gorm.DB { return r.db }

func (r *settlementRepo) Create(ctx context.Context, s *model.Settlement) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *settlementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Settlement, error) {
	var s model.Settlement
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *settlementRepo) FindByStoreDate(ctx context.Context, storeID int, date time.Time) (*model.Settlement, error) {
	var s model.Settlement
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND settlement_date = ?", storeID, date.Format("2006-01-02")).
		First(&s).Error
	return &s, err
}

func (r *settlementRepo) Transition(ctx context.Context, tx *gorm.DB, id uuid.UUID, from, to string, updates map[string]any) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = to
	res := tx.WithContext(ctx).Model(&model.Settlement{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *settlementRepo) List(ctx context.Context, filter dto.SettlementFilter) ([]model.Settlement, int64, error) {
	var settlements []model.Settlement
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Settlement{}).Where("store_id = ?", filter.StoreID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != "" {
		q = q.Where("settlement_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("settlement_date <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("settlement_date DESC").Offset(offset).Limit(filter.Limit).Find(&settlements).Error
	return settlements, total, err
}

func (r *settlementRepo) ExistsSubmittedFor(ctx context.Context, storeID int, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Settlement{}).
		Where("store_id = ? AND settlement_date = ? AND status <> ?",
			storeID, date.Format("2006-01-02"), model.SettlementDraft).
		Count(&count).Error
	return count > 0, err
}
