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

// UserVarianceKg attributes variance kg to the settlement submitter.
type UserVarianceKg struct {
	UserID       uuid.UUID
	VarianceType string
	Kg           decimal.Decimal
}

// Offender is a staff member with repeated deducted shortages.
type Offender struct {
	UserID  uuid.UUID
	StoreID int
	Count   int64
}

type VarianceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.VarianceLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.VarianceLog, error)
	// Resolve flips a PENDING log; the optimistic WHERE keeps double
	// resolutions out.
	Resolve(ctx context.Context, tx *gorm.DB, id uuid.UUID, toStatus string, updates map[string]any) (int64, error)
	ListBySettlement(ctx context.Context, settlementID uuid.UUID) ([]model.VarianceLog, error)
	List(ctx context.Context, filter dto.VarianceFilter) ([]model.VarianceLog, int64, error)
	CountPending(ctx context.Context, settlementID uuid.UUID) (int64, error)
	// KgBySubmitter sums resolved variance kg per settlement submitter over
	// a window, split by type (grading fold input).
	KgBySubmitter(ctx context.Context, storeID int, from, to time.Time) ([]UserVarianceKg, error)
	// RepeatOffenders finds submitters with >= minCount DEDUCTED logs in the
	// window.
	RepeatOffenders(ctx context.Context, from, to time.Time, minCount int) ([]Offender, error)
	DB() *gorm.DB
}

type varianceRepo struct{ db *gorm.DB }

func NewVarianceRepository(db *gorm.DB) VarianceRepository { return &varianceRepo{db: db} }

func (r *varianceRepo) DB() *gorm.DB { return r.db }

func (r *varianceRepo) Create(ctx context.Context, tx *gorm.DB, v *model.VarianceLog) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *varianceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.VarianceLog, error) {
	var v model.VarianceLog
	err := r.db.WithContext(ctx).Preload("Settlement").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *varianceRepo) Resolve(ctx context.Context, tx *gorm.DB, id uuid.UUID, toStatus string, updates map[string]any) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = toStatus
	res := tx.WithContext(ctx).Model(&model.VarianceLog{}).
		Where("id = ? AND status = ?", id, model.VarianceLogPending).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *varianceRepo) ListBySettlement(ctx context.Context, settlementID uuid.UUID) ([]model.VarianceLog, error) {
	var logs []model.VarianceLog
	err := r.db.WithContext(ctx).
		Where("settlement_id = ?", settlementID).
		Order("bird_type, inventory_state").
		Find(&logs).Error
	return logs, err
}

func (r *varianceRepo) List(ctx context.Context, filter dto.VarianceFilter) ([]model.VarianceLog, int64, error) {
	var logs []model.VarianceLog
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.VarianceLog{}).Where("store_id = ?", filter.StoreID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.VarianceType != "" {
		q = q.Where("variance_type = ?", filter.VarianceType)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&logs).Error
	return logs, total, err
}

func (r *varianceRepo) CountPending(ctx context.Context, settlementID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VarianceLog{}).
		Where("settlement_id = ? AND status = ?", settlementID, model.VarianceLogPending).
		Count(&count).Error
	return count, err
}

func (r *varianceRepo) KgBySubmitter(ctx context.Context, storeID int, from, to time.Time) ([]UserVarianceKg, error) {
	var rows []UserVarianceKg
	err := r.db.WithContext(ctx).Model(&model.VarianceLog{}).
		Select("daily_settlements.submitted_by AS user_id, variance_logs.variance_type, COALESCE(SUM(ABS(variance_logs.variance_qty)), 0) AS kg").
		Joins("JOIN daily_settlements ON daily_settlements.id = variance_logs.settlement_id").
		Where("variance_logs.store_id = ? AND variance_logs.created_at >= ? AND variance_logs.created_at < ?", storeID, from, to).
		Where("variance_logs.status IN ?", []string{model.VarianceLogDeducted, model.VarianceLogApproved}).
		Where("daily_settlements.submitted_by IS NOT NULL").
		Group("daily_settlements.submitted_by, variance_logs.variance_type").
		Scan(&rows).Error
	return rows, err
}

func (r *varianceRepo) RepeatOffenders(ctx context.Context, from, to time.Time, minCount int) ([]Offender, error) {
	var rows []Offender
	err := r.db.WithContext(ctx).Model(&model.VarianceLog{}).
		Select("daily_settlements.submitted_by AS user_id, variance_logs.store_id, COUNT(*) AS count").
		Joins("JOIN daily_settlements ON daily_settlements.id = variance_logs.settlement_id").
		Where("variance_logs.status = ? AND variance_logs.created_at >= ? AND variance_logs.created_at < ?",
			model.VarianceLogDeducted, from, to).
		Where("daily_settlements.submitted_by IS NOT NULL").
		Group("daily_settlements.submitted_by, variance_logs.store_id").
		Having("COUNT(*) >= ?", minCount).
		Scan(&rows).Error
	return rows, err
}
