package repository

import (
	"context"
	"time"

	"poultrycore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PerformanceRepository interface {
	// Upsert replaces the month row for (user, store, year, month) unless it
	// is locked. Returns false when a locked row blocked the write.
	Upsert(ctx context.Context, p *model.StaffMonthlyPerformance) (bool, error)
	FindByUserMonth(ctx context.Context, userID uuid.UUID, storeID, year, month int) (*model.StaffMonthlyPerformance, error)
	ListByStoreMonth(ctx context.Context, storeID, year, month int) ([]model.StaffMonthlyPerformance, error)
	// Lock marks every unlocked row of the month; idempotent.
	Lock(ctx context.Context, storeID, year, month int, lockedAt time.Time) (int64, error)
	DB() *gorm.DB
}

type performanceRepo struct{ db *gorm.DB }

func NewPerformanceRepository(db *gorm.DB) PerformanceRepository { return &performanceRepo{db: db} }

func (r *performanceRepo) DB() *gorm.DB { return r.db }

func (r *performanceRepo) Upsert(ctx context.Context, p *model.StaffMonthlyPerformance) (bool, error) {
	var existing model.StaffMonthlyPerformance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ? AND year = ? AND month = ?",
			p.UserID, p.StoreID, p.Year, p.Month).
		First(&existing).Error
	if err == nil && existing.IsLocked {
		return false, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return false, err
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "store_id"}, {Name: "year"}, {Name: "month"},
		},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: "staff_monthly_performance.is_locked", Value: false},
		}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_points", "weight_handled", "normalized_score", "grade",
			"bonus_amount", "penalty_amount", "net_incentive",
			"positive_variance_kg", "negative_variance_kg", "zero_variance_days",
			"generated_at", "updated_at",
		}),
	}).Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *performanceRepo) FindByUserMonth(ctx context.Context, userID uuid.UUID, storeID, year, month int) (*model.StaffMonthlyPerformance, error) {
	var p model.StaffMonthlyPerformance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ? AND year = ? AND month = ?", userID, storeID, year, month).
		First(&p).Error
	return &p, err
}

func (r *performanceRepo) ListByStoreMonth(ctx context.Context, storeID, year, month int) ([]model.StaffMonthlyPerformance, error) {
	var perfs []model.StaffMonthlyPerformance
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND year = ? AND month = ?", storeID, year, month).
		Order("normalized_score DESC").
		Find(&perfs).Error
	return perfs, err
}

func (r *performanceRepo) Lock(ctx context.Context, storeID, year, month int, lockedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.StaffMonthlyPerformance{}).
		Where("store_id = ? AND year = ? AND month = ? AND NOT is_locked", storeID, year, month).
		Updates(map[string]any{"is_locked": true, "locked_at": lockedAt})
	return res.RowsAffected, res.Error
}
