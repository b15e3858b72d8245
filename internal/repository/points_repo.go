package repository

import (
	"context"
	"time"

	"poultrycore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserPoints is an aggregation row: total points for one user.
type UserPoints struct {
	UserID uuid.UUID
	Points decimal.Decimal
}

// UserReasonCount counts entries of one reason code per user.
type UserReasonCount struct {
	UserID uuid.UUID
	Count  int
}

// PointsRepository is the append-only staff point journal. Like the
// inventory ledger, rows are never updated or deleted.
type PointsRepository interface {
	Append(ctx context.Context, tx *gorm.DB, e *model.StaffPointEntry) error
	ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.StaffPointEntry, error)
	SumByUser(ctx context.Context, storeID int, from, to time.Time) ([]UserPoints, error)
	CountByUserReason(ctx context.Context, storeID int, reasonCode string, from, to time.Time) ([]UserReasonCount, error)
	// HasEntry dedupes scheduled penalties: one reason per user per day.
	HasEntry(ctx context.Context, userID uuid.UUID, reasonCode string, effectiveDate time.Time) (bool, error)
	DB() *gorm.DB
}

type pointsRepo struct{ db *gorm.DB }

func NewPointsRepository(db *gorm.DB) PointsRepository { return &pointsRepo{db: db} }

func (r *pointsRepo) DB() *gorm.DB { return r.db }

func (r *pointsRepo) Append(ctx context.Context, tx *gorm.DB, e *model.StaffPointEntry) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(e).Error
}

func (r *pointsRepo) ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.StaffPointEntry, error) {
	var entries []model.StaffPointEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND effective_date >= ? AND effective_date < ?", userID, from, to).
		Order("effective_date DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *pointsRepo) SumByUser(ctx context.Context, storeID int, from, to time.Time) ([]UserPoints, error) {
	var rows []UserPoints
	err := r.db.WithContext(ctx).Model(&model.StaffPointEntry{}).
		Select("user_id, COALESCE(SUM(points), 0) AS points").
		Where("store_id = ? AND effective_date >= ? AND effective_date < ?", storeID, from, to).
		Group("user_id").
		Scan(&rows).Error
	return rows, err
}

func (r *pointsRepo) CountByUserReason(ctx context.Context, storeID int, reasonCode string, from, to time.Time) ([]UserReasonCount, error) {
	var rows []UserReasonCount
	err := r.db.WithContext(ctx).Model(&model.StaffPointEntry{}).
		Select("user_id, COUNT(*) AS count").
		Where("store_id = ? AND reason_code = ? AND effective_date >= ? AND effective_date < ?",
			storeID, reasonCode, from, to).
		Group("user_id").
		Scan(&rows).Error
	return rows, err
}

func (r *pointsRepo) HasEntry(ctx context.Context, userID uuid.UUID, reasonCode string, effectiveDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StaffPointEntry{}).
		Where("user_id = ? AND reason_code = ? AND effective_date = ?",
			userID, reasonCode, effectiveDate.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}
