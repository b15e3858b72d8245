package repository

import (
	"context"
	"fmt"
	"time"

	"poultrycore/internal/dto"
	"poultrycore/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository is the only gateway to inventory_ledger. There is no
// update or delete on purpose: the table carries a trigger that rejects both.
type LedgerRepository interface {
	// Append inserts one entry inside the caller's transaction.
	Append(ctx context.Context, tx *gorm.DB, e *model.LedgerEntry) error
	// Balance folds quantity_delta over stock-affecting entries of one
	// partition. A nil q uses the repository's own connection; pass the
	// open transaction to read under its locks. asOf nil means "now".
	Balance(ctx context.Context, q *gorm.DB, storeID int, birdType, state string, asOf *time.Time) (decimal.Decimal, error)
	// LockPartition takes the pg advisory xact lock serializing writers of
	// one partition. Released automatically at commit/rollback.
	LockPartition(ctx context.Context, tx *gorm.DB, storeID int, birdType, state string) error
	ListRange(ctx context.Context, storeID int, from, to time.Time) ([]model.LedgerEntry, error)
	List(ctx context.Context, filter dto.LedgerFilter) ([]model.LedgerEntry, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) DB() *gorm.DB { return r.db }

func (r *ledgerRepo) Append(ctx context.Context, tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.WithContext(ctx).Create(e).Error
}

func (r *ledgerRepo) Balance(ctx context.Context, q *gorm.DB, storeID int, birdType, state string, asOf *time.Time) (decimal.Decimal, error) {
	if q == nil {
		q = r.db
	}
	query := q.WithContext(ctx).Model(&model.LedgerEntry{}).
		Select("COALESCE(SUM(quantity_delta), 0)").
		Where("store_id = ? AND bird_type = ? AND inventory_state = ?", storeID, birdType, state).
		Where("reason_code IN (SELECT code FROM ledger_reason_codes WHERE affects_stock)")
	if asOf != nil {
		query = query.Where("created_at <= ?", *asOf)
	}

	var total decimal.Decimal
	err := query.Row().Scan(&total)
	return total, err
}

func (r *ledgerRepo) LockPartition(ctx context.Context, tx *gorm.DB, storeID int, birdType, state string) error {
	key := fmt.Sprintf("ledger:%d:%s:%s", storeID, birdType, state)
	return tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func (r *ledgerRepo) ListRange(ctx context.Context, storeID int, from, to time.Time) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, from, to).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) List(ctx context.Context, filter dto.LedgerFilter) ([]model.LedgerEntry, int64, error) {
	var entries []model.LedgerEntry
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).Where("store_id = ?", filter.StoreID)
	if filter.BirdType != "" {
		q = q.Where("bird_type = ?", filter.BirdType)
	}
	if filter.InventoryState != "" {
		q = q.Where("inventory_state = ?", filter.InventoryState)
	}
	if filter.ReasonCode != "" {
		q = q.Where("reason_code = ?", filter.ReasonCode)
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

	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&entries).Error
	return entries, total, err
}
