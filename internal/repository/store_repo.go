package repository

import (
	"context"

	"poultrycore/internal/model"

	"gorm.io/gorm"
)

type StoreRepository interface {
	FindByID(ctx context.Context, id int) (*model.Store, error)
	List(ctx context.Context) ([]model.Store, error)
	Create(ctx context.Context, s *model.Store) error
	Update(ctx context.Context, s *model.Store) error
	// NextReceiptSeq atomically advances the store's receipt counter inside
	// the caller's transaction.
	NextReceiptSeq(ctx context.Context, tx *gorm.DB, storeID int) (int64, error)
}

type storeRepo struct{ db *gorm.DB }

func NewStoreRepository(db *gorm.DB) StoreRepository { return &storeRepo{db: db} }

func (r *storeRepo) FindByID(ctx context.Context, id int) (*model.Store, error) {
	var s model.Store
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *storeRepo) List(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).Order("id").Find(&stores).Error
	return stores, err
}

func (r *storeRepo) Create(ctx context.Context, s *model.Store) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *storeRepo) Update(ctx context.Context, s *model.Store) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *storeRepo) NextReceiptSeq(ctx context.Context, tx *gorm.DB, storeID int) (int64, error) {
	var seq int64
	err := tx.WithContext(ctx).
		Raw("UPDATE stores SET receipt_seq = receipt_seq + 1 WHERE id = ? RETURNING receipt_seq", storeID).
		Scan(&seq).Error
	return seq, err
}
