package repository

import (
	"context"

	"poultrycore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SKURepository interface {
	Create(ctx context.Context, s *model.SKU) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SKU, error)
	FindByCode(ctx context.Context, code string) (*model.SKU, error)
	List(ctx context.Context, activeOnly bool) ([]model.SKU, error)
	Update(ctx context.Context, s *model.SKU) error
}

type skuRepo struct{ db *gorm.DB }

func NewSKURepository(db *gorm.DB) SKURepository { return &skuRepo{db: db} }

func (r *skuRepo) Create(ctx context.Context, s *model.SKU) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *skuRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SKU, error) {
	var s model.SKU
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *skuRepo) FindByCode(ctx context.Context, code string) (*model.SKU, error) {
	var s model.SKU
	err := r.db.WithContext(ctx).First(&s, "code = ?", code).Error
	return &s, err
}

func (r *skuRepo) List(ctx context.Context, activeOnly bool) ([]model.SKU, error) {
	var skus []model.SKU
	q := r.db.WithContext(ctx).Order("code")
	if activeOnly {
		q = q.Where("active")
	}
	err := q.Find(&skus).Error
	return skus, err
}

func (r *skuRepo) Update(ctx context.Context, s *model.SKU) error {
	return r.db.WithContext(ctx).Save(s).Error
}
