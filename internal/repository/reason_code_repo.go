package repository

import (
	"context"

	"poultrycore/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReasonCodeRepository interface {
	FindByCode(ctx context.Context, code string) (*model.ReasonCode, error)
	List(ctx context.Context) ([]model.ReasonCode, error)
	UpdatePoints(ctx context.Context, code string, value decimal.Decimal) (int64, error)
}

type reasonCodeRepo struct{ db *gorm.DB }

func NewReasonCodeRepository(db *gorm.DB) ReasonCodeRepository { return &reasonCodeRepo{db: db} }

func (r *reasonCodeRepo) FindByCode(ctx context.Context, code string) (*model.ReasonCode, error) {
	var rc model.ReasonCode
	err := r.db.WithContext(ctx).First(&rc, "code = ?", code).Error
	return &rc, err
}

func (r *reasonCodeRepo) List(ctx context.Context) ([]model.ReasonCode, error) {
	var codes []model.ReasonCode
	err := r.db.WithContext(ctx).Order("code").Find(&codes).Error
	return codes, err
}

// UpdatePoints only touches configurable codes; returns rows affected so the
// caller can distinguish "system-fixed code" from success.
func (r *reasonCodeRepo) UpdatePoints(ctx context.Context, code string, value decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.ReasonCode{}).
		Where("code = ? AND is_configurable", code).
		Update("points_value", value)
	return res.RowsAffected, res.Error
}
