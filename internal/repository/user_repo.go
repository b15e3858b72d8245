package repository

import (
	"context"
	"fmt"

	"poultrycore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	List(ctx context.Context) ([]model.User, error)
	// ManagersForStore returns active managers assigned to the store
	// (recipients of missed-settlement penalties).
	ManagersForStore(ctx context.Context, storeID int) ([]model.User, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	return &u, err
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("username").Find(&users).Error
	return users, err
}

func (r *userRepo) ManagersForStore(ctx context.Context, storeID int) ([]model.User, error) {
	var users []model.User
	// store_ids is a JSON array; containment matches membership.
	err := r.db.WithContext(ctx).
		Where("role = ? AND active", model.RoleManager).
		Where("store_ids::jsonb @> ?::jsonb", fmt.Sprintf("[%d]", storeID)).
		Find(&users).Error
	return users, err
}
