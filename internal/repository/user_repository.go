package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByHandle(ctx context.Context, handle string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]model.User, error)
	GetByHandles(ctx context.Context, handles []string) ([]model.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Search(ctx context.Context, handlePrefix string, limit int) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	SetTier(ctx context.Context, userID uint, tier string) error

	GetEmployeeByEmail(ctx context.Context, email string) (*model.Employee, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFoundUser(err)
	}
	return &u, nil
}

func (r *userRepository) GetByHandle(ctx context.Context, handle string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&u).Error; err != nil {
		return nil, notFoundUser(err)
	}
	return &u, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) GetByHandles(ctx context.Context, handles []string) ([]model.User, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).Where("handle IN ?", handles).Find(&users).Error
	return users, err
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *userRepository) Search(ctx context.Context, handlePrefix string, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("handle LIKE ?", handlePrefix+"%").
		Order("handle ASC").Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) SetTier(ctx context.Context, userID uint, tier string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).Update("subscription_tier", tier).Error
}

func (r *userRepository) GetEmployeeByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var e model.Employee
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "employee not found")
		}
		return nil, err
	}
	return &e, nil
}

func notFoundUser(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return err
}
