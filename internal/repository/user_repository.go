package repository

import (
	"acaia_backend/internal/model"
	"acaia_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type GormUserRepository struct {
	DB *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{DB: db}
}

func (r *GormUserRepository) CreateUser(user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := r.DB.Create(user).Error
	if err != nil {
		// The unique index on email rejects a second registration.
		if duplicateEntry(err) {
			return util.ErrEmailRegistered
		}
		return err
	}
	return nil
}

func (r *GormUserRepository) FindUserByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) UpdateUser(user *model.User) error {
	return r.DB.Save(user).Error
}
