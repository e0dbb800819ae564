package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

// DirectoryRepository is the read side of the four principal directories
// (admin, user, restaurant, driver).
type DirectoryRepository struct {
	DB *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{DB: db}
}

func (r *DirectoryRepository) FindUserByID(id uint) (*entity.User, error) {
	var u entity.User
	if err := r.DB.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *DirectoryRepository) FindUserByEmail(email string) (*entity.User, error) {
	var u entity.User
	if err := r.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *DirectoryRepository) CountUsersByEmail(email string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error
	return count, err
}

func (r *DirectoryRepository) CreateUser(u *entity.User) error {
	return r.DB.Create(u).Error
}

func (r *DirectoryRepository) FindAdminByID(id uint) (*entity.Admin, error) {
	var a entity.Admin
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *DirectoryRepository) FindAdminByEmail(email string) (*entity.Admin, error) {
	var a entity.Admin
	if err := r.DB.Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *DirectoryRepository) FindRestaurantByID(id uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := r.DB.First(&rest, id).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *DirectoryRepository) FindRestaurantByEmail(email string) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := r.DB.Where("email = ?", email).First(&rest).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *DirectoryRepository) FindDriverByID(id uint) (*entity.Driver, error) {
	var d entity.Driver
	if err := r.DB.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DirectoryRepository) FindDriverByEmail(email string) (*entity.Driver, error) {
	var d entity.Driver
	if err := r.DB.Where("email = ?", email).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}
