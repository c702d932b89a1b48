package impl

import (
	"SafeTube/models"
	"SafeTube/repositories"
	"time"

	"gorm.io/gorm"
)

type ChildRepositoryImpl struct {
	DB *gorm.DB
}

func NewChildRepository(db *gorm.DB) repositories.ChildRepository {
	return &ChildRepositoryImpl{DB: db}
}

func (r *ChildRepositoryImpl) FindByID(id uint) (models.Child, error) {
	var child models.Child
	if err := r.DB.First(&child, id).Error; err != nil {
		return models.Child{}, err
	}
	return child, nil
}

func (r *ChildRepositoryImpl) FindByParentID(parentID uint) ([]models.Child, error) {
	var children []models.Child
	if err := r.DB.Where("parent_id = ?", parentID).Order("id").Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

func (r *ChildRepositoryImpl) Create(child *models.Child) error {
	return r.DB.Create(child).Error
}

func (r *ChildRepositoryImpl) Save(child models.Child) error {
	return r.DB.Save(&child).Error
}

func (r *ChildRepositoryImpl) UpdateLoginState(id uint, failedAttempts int, lockoutUntil *time.Time) error {
	return r.DB.Model(&models.Child{}).Where("id = ?", id).Updates(map[string]interface{}{
		"failed_pin_attempts": failedAttempts,
		"lockout_until":       lockoutUntil,
	}).Error
}

// Delete is a soft delete; the row keeps its history for activity logs.
func (r *ChildRepositoryImpl) Delete(child models.Child) error {
	return r.DB.Delete(&child).Error
}
