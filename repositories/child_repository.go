package repositories

import (
	"SafeTube/models"
	"time"
)

type ChildRepository interface {
	FindByID(id uint) (models.Child, error)
	FindByParentID(parentID uint) ([]models.Child, error)
	Create(child *models.Child) error
	Save(child models.Child) error
	// UpdateLoginState writes only the PIN attempt counter and lockout.
	UpdateLoginState(id uint, failedAttempts int, lockoutUntil *time.Time) error
	Delete(child models.Child) error
}
