package repositories

import (
	"SafeTube/models"
	"time"
)

type DeviceRepository interface {
	Find(childID uint, deviceID string) (models.Device, error)
	CountByChild(childID uint) (int64, error)
	ListByChild(childID uint) ([]models.Device, error)
	Create(device *models.Device) error
	Touch(id uint, seenAt time.Time) error
	Delete(childID uint, deviceID string) error

	UpsertSync(sync *models.SessionSync) error
	FindSync(childID uint) (models.SessionSync, error)
}
