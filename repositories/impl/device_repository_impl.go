package impl

import (
	"SafeTube/models"
	"SafeTube/repositories"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepositoryImpl struct {
	DB *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) repositories.DeviceRepository {
	return &DeviceRepositoryImpl{DB: db}
}

func (r *DeviceRepositoryImpl) Find(childID uint, deviceID string) (models.Device, error) {
	var device models.Device
	if err := r.DB.Where("child_id = ? AND device_id = ?", childID, deviceID).First(&device).Error; err != nil {
		return models.Device{}, err
	}
	return device, nil
}

func (r *DeviceRepositoryImpl) CountByChild(childID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Device{}).Where("child_id = ?", childID).Count(&count).Error
	return count, err
}

func (r *DeviceRepositoryImpl) ListByChild(childID uint) ([]models.Device, error) {
	var devices []models.Device
	if err := r.DB.Where("child_id = ?", childID).Order("last_seen_at desc").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *DeviceRepositoryImpl) Create(device *models.Device) error {
	return r.DB.Create(device).Error
}

func (r *DeviceRepositoryImpl) Touch(id uint, seenAt time.Time) error {
	return r.DB.Model(&models.Device{}).Where("id = ?", id).Update("last_seen_at", seenAt).Error
}

func (r *DeviceRepositoryImpl) Delete(childID uint, deviceID string) error {
	result := r.DB.Where("child_id = ? AND device_id = ?", childID, deviceID).Delete(&models.Device{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DeviceRepositoryImpl) UpsertSync(sync *models.SessionSync) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "child_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"video_id", "position_seconds", "device_id", "last_synced_at"}),
	}).Create(sync).Error
}

func (r *DeviceRepositoryImpl) FindSync(childID uint) (models.SessionSync, error) {
	var sync models.SessionSync
	if err := r.DB.Where("child_id = ?", childID).First(&sync).Error; err != nil {
		return models.SessionSync{}, err
	}
	return sync, nil
}
