package mocks

import (
	"SafeTube/models"
	"time"

	"github.com/stretchr/testify/mock"
)

type DeviceRepository struct {
	mock.Mock
}

func (m *DeviceRepository) Find(childID uint, deviceID string) (models.Device, error) {
	args := m.Called(childID, deviceID)
	return args.Get(0).(models.Device), args.Error(1)
}

func (m *DeviceRepository) CountByChild(childID uint) (int64, error) {
	args := m.Called(childID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *DeviceRepository) ListByChild(childID uint) ([]models.Device, error) {
	args := m.Called(childID)
	return args.Get(0).([]models.Device), args.Error(1)
}

func (m *DeviceRepository) Create(device *models.Device) error {
	args := m.Called(device)
	return args.Error(0)
}

func (m *DeviceRepository) Touch(id uint, seenAt time.Time) error {
	args := m.Called(id, seenAt)
	return args.Error(0)
}

func (m *DeviceRepository) Delete(childID uint, deviceID string) error {
	args := m.Called(childID, deviceID)
	return args.Error(0)
}

func (m *DeviceRepository) UpsertSync(sync *models.SessionSync) error {
	args := m.Called(sync)
	return args.Error(0)
}

func (m *DeviceRepository) FindSync(childID uint) (models.SessionSync, error) {
	args := m.Called(childID)
	return args.Get(0).(models.SessionSync), args.Error(1)
}
