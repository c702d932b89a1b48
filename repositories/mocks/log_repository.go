package mocks

import (
	"SafeTube/models"
	"time"

	"github.com/stretchr/testify/mock"
)

type ActivityLogRepository struct {
	mock.Mock
}

func (m *ActivityLogRepository) Create(entry *models.ActivityLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *ActivityLogRepository) ListByChild(childID uint, since time.Time) ([]models.ActivityLog, error) {
	args := m.Called(childID, since)
	return args.Get(0).([]models.ActivityLog), args.Error(1)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *NotificationRepository) ListForParent(parentID uint, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(parentID, unreadOnly)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *NotificationRepository) MarkRead(parentID, id uint) error {
	args := m.Called(parentID, id)
	return args.Error(0)
}

type TranslationRepository struct {
	mock.Mock
}

func (m *TranslationRepository) FindAll() ([]models.Translation, error) {
	args := m.Called()
	return args.Get(0).([]models.Translation), args.Error(1)
}

func (m *TranslationRepository) Upsert(translation *models.Translation) error {
	args := m.Called(translation)
	return args.Error(0)
}

type QuotaRepository struct {
	mock.Mock
}

func (m *QuotaRepository) Consume(day string, units, limit int) (bool, error) {
	args := m.Called(day, units, limit)
	return args.Bool(0), args.Error(1)
}

func (m *QuotaRepository) Used(day string) (int, error) {
	args := m.Called(day)
	return args.Int(0), args.Error(1)
}
