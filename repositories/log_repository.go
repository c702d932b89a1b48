package repositories

import (
	"SafeTube/models"
	"time"
)

type ActivityLogRepository interface {
	Create(entry *models.ActivityLog) error
	ListByChild(childID uint, since time.Time) ([]models.ActivityLog, error)
}

type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListForParent(parentID uint, unreadOnly bool) ([]models.Notification, error)
	MarkRead(parentID, id uint) error
}

type TranslationRepository interface {
	FindAll() ([]models.Translation, error)
	Upsert(translation *models.Translation) error
}

// QuotaRepository is the shared catalog API budget.
type QuotaRepository interface {
	// Consume adds units to day's usage only if the total stays within limit.
	Consume(day string, units, limit int) (bool, error)
	Used(day string) (int, error)
}
