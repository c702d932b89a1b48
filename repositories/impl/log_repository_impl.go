package impl

import (
	"SafeTube/models"
	"SafeTube/repositories"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityLogRepositoryImpl struct {
	DB *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) repositories.ActivityLogRepository {
	return &ActivityLogRepositoryImpl{DB: db}
}

func (r *ActivityLogRepositoryImpl) Create(entry *models.ActivityLog) error {
	return r.DB.Create(entry).Error
}

func (r *ActivityLogRepositoryImpl) ListByChild(childID uint, since time.Time) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := r.DB.Where("child_id = ? AND created_at >= ?", childID, since).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

type NotificationRepositoryImpl struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationRepositoryImpl{DB: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	return r.DB.Create(notification).Error
}

func (r *NotificationRepositoryImpl) ListForParent(parentID uint, unreadOnly bool) ([]models.Notification, error) {
	query := r.DB.Where("parent_id = ? AND recipient = ?", parentID, models.RecipientParent)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepositoryImpl) MarkRead(parentID, id uint) error {
	result := r.DB.Model(&models.Notification{}).
		Where("id = ? AND parent_id = ?", id, parentID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type TranslationRepositoryImpl struct {
	DB *gorm.DB
}

func NewTranslationRepository(db *gorm.DB) repositories.TranslationRepository {
	return &TranslationRepositoryImpl{DB: db}
}

func (r *TranslationRepositoryImpl) FindAll() ([]models.Translation, error) {
	var translations []models.Translation
	if err := r.DB.Find(&translations).Error; err != nil {
		return nil, err
	}
	return translations, nil
}

func (r *TranslationRepositoryImpl) Upsert(translation *models.Translation) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"russian", "english", "kazakh", "last_updated_at"}),
	}).Create(translation).Error
}

type QuotaRepositoryImpl struct {
	DB *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) repositories.QuotaRepository {
	return &QuotaRepositoryImpl{DB: db}
}

// Consume is a single conditional UPDATE so concurrent instances share one budget.
func (r *QuotaRepositoryImpl) Consume(day string, units, limit int) (bool, error) {
	err := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ApiQuota{Day: day}).Error
	if err != nil {
		return false, err
	}

	result := r.DB.Model(&models.ApiQuota{}).
		Where("day = ? AND units_used + ? <= ?", day, units, limit).
		UpdateColumn("units_used", gorm.Expr("units_used + ?", units))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *QuotaRepositoryImpl) Used(day string) (int, error) {
	var quota models.ApiQuota
	err := r.DB.Where("day = ?", day).First(&quota).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return quota.UnitsUsed, nil
}
