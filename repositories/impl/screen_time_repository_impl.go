package impl

import (
	"SafeTube/models"
	"SafeTube/repositories"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScreenTimeRuleRepositoryImpl struct {
	DB *gorm.DB
}

func NewScreenTimeRuleRepository(db *gorm.DB) repositories.ScreenTimeRuleRepository {
	return &ScreenTimeRuleRepositoryImpl{DB: db}
}

func (r *ScreenTimeRuleRepositoryImpl) FindByChildID(childID uint) (models.ScreenTimeRule, error) {
	var rule models.ScreenTimeRule
	if err := r.DB.Where("child_id = ?", childID).First(&rule).Error; err != nil {
		return models.ScreenTimeRule{}, err
	}
	return rule, nil
}

func (r *ScreenTimeRuleRepositoryImpl) Upsert(rule *models.ScreenTimeRule) error {
	if rule.ID != 0 {
		return r.DB.Save(rule).Error
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "child_id"}},
		UpdateAll: true,
	}).Create(rule).Error
}

func (r *ScreenTimeRuleRepositoryImpl) AddMinutes(childID uint, today, column string, minutes int) (models.ScreenTimeRule, error) {
	if column != "today_usage_minutes" && column != "extra_minutes_today" {
		return models.ScreenTimeRule{}, fmt.Errorf("unknown counter %q", column)
	}

	// two attempts: a concurrent rollover can move the row to today between the statements
	for attempt := 0; attempt < 2; attempt++ {
		same := r.DB.Model(&models.ScreenTimeRule{}).
			Where("child_id = ? AND last_reset_date = ?", childID, today).
			UpdateColumn(column, gorm.Expr(column+" + ?", minutes))
		if same.Error != nil {
			return models.ScreenTimeRule{}, fmt.Errorf("add %s: %w", column, same.Error)
		}
		if same.RowsAffected > 0 {
			return r.FindByChildID(childID)
		}

		reset := r.DB.Model(&models.ScreenTimeRule{}).
			Where("child_id = ? AND last_reset_date <> ?", childID, today).
			UpdateColumns(map[string]interface{}{
				"today_usage_minutes": 0,
				"extra_minutes_today": 0,
				"last_reset_date":     today,
				column:                minutes,
			})
		if reset.Error != nil {
			return models.ScreenTimeRule{}, fmt.Errorf("reset counters: %w", reset.Error)
		}
		if reset.RowsAffected > 0 {
			return r.FindByChildID(childID)
		}
	}
	return models.ScreenTimeRule{}, gorm.ErrRecordNotFound
}

func (r *ScreenTimeRuleRepositoryImpl) UpdatePolicy(rule *models.ScreenTimeRule) error {
	return r.DB.Model(rule).
		Select("daily_limit_minutes", "weekday_limit_minutes", "weekend_limit_minutes", "bedtime", "allowed_windows").
		Updates(rule).Error
}
