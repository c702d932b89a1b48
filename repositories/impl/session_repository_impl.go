package impl

import (
	"SafeTube/models"
	"SafeTube/repositories"

	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) repositories.SessionRepository {
	return &SessionRepositoryImpl{DB: db}
}

func (r *SessionRepositoryImpl) Create(session *models.ChildSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepositoryImpl) FindByTokenHash(tokenHash string) (models.ChildSession, error) {
	var session models.ChildSession
	if err := r.DB.Where("token_hash = ?", tokenHash).First(&session).Error; err != nil {
		return models.ChildSession{}, err
	}
	return session, nil
}

func (r *SessionRepositoryImpl) Deactivate(id uint) error {
	return r.DB.Model(&models.ChildSession{}).Where("id = ?", id).Update("active", false).Error
}

func (r *SessionRepositoryImpl) DeactivateAllForChild(childID uint) (int64, error) {
	result := r.DB.Model(&models.ChildSession{}).
		Where("child_id = ? AND active = ?", childID, true).
		Update("active", false)
	return result.RowsAffected, result.Error
}
