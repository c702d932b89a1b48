package repositories

import "SafeTube/models"

type SessionRepository interface {
	Create(session *models.ChildSession) error
	FindByTokenHash(tokenHash string) (models.ChildSession, error)
	Deactivate(id uint) error
	DeactivateAllForChild(childID uint) (int64, error)
}
