package repositories

import "SafeTube/models"

type ApprovalRequestRepository interface {
	Create(request *models.ApprovalRequest) error
	FindByID(id uint) (models.ApprovalRequest, error)
	HasPending(childID uint, subject models.ApprovalSubject) (bool, error)
	Save(request models.ApprovalRequest) error
	Delete(id uint) error
	ListByParent(parentID uint, status string) ([]models.ApprovalRequest, error)
	ListByChild(childID uint) ([]models.ApprovalRequest, error)
}
