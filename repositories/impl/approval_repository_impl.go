package impl

import (
	"SafeTube/models"
	"SafeTube/repositories"

	"gorm.io/gorm"
)

type ApprovalRequestRepositoryImpl struct {
	DB *gorm.DB
}

func NewApprovalRequestRepository(db *gorm.DB) repositories.ApprovalRequestRepository {
	return &ApprovalRequestRepositoryImpl{DB: db}
}

func (r *ApprovalRequestRepositoryImpl) Create(request *models.ApprovalRequest) error {
	return r.DB.Create(request).Error
}

func (r *ApprovalRequestRepositoryImpl) FindByID(id uint) (models.ApprovalRequest, error) {
	var request models.ApprovalRequest
	if err := r.DB.First(&request, id).Error; err != nil {
		return models.ApprovalRequest{}, err
	}
	return request, nil
}

func (r *ApprovalRequestRepositoryImpl) HasPending(childID uint, subject models.ApprovalSubject) (bool, error) {
	query := r.DB.Model(&models.ApprovalRequest{}).
		Where("child_id = ? AND status = ? AND request_type = ?", childID, models.RequestStatusPending, subject.Type)
	if subject.Type == models.RequestTypeChannel {
		query = query.Where("channel_id = ?", subject.ChannelID)
	} else {
		query = query.Where("video_id = ?", subject.VideoID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ApprovalRequestRepositoryImpl) Save(request models.ApprovalRequest) error {
	return r.DB.Save(&request).Error
}

func (r *ApprovalRequestRepositoryImpl) Delete(id uint) error {
	return r.DB.Delete(&models.ApprovalRequest{}, id).Error
}

func (r *ApprovalRequestRepositoryImpl) ListByParent(parentID uint, status string) ([]models.ApprovalRequest, error) {
	query := r.DB.Where("parent_id = ?", parentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.ApprovalRequest
	if err := query.Order("requested_at desc").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *ApprovalRequestRepositoryImpl) ListByChild(childID uint) ([]models.ApprovalRequest, error) {
	var requests []models.ApprovalRequest
	if err := r.DB.Where("child_id = ?", childID).Order("requested_at desc").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
