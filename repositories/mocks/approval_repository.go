package mocks

import (
	"SafeTube/models"

	"github.com/stretchr/testify/mock"
)

type ApprovalRequestRepository struct {
	mock.Mock
}

func (m *ApprovalRequestRepository) Create(request *models.ApprovalRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *ApprovalRequestRepository) FindByID(id uint) (models.ApprovalRequest, error) {
	args := m.Called(id)
	return args.Get(0).(models.ApprovalRequest), args.Error(1)
}

func (m *ApprovalRequestRepository) HasPending(childID uint, subject models.ApprovalSubject) (bool, error) {
	args := m.Called(childID, subject)
	return args.Bool(0), args.Error(1)
}

func (m *ApprovalRequestRepository) Save(request models.ApprovalRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *ApprovalRequestRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *ApprovalRequestRepository) ListByParent(parentID uint, status string) ([]models.ApprovalRequest, error) {
	args := m.Called(parentID, status)
	return args.Get(0).([]models.ApprovalRequest), args.Error(1)
}

func (m *ApprovalRequestRepository) ListByChild(childID uint) ([]models.ApprovalRequest, error) {
	args := m.Called(childID)
	return args.Get(0).([]models.ApprovalRequest), args.Error(1)
}
