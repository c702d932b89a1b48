package mocks

import (
	"SafeTube/models"
	"time"

	"github.com/stretchr/testify/mock"
)

type ChildRepository struct {
	mock.Mock
}

func (m *ChildRepository) FindByID(id uint) (models.Child, error) {
	args := m.Called(id)
	return args.Get(0).(models.Child), args.Error(1)
}

func (m *ChildRepository) FindByParentID(parentID uint) ([]models.Child, error) {
	args := m.Called(parentID)
	return args.Get(0).([]models.Child), args.Error(1)
}

func (m *ChildRepository) Create(child *models.Child) error {
	args := m.Called(child)
	return args.Error(0)
}

func (m *ChildRepository) Save(child models.Child) error {
	args := m.Called(child)
	return args.Error(0)
}

func (m *ChildRepository) UpdateLoginState(id uint, failedAttempts int, lockoutUntil *time.Time) error {
	args := m.Called(id, failedAttempts, lockoutUntil)
	return args.Error(0)
}

func (m *ChildRepository) Delete(child models.Child) error {
	args := m.Called(child)
	return args.Error(0)
}

type ParentRepository struct {
	mock.Mock
}

func (m *ParentRepository) FindByID(id uint) (models.Parent, error) {
	args := m.Called(id)
	return args.Get(0).(models.Parent), args.Error(1)
}

func (m *ParentRepository) FindByFirebaseUID(firebaseUID string) (models.Parent, error) {
	args := m.Called(firebaseUID)
	return args.Get(0).(models.Parent), args.Error(1)
}

func (m *ParentRepository) Save(parent models.Parent) error {
	args := m.Called(parent)
	return args.Error(0)
}
