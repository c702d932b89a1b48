package mocks

import (
	"SafeTube/models"

	"github.com/stretchr/testify/mock"
)

type ScreenTimeRuleRepository struct {
	mock.Mock
}

func (m *ScreenTimeRuleRepository) FindByChildID(childID uint) (models.ScreenTimeRule, error) {
	args := m.Called(childID)
	return args.Get(0).(models.ScreenTimeRule), args.Error(1)
}

func (m *ScreenTimeRuleRepository) Upsert(rule *models.ScreenTimeRule) error {
	args := m.Called(rule)
	return args.Error(0)
}

func (m *ScreenTimeRuleRepository) AddMinutes(childID uint, today, column string, minutes int) (models.ScreenTimeRule, error) {
	args := m.Called(childID, today, column, minutes)
	return args.Get(0).(models.ScreenTimeRule), args.Error(1)
}

func (m *ScreenTimeRuleRepository) UpdatePolicy(rule *models.ScreenTimeRule) error {
	args := m.Called(rule)
	return args.Error(0)
}

type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(session *models.ChildSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *SessionRepository) FindByTokenHash(tokenHash string) (models.ChildSession, error) {
	args := m.Called(tokenHash)
	return args.Get(0).(models.ChildSession), args.Error(1)
}

func (m *SessionRepository) Deactivate(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *SessionRepository) DeactivateAllForChild(childID uint) (int64, error) {
	args := m.Called(childID)
	return args.Get(0).(int64), args.Error(1)
}
