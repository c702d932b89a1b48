package mocks

import (
	"SafeTube/models"

	"github.com/stretchr/testify/mock"
)

type ContentFilterRepository struct {
	mock.Mock
}

func (m *ContentFilterRepository) FindByChildID(childID uint) (models.ContentFilter, error) {
	args := m.Called(childID)
	return args.Get(0).(models.ContentFilter), args.Error(1)
}

func (m *ContentFilterRepository) Upsert(filter *models.ContentFilter) error {
	args := m.Called(filter)
	return args.Error(0)
}

type WhitelistRepository struct {
	mock.Mock
}

func (m *WhitelistRepository) FindApprovedVideo(childID uint, videoID string) (models.ApprovedVideo, error) {
	args := m.Called(childID, videoID)
	return args.Get(0).(models.ApprovedVideo), args.Error(1)
}

func (m *WhitelistRepository) IsChannelApproved(childID uint, channelID string) (bool, error) {
	args := m.Called(childID, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *WhitelistRepository) UpsertApprovedVideo(video *models.ApprovedVideo) error {
	args := m.Called(video)
	return args.Error(0)
}

func (m *WhitelistRepository) UpsertApprovedChannel(channel *models.ApprovedChannel) error {
	args := m.Called(channel)
	return args.Error(0)
}

func (m *WhitelistRepository) DeleteApprovedVideo(childID uint, videoID string) error {
	args := m.Called(childID, videoID)
	return args.Error(0)
}

func (m *WhitelistRepository) DeleteApprovedChannel(childID uint, channelID string) error {
	args := m.Called(childID, channelID)
	return args.Error(0)
}

func (m *WhitelistRepository) ListApprovedVideos(childID uint) ([]models.ApprovedVideo, error) {
	args := m.Called(childID)
	return args.Get(0).([]models.ApprovedVideo), args.Error(1)
}

func (m *WhitelistRepository) ListApprovedChannels(childID uint) ([]models.ApprovedChannel, error) {
	args := m.Called(childID)
	return args.Get(0).([]models.ApprovedChannel), args.Error(1)
}

type BlacklistRepository struct {
	mock.Mock
}

func (m *BlacklistRepository) FindMatch(childID uint, videoID, channelID string) (models.BlockedContent, error) {
	args := m.Called(childID, videoID, channelID)
	return args.Get(0).(models.BlockedContent), args.Error(1)
}

func (m *BlacklistRepository) Create(block *models.BlockedContent) error {
	args := m.Called(block)
	return args.Error(0)
}

func (m *BlacklistRepository) Delete(childID, blockID uint) error {
	args := m.Called(childID, blockID)
	return args.Error(0)
}

func (m *BlacklistRepository) ListByChild(childID uint) ([]models.BlockedContent, error) {
	args := m.Called(childID)
	return args.Get(0).([]models.BlockedContent), args.Error(1)
}
