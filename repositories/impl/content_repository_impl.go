package impl

import (
	"SafeTube/models"
	"SafeTube/repositories"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentFilterRepositoryImpl struct {
	DB *gorm.DB
}

func NewContentFilterRepository(db *gorm.DB) repositories.ContentFilterRepository {
	return &ContentFilterRepositoryImpl{DB: db}
}

func (r *ContentFilterRepositoryImpl) FindByChildID(childID uint) (models.ContentFilter, error) {
	var filter models.ContentFilter
	if err := r.DB.Where("child_id = ?", childID).First(&filter).Error; err != nil {
		return models.ContentFilter{}, err
	}
	return filter, nil
}

func (r *ContentFilterRepositoryImpl) Upsert(filter *models.ContentFilter) error {
	if filter.ID != 0 {
		return r.DB.Save(filter).Error
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "child_id"}},
		UpdateAll: true,
	}).Create(filter).Error
}

type WhitelistRepositoryImpl struct {
	DB *gorm.DB
}

func NewWhitelistRepository(db *gorm.DB) repositories.WhitelistRepository {
	return &WhitelistRepositoryImpl{DB: db}
}

func (r *WhitelistRepositoryImpl) FindApprovedVideo(childID uint, videoID string) (models.ApprovedVideo, error) {
	var video models.ApprovedVideo
	if err := r.DB.Where("child_id = ? AND video_id = ?", childID, videoID).First(&video).Error; err != nil {
		return models.ApprovedVideo{}, err
	}
	return video, nil
}

func (r *WhitelistRepositoryImpl) IsChannelApproved(childID uint, channelID string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.ApprovedChannel{}).
		Where("child_id = ? AND channel_id = ?", childID, channelID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *WhitelistRepositoryImpl) UpsertApprovedVideo(video *models.ApprovedVideo) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "child_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"channel_id", "title", "thumbnail_url", "approved_by", "updated_at"}),
	}).Create(video).Error
}

func (r *WhitelistRepositoryImpl) UpsertApprovedChannel(channel *models.ApprovedChannel) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "child_id"}, {Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"channel_title", "thumbnail_url", "approved_by", "updated_at"}),
	}).Create(channel).Error
}

func (r *WhitelistRepositoryImpl) DeleteApprovedVideo(childID uint, videoID string) error {
	return r.DB.Where("child_id = ? AND video_id = ?", childID, videoID).Delete(&models.ApprovedVideo{}).Error
}

func (r *WhitelistRepositoryImpl) DeleteApprovedChannel(childID uint, channelID string) error {
	return r.DB.Where("child_id = ? AND channel_id = ?", childID, channelID).Delete(&models.ApprovedChannel{}).Error
}

func (r *WhitelistRepositoryImpl) ListApprovedVideos(childID uint) ([]models.ApprovedVideo, error) {
	var videos []models.ApprovedVideo
	if err := r.DB.Where("child_id = ?", childID).Order("created_at desc").Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *WhitelistRepositoryImpl) ListApprovedChannels(childID uint) ([]models.ApprovedChannel, error) {
	var channels []models.ApprovedChannel
	if err := r.DB.Where("child_id = ?", childID).Order("created_at desc").Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

type BlacklistRepositoryImpl struct {
	DB *gorm.DB
}

func NewBlacklistRepository(db *gorm.DB) repositories.BlacklistRepository {
	return &BlacklistRepositoryImpl{DB: db}
}

func (r *BlacklistRepositoryImpl) FindMatch(childID uint, videoID, channelID string) (models.BlockedContent, error) {
	var block models.BlockedContent
	match := r.DB.Where("video_id = ?", videoID)
	if channelID != "" {
		match = match.Or("channel_id = ?", channelID)
	}
	if err := r.DB.Where("child_id = ?", childID).Where(match).Order("id").First(&block).Error; err != nil {
		return models.BlockedContent{}, err
	}
	return block, nil
}

func (r *BlacklistRepositoryImpl) Create(block *models.BlockedContent) error {
	return r.DB.Create(block).Error
}

func (r *BlacklistRepositoryImpl) Delete(childID, blockID uint) error {
	result := r.DB.Where("child_id = ? AND id = ?", childID, blockID).Delete(&models.BlockedContent{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete block: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BlacklistRepositoryImpl) ListByChild(childID uint) ([]models.BlockedContent, error) {
	var blocks []models.BlockedContent
	if err := r.DB.Where("child_id = ?", childID).Order("created_at desc").Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}
