package repositories

import "SafeTube/models"

type ContentFilterRepository interface {
	FindByChildID(childID uint) (models.ContentFilter, error)
	Upsert(filter *models.ContentFilter) error
}

// WhitelistRepository holds the per-child approved videos and channels.
type WhitelistRepository interface {
	FindApprovedVideo(childID uint, videoID string) (models.ApprovedVideo, error)
	IsChannelApproved(childID uint, channelID string) (bool, error)
	UpsertApprovedVideo(video *models.ApprovedVideo) error
	UpsertApprovedChannel(channel *models.ApprovedChannel) error
	DeleteApprovedVideo(childID uint, videoID string) error
	DeleteApprovedChannel(childID uint, channelID string) error
	ListApprovedVideos(childID uint) ([]models.ApprovedVideo, error)
	ListApprovedChannels(childID uint) ([]models.ApprovedChannel, error)
}

// BlacklistRepository holds the per-child blocked videos and channels.
type BlacklistRepository interface {
	// FindMatch returns the first block matching the video id or the channel id.
	FindMatch(childID uint, videoID, channelID string) (models.BlockedContent, error)
	Create(block *models.BlockedContent) error
	Delete(childID, blockID uint) error
	ListByChild(childID uint) ([]models.BlockedContent, error)
}
