package models

import "time"

// VideoDescriptor is everything the safety cascade looks at for one video.
type VideoDescriptor struct {
	VideoID         string   `json:"video_id"`
	ChannelID       string   `json:"channel_id"`
	ChannelTitle    string   `json:"channel_title"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	CategoryID      string   `json:"category_id"`
	DurationSeconds int      `json:"duration_seconds"`
	// DurationUnknown is set for live streams and lengths the catalog could not read.
	DurationUnknown bool `json:"duration_unknown,omitempty"`
	Embeddable      bool `json:"embeddable"`
}

func (v VideoDescriptor) DurationMinutes() float64 {
	return float64(v.DurationSeconds) / 60
}

// HasDuration reports whether the length is known. A zero length counts as unknown.
func (v VideoDescriptor) HasDuration() bool {
	return !v.DurationUnknown && v.DurationSeconds > 0
}

// CatalogItem is a search hit from the video catalog.
type CatalogItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Thumbnail    string    `json:"thumbnail"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	PublishedAt  time.Time `json:"published_at"`
}

// SafetyDecision is the verdict of the content safety cascade.
type SafetyDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Rule    string `json:"rule"`
}
