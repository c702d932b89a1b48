package services

import (
	"SafeTube/models"
	"SafeTube/repositories"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sosodev/duration"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	searchQuotaCost  = 100
	detailsQuotaCost = 1
	searchMaxResults = 25
)

var (
	// ErrQuotaExceeded means today's catalog API budget is spent.
	ErrQuotaExceeded = errors.New("catalog quota exceeded")
	errVideoNotFound = errors.New("video not found in catalog")
)

type CatalogConfig struct {
	APIKey     string
	DailyQuota int
	Timeout    time.Duration
	CacheSize  int
	CacheTTL   time.Duration
}

// CatalogService talks to the YouTube Data API. It implements interfaces.CatalogClient.
type CatalogService struct {
	yt         *youtube.Service
	Quota      repositories.QuotaRepository
	DailyQuota int
	Timeout    time.Duration
	Now        Clock

	cache *expirable.LRU[string, models.VideoDescriptor]
}

func NewCatalogService(ctx context.Context, cfg CatalogConfig, quota repositories.QuotaRepository, clock Clock, opts ...option.ClientOption) (*CatalogService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY not set")
	}
	if cfg.DailyQuota <= 0 {
		cfg.DailyQuota = 10000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1000
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	yt, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing YouTube client: %w", err)
	}

	return &CatalogService{
		yt:         yt,
		Quota:      quota,
		DailyQuota: cfg.DailyQuota,
		Timeout:    cfg.Timeout,
		Now:        clock,
		cache:      expirable.NewLRU[string, models.VideoDescriptor](cfg.CacheSize, nil, cfg.CacheTTL),
	}, nil
}

// Search runs a safe-search query. Teens get moderate filtering, everyone else strict.
func (s *CatalogService) Search(ctx context.Context, query, ageBracket string) ([]models.CatalogItem, error) {
	if err := s.consume("search", searchQuotaCost); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	safeSearch := "strict"
	if ageBracket == models.BracketTeen {
		safeSearch = "moderate"
	}
	resp, err := s.yt.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		SafeSearch(safeSearch).
		VideoEmbeddable("true").
		MaxResults(searchMaxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(resp.Items))
	for _, result := range resp.Items {
		if result.Id == nil || result.Id.VideoId == "" || result.Snippet == nil {
			continue
		}
		item := models.CatalogItem{
			ID:           result.Id.VideoId,
			Title:        result.Snippet.Title,
			ChannelID:    result.Snippet.ChannelId,
			ChannelTitle: result.Snippet.ChannelTitle,
			Thumbnail:    thumbnailURL(result.Snippet.Thumbnails),
		}
		if published, err := time.Parse(time.RFC3339, result.Snippet.PublishedAt); err == nil {
			item.PublishedAt = published
		}
		items = append(items, item)
	}
	return items, nil
}

// Details returns the descriptor of one video, from the cache when possible.
func (s *CatalogService) Details(ctx context.Context, videoID string) (models.VideoDescriptor, error) {
	if cached, ok := s.cache.Get(videoID); ok {
		catalogCacheHitsTotal.Inc()
		return cached, nil
	}
	catalogCacheMissesTotal.Inc()

	if err := s.consume("details", detailsQuotaCost); err != nil {
		return models.VideoDescriptor{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resp, err := s.yt.Videos.List([]string{"snippet", "contentDetails", "status"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return models.VideoDescriptor{}, fmt.Errorf("youtube videos: %w", err)
	}
	if len(resp.Items) == 0 {
		return models.VideoDescriptor{}, errVideoNotFound
	}

	video := resp.Items[0]
	descriptor := models.VideoDescriptor{VideoID: video.Id}
	if video.Snippet != nil {
		descriptor.ChannelID = video.Snippet.ChannelId
		descriptor.ChannelTitle = video.Snippet.ChannelTitle
		descriptor.Title = video.Snippet.Title
		descriptor.Description = video.Snippet.Description
		descriptor.Tags = video.Snippet.Tags
		descriptor.CategoryID = video.Snippet.CategoryId
	}
	descriptor.DurationUnknown = true
	if video.ContentDetails != nil {
		seconds, err := parseISODuration(video.ContentDetails.Duration)
		if err != nil {
			log.Printf("[CATALOG] Unreadable duration %q for %s: %v", video.ContentDetails.Duration, videoID, err)
		} else {
			descriptor.DurationSeconds = seconds
			descriptor.DurationUnknown = seconds == 0
		}
	}
	if video.Snippet != nil && isLive(video.Snippet.LiveBroadcastContent) {
		descriptor.DurationUnknown = true
	}
	if video.Status != nil {
		descriptor.Embeddable = video.Status.Embeddable
	}

	s.cache.Add(videoID, descriptor)
	return descriptor, nil
}

// QuotaUsed returns the units spent today.
func (s *CatalogService) QuotaUsed() (int, error) {
	return s.Quota.Used(s.Now().Format(models.DateLayout))
}

func (s *CatalogService) consume(operation string, units int) error {
	ok, err := s.Quota.Consume(s.Now().Format(models.DateLayout), units, s.DailyQuota)
	if err != nil {
		return fmt.Errorf("consume catalog quota: %w", err)
	}
	if !ok {
		catalogQuotaUnitsTotal.WithLabelValues(operation, "rejected").Add(float64(units))
		log.Printf("[CATALOG] Daily quota of %d units exhausted, %s refused", s.DailyQuota, operation)
		return ErrQuotaExceeded
	}
	catalogQuotaUnitsTotal.WithLabelValues(operation, "spent").Add(float64(units))
	return nil
}

func thumbnailURL(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbnails.Medium, thumbnails.High, thumbnails.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}

func isLive(broadcast string) bool {
	return broadcast == "live" || broadcast == "upcoming"
}

// parseISODuration converts an ISO-8601 duration such as PT1H2M3S or P1DT2H into seconds.
func parseISODuration(value string) (int, error) {
	if value == "" || strings.HasSuffix(value, "T") {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	d, err := duration.Parse(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	seconds := int(d.ToTimeDuration() / time.Second)
	if seconds < 0 {
		return 0, fmt.Errorf("negative duration %q", value)
	}
	return seconds, nil
}
