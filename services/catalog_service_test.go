package services

import (
	"SafeTube/models"
	"SafeTube/repositories/impl"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const videosResponse = `{
  "items": [{
    "id": "v1",
    "snippet": {
      "channelId": "c1",
      "channelTitle": "Science Kids",
      "title": "Volcano experiment",
      "description": "Baking soda and vinegar",
      "tags": ["science", "kids"],
      "categoryId": "27"
    },
    "contentDetails": {"duration": "PT4M13S"},
    "status": {"embeddable": true}
  }]
}`

const searchResponse = `{
  "items": [
    {"id": {"kind": "youtube#video", "videoId": "v1"}, "snippet": {"title": "Volcano experiment", "channelId": "c1", "channelTitle": "Science Kids", "publishedAt": "2023-05-01T10:00:00Z", "thumbnails": {"medium": {"url": "https://img.example/v1.jpg"}}}},
    {"id": {"kind": "youtube#channel", "channelId": "c2"}, "snippet": {"title": "A channel"}}
  ]
}`

type fakeYouTube struct {
	server   *httptest.Server
	requests atomic.Int32
	queries  chan string
	videos   string
}

func newFakeYouTube(t *testing.T) *fakeYouTube {
	return newFakeYouTubeServing(t, videosResponse)
}

func newFakeYouTubeServing(t *testing.T, videos string) *fakeYouTube {
	fake := &fakeYouTube{queries: make(chan string, 16), videos: videos}
	fake.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fake.requests.Add(1)
		fake.queries <- r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/videos"):
			w.Write([]byte(fake.videos))
		case strings.HasSuffix(r.URL.Path, "/search"):
			w.Write([]byte(searchResponse))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(fake.server.Close)
	return fake
}

func newTestCatalog(t *testing.T, env *testEnv, fake *fakeYouTube, dailyQuota int) *CatalogService {
	catalog, err := NewCatalogService(context.Background(), CatalogConfig{
		APIKey:     "test-key",
		DailyQuota: dailyQuota,
	}, impl.NewQuotaRepository(env.DB), env.Clock.Now,
		option.WithEndpoint(fake.server.URL+"/"),
		option.WithHTTPClient(fake.server.Client()),
	)
	require.NoError(t, err)
	return catalog
}

func TestNewCatalogServiceRequiresKey(t *testing.T) {
	_, err := NewCatalogService(context.Background(), CatalogConfig{}, nil, nil)
	assert.Error(t, err)
}

func TestCatalogDetailsUsesCache(t *testing.T) {
	env := newTestEnv(t)
	fake := newFakeYouTube(t)
	catalog := newTestCatalog(t, env, fake, 100)

	video, err := catalog.Details(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "c1", video.ChannelID)
	assert.Equal(t, "27", video.CategoryID)
	assert.Equal(t, []string{"science", "kids"}, video.Tags)
	assert.Equal(t, 253, video.DurationSeconds)
	assert.True(t, video.Embeddable)
	assert.False(t, video.DurationUnknown)

	_, err = catalog.Details(context.Background(), "v1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), fake.requests.Load())
	used, err := catalog.QuotaUsed()
	require.NoError(t, err)
	assert.Equal(t, detailsQuotaCost, used)
}

func TestCatalogSearchSafeSearchByBracket(t *testing.T) {
	env := newTestEnv(t)
	fake := newFakeYouTube(t)
	catalog := newTestCatalog(t, env, fake, 1000)

	items, err := catalog.Search(context.Background(), "volcano", models.BracketEarlyElementary)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "v1", items[0].ID)
	assert.Equal(t, "https://img.example/v1.jpg", items[0].Thumbnail)
	assert.Equal(t, 2023, items[0].PublishedAt.Year())
	assert.Contains(t, <-fake.queries, "safeSearch=strict")

	_, err = catalog.Search(context.Background(), "volcano", models.BracketTeen)
	require.NoError(t, err)
	assert.Contains(t, <-fake.queries, "safeSearch=moderate")
}

func TestCatalogQuotaExhausted(t *testing.T) {
	env := newTestEnv(t)
	fake := newFakeYouTube(t)
	catalog := newTestCatalog(t, env, fake, searchQuotaCost+detailsQuotaCost)

	_, err := catalog.Search(context.Background(), "volcano", models.BracketTeen)
	require.NoError(t, err)

	_, err = catalog.Search(context.Background(), "volcano", models.BracketTeen)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// the remaining unit still pays for one lookup
	_, err = catalog.Details(context.Background(), "v1")
	require.NoError(t, err)

	used, err := catalog.QuotaUsed()
	require.NoError(t, err)
	assert.Equal(t, searchQuotaCost+detailsQuotaCost, used)
	assert.Equal(t, int32(2), fake.requests.Load())

	// a new day has a fresh budget
	env.Clock.Set(at(14, 9, 0))
	_, err = catalog.Search(context.Background(), "volcano", models.BracketTeen)
	assert.NoError(t, err)
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		value   string
		seconds int
		wantErr bool
	}{
		{"PT4M13S", 253, false},
		{"PT1H", 3600, false},
		{"PT1H2M3S", 3723, false},
		{"P1DT2H", 93600, false},
		{"P0D", 0, false},
		{"P1W", 604800, false},
		{"PT", 0, true},
		{"4M13S", 0, true},
		{"P1X", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			seconds, err := parseISODuration(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.seconds, seconds)
		})
	}
}

func TestCatalogDetailsMarksUnknownDuration(t *testing.T) {
	tests := []struct {
		name      string
		duration  string
		broadcast string
	}{
		{"live stream", "P0D", "live"},
		{"upcoming premiere", "PT10M", "upcoming"},
		{"unreadable", "P1X", "none"},
		{"zero length", "PT0S", "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			fake := newFakeYouTubeServing(t, `{"items": [{"id": "v9", "snippet": {"channelId": "c1", "title": "Stream", "liveBroadcastContent": "` +
				tt.broadcast + `"}, "contentDetails": {"duration": "` + tt.duration + `"}, "status": {"embeddable": true}}]}`)
			catalog := newTestCatalog(t, env, fake, 100)

			video, err := catalog.Details(context.Background(), "v9")

			require.NoError(t, err)
			assert.True(t, video.DurationUnknown)
			assert.False(t, video.HasDuration())
		})
	}
}
