package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video_matcher/cache"
)

const pixabayBody = `{
  "total": 2,
  "totalHits": 2,
  "hits": [
    {
      "id": 125,
      "pageURL": "https://pixabay.com/videos/id-125/",
      "tags": "flowers, yellow, blossom",
      "duration": 12,
      "videos": {
        "large": {"url": "https://cdn.pixabay.com/125_large.mp4", "width": 1920},
        "medium": {"url": "https://cdn.pixabay.com/125_medium.mp4"},
        "small": {"url": ""}
      }
    },
    {
      "id": 126,
      "tags": "ocean",
      "duration": 40,
      "videos": {
        "large": {"url": ""},
        "medium": {"url": ""},
        "small": {"url": "https://cdn.pixabay.com/126_small.mp4"}
      }
    }
  ]
}`

func newTestPixabay(t *testing.T, handler http.HandlerFunc, searchCache *cache.SearchCache) *PixabayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := testConfig(t)
	cfg.Pixabay.APIKey = "test-key"
	cfg.Pixabay.BaseURL = srv.URL + "/"
	cfg.Pixabay.RequestsPerMin = 6000
	return NewPixabayClient(cfg, searchCache)
}

func TestPixabaySearch(t *testing.T) {
	client := newTestPixabay(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/videos/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "yellow flowers", q.Get("q"))
		assert.Equal(t, "true", q.Get("safesearch"))
		assert.Equal(t, "200", q.Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pixabayBody))
	}, nil)

	hits, err := client.Search(context.Background(), "yellow flowers", true, 200)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, int64(125), hits[0].ID)
	assert.Equal(t, 12, hits[0].Duration)
	assert.Equal(t, []string{"flowers", "yellow", "blossom"}, hits[0].Tags)
	assert.Equal(t, "flowers yellow blossom", hits[0].TagText())
	assert.Equal(t, "https://cdn.pixabay.com/125_large.mp4", hits[0].URLs.Best())
	assert.Equal(t, "https://pixabay.com/videos/id-125/", hits[0].PageURL)

	assert.Equal(t, "https://cdn.pixabay.com/126_small.mp4", hits[1].URLs.Best())
}

func TestPixabaySearchProviderError(t *testing.T) {
	client := newTestPixabay(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "[ERROR 429] Too many requests", http.StatusTooManyRequests)
	}, nil)

	_, err := client.Search(context.Background(), "ocean", true, 200)
	require.Error(t, err)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
	assert.Contains(t, pe.Body, "Too many requests")
}

func TestPixabaySearchMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "非JSON", body: "<html>oops</html>"},
		{name: "缺少hits", body: `{"total": 0}`},
		{name: "id类型错误", body: `{"hits": [{"id": "abc"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestPixabay(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			_, err := client.Search(context.Background(), "ocean", true, 200)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse))
		})
	}
}

func TestPixabaySearchEmptyHits(t *testing.T) {
	client := newTestPixabay(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":0,"totalHits":0,"hits":[]}`))
	}, nil)

	hits, err := client.Search(context.Background(), "nothing", true, 200)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestPixabaySearchUsesCache(t *testing.T) {
	var calls atomic.Int32
	searchCache := cache.NewSearchCache(10, time.Hour, "")
	client := newTestPixabay(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(pixabayBody))
	}, searchCache)

	for i := 0; i < 3; i++ {
		hits, err := client.Search(context.Background(), "Flowers", true, 200)
		require.NoError(t, err)
		require.Len(t, hits, 2)
	}
	assert.Equal(t, int32(1), calls.Load())

	// 不同的安全搜索参数不共享缓存
	_, err := client.Search(context.Background(), "Flowers", false, 200)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPixabaySearchErrorNotCached(t *testing.T) {
	var calls atomic.Int32
	searchCache := cache.NewSearchCache(10, time.Hour, "")
	client := newTestPixabay(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(pixabayBody))
	}, searchCache)

	_, err := client.Search(context.Background(), "ocean", true, 200)
	require.Error(t, err)

	hits, err := client.Search(context.Background(), "ocean", true, 200)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestTruncateQuery(t *testing.T) {
	long := strings.Repeat("é", 150)
	assert.Len(t, []rune(truncateQuery(long)), 100)
	assert.Equal(t, "ocean", truncateQuery("  ocean "))
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 3, clampPageSize(1))
	assert.Equal(t, 50, clampPageSize(50))
	assert.Equal(t, 200, clampPageSize(500))
}

func TestPixabaySearchTransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	cfg := testConfig(t)
	cfg.Pixabay.APIKey = "SUPERSECRETKEY123"
	cfg.Pixabay.BaseURL = srv.URL
	client := NewPixabayClient(cfg, nil)

	_, err := client.Search(context.Background(), "ocean", true, 200)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY123")
	assert.NotContains(t, err.Error(), "api/videos")
}

func TestPixabaySearchSharedFetchSurvivesCancelledCaller(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{}, 1)
	client := newTestPixabay(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(pixabayBody))
	}, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := client.Search(ctxA, "ocean", true, 200)
		errA <- err
	}()
	<-started

	type result struct {
		hits int
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		hits, err := client.Search(context.Background(), "ocean", true, 200)
		resB <- result{hits: len(hits), err: err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancelA()

	err := <-errA
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, 2, b.hits)
	assert.Equal(t, int32(1), calls.Load())
}
