package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"video_matcher/cache"
	"video_matcher/config"
	"video_matcher/logger"
	"video_matcher/metrics"
	"video_matcher/models"
)

const (
	pixabayMaxQueryLen = 100 // Pixabay对q参数的长度限制
	pixabayMinPageSize = 3
	pixabayMaxPageSize = 200
)

// ErrMalformedResponse 搜索服务返回的内容无法解析
var ErrMalformedResponse = errors.New("malformed provider response")

// ProviderError 搜索服务返回非200状态码，429表示被限流
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("pixabay返回错误 (HTTP %d): %s", e.StatusCode, e.Body)
}

// PixabayClient Pixabay视频搜索客户端，带限流、缓存和相同请求合并
type PixabayClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	cache   *cache.SearchCache // 为nil时不缓存
	group   singleflight.Group
}

// NewPixabayClient 创建客户端，searchCache可以为nil
func NewPixabayClient(cfg *config.Config, searchCache *cache.SearchCache) *PixabayClient {
	if cfg.Pixabay.APIKey == "" {
		logger.Warn("未配置Pixabay API密钥，搜索请求将被拒绝", "env", "PIXABAY_API_AUTH_KEY")
	}

	interval := time.Minute / time.Duration(cfg.Pixabay.RequestsPerMin)
	return &PixabayClient{
		apiKey:  cfg.Pixabay.APIKey,
		baseURL: strings.TrimSuffix(cfg.Pixabay.BaseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(cfg.Pixabay.TimeoutSec) * time.Second},
		limiter: rate.NewLimiter(rate.Every(interval), cfg.Pixabay.Burst),
		cache:   searchCache,
	}
}

// Search 搜索视频，命中缓存时不发起请求
func (c *PixabayClient) Search(ctx context.Context, query string, safeSearch bool, pageSize int) ([]models.VideoHit, error) {
	key := cache.Key(query, safeSearch, pageSize)
	if c.cache != nil {
		if hits, ok := c.cache.Get(ctx, key); ok {
			metrics.ProviderRequests.WithLabelValues("cached").Inc()
			logger.Debug("搜索命中缓存", "query", query, "hits", len(hits))
			return hits, nil
		}
	}

	// 合并后的请求不随某个调用方取消，超时由http.Client控制
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		hits, err := c.fetch(shared, query, safeSearch, pageSize)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.Set(shared, key, hits)
		}
		return hits, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "搜索已取消")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.VideoHit), nil
	}
}

func (c *PixabayClient) fetch(ctx context.Context, query string, safeSearch bool, pageSize int) ([]models.VideoHit, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "等待限流器失败")
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", truncateQuery(query))
	params.Set("safesearch", strconv.FormatBool(safeSearch))
	params.Set("per_page", strconv.Itoa(clampPageSize(pageSize)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/videos/?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "创建搜索请求失败")
	}
	req.Header.Set("accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ProviderLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		err = stripURL(err)
		metrics.ProviderRequests.WithLabelValues("error").Inc()
		logger.Error("搜索请求失败", "query", query, "error", err)
		return nil, errors.Wrap(err, "pixabay连接失败")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "读取搜索响应失败")
	}

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequests.WithLabelValues("error").Inc()
		logger.Error("搜索服务返回错误状态码", "query", query, "status_code", resp.StatusCode)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	hits, err := parseHits(body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("error").Inc()
		logger.Error("解析搜索响应失败", "query", query, "error", err)
		return nil, err
	}

	metrics.ProviderRequests.WithLabelValues("ok").Inc()
	logger.Info("搜索完成", "query", query, "hits", len(hits), "elapsed", time.Since(start))
	return hits, nil
}

// parseHits 解析 {"hits":[{"id","duration","tags","videos":{"large":{"url"}...}}]}
func parseHits(body []byte) ([]models.VideoHit, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	result := gjson.GetBytes(body, "hits")
	if !result.IsArray() {
		return nil, errors.Wrap(ErrMalformedResponse, "hits字段缺失")
	}

	var hits []models.VideoHit
	var parseErr error
	result.ForEach(func(_, h gjson.Result) bool {
		id := h.Get("id")
		if id.Type != gjson.Number {
			parseErr = errors.Wrap(ErrMalformedResponse, "视频id无效")
			return false
		}
		hits = append(hits, models.VideoHit{
			ID:       id.Int(),
			Duration: int(h.Get("duration").Int()),
			Tags:     splitTags(h.Get("tags").String()),
			URLs: models.VideoURLs{
				Large:  h.Get("videos.large.url").String(),
				Medium: h.Get("videos.medium.url").String(),
				Small:  h.Get("videos.small.url").String(),
			},
			PageURL: h.Get("pageURL").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return hits, nil
}

// stripURL 去掉*url.Error中带API密钥的请求地址
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func splitTags(tags string) []string {
	parts := strings.Split(tags, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func truncateQuery(query string) string {
	runes := []rune(strings.TrimSpace(query))
	if len(runes) > pixabayMaxQueryLen {
		runes = runes[:pixabayMaxQueryLen]
	}
	return string(runes)
}

func clampPageSize(n int) int {
	if n < pixabayMinPageSize {
		return pixabayMinPageSize
	}
	if n > pixabayMaxPageSize {
		return pixabayMaxPageSize
	}
	return n
}
