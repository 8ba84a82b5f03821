package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"video_matcher/config"
	"video_matcher/logger"
	"video_matcher/metrics"
	"video_matcher/models"
	"video_matcher/nlp"
)

// VideoSelector 根据文本关键词搜索并挑选语义最接近的视频
type VideoSelector struct {
	cfg      *config.Config
	keywords *KeywordExtractor
	scorer   nlp.Scorer
	searcher VideoSearcher
	recorder SelectionRecorder // 可以为nil
}

func NewVideoSelector(cfg *config.Config, keywords *KeywordExtractor, scorer nlp.Scorer, searcher VideoSearcher, recorder SelectionRecorder) *VideoSelector {
	return &VideoSelector{
		cfg:      cfg,
		keywords: keywords,
		scorer:   scorer,
		searcher: searcher,
		recorder: recorder,
	}
}

// SelectVideos 返回最多 MaxVideos 个视频，exclude 会被原地更新。
// 搜索服务出错时立即返回错误，出错前已加入 exclude 的ID保留
func (s *VideoSelector) SelectVideos(ctx context.Context, text string, supplied []string, minDuration float64, exclude models.VideoIDSet) ([]models.SelectedVideo, error) {
	sel := s.cfg.Selection

	extracted := s.keywords.Extract(text)
	if len(extracted) == 0 {
		extracted = []string{text}
	}

	profile := make([]string, 0, len(extracted)+len(supplied))
	profile = append(profile, extracted...)
	profile = append(profile, supplied...)
	reference := strings.Join(profile, " ")

	plan := append(TopKeywords(extracted, sel.TopKeywords), supplied...)
	logger.Info("开始选片", "plan", plan, "min_duration", minDuration, "excluded", len(exclude))

	results := make([]models.SelectedVideo, 0, sel.MaxVideos)
	for _, query := range plan {
		if len(results) >= sel.MaxVideos {
			break
		}
		if strings.TrimSpace(query) == "" {
			continue
		}

		accepted, err := s.searchKeyword(ctx, query, reference, minDuration, exclude)
		if err != nil {
			metrics.Selections.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("搜索关键词 %q 失败: %w", query, err)
		}
		logger.Debug("关键词选片完成", "query", query, "accepted", len(accepted))
		results = append(results, accepted...)
	}

	fallbackUsed := false
	if len(results) < sel.MaxVideos {
		extra, err := s.searchFallback(ctx, reference, minDuration, exclude, sel.MaxVideos-len(results))
		if err != nil {
			metrics.Selections.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("兜底搜索失败: %w", err)
		}
		fallbackUsed = len(extra) > 0
		results = append(results, extra...)
	}

	if len(results) > sel.MaxVideos {
		results = results[:sel.MaxVideos]
	}

	s.observe(results, fallbackUsed)
	s.record(ctx, text, profile, minDuration, results, fallbackUsed)
	return results, nil
}

// searchKeyword 搜索单个关键词，相似度超过阈值的视频立即加入 exclude，只保留相似度最高的 PerKeyword 个
func (s *VideoSelector) searchKeyword(ctx context.Context, query, reference string, minDuration float64, exclude models.VideoIDSet) ([]models.SelectedVideo, error) {
	sel := s.cfg.Selection

	hits, err := s.searcher.Search(ctx, query, s.cfg.SafeSearchEnabled(), sel.PageSize)
	if err != nil {
		return nil, err
	}

	var accepted []models.SelectedVideo
	for _, hit := range hits {
		if !s.inDuration(hit, minDuration) || exclude.Has(hit.ID) {
			continue
		}
		similarity, err := s.scorer.Similarity(ctx, reference, hit.TagText())
		if err != nil {
			return nil, fmt.Errorf("计算相似度失败: %w", err)
		}
		if similarity <= sel.SimilarityThreshold {
			continue
		}
		url := hit.URLs.Best()
		if url == "" {
			continue
		}
		exclude.Add(hit.ID)
		accepted = append(accepted, models.SelectedVideo{ID: hit.ID, URL: url, Similarity: similarity})
	}

	sortBySimilarity(accepted)
	if len(accepted) > sel.PerKeyword {
		accepted = accepted[:sel.PerKeyword]
	}
	return accepted, nil
}

// searchFallback 搜索兜底关键词，倒序遍历结果，不设相似度下限，相似度只用于排序
func (s *VideoSelector) searchFallback(ctx context.Context, reference string, minDuration float64, exclude models.VideoIDSet, need int) ([]models.SelectedVideo, error) {
	sel := s.cfg.Selection

	hits, err := s.searcher.Search(ctx, sel.FallbackQuery, s.cfg.SafeSearchEnabled(), sel.PageSize)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var candidates []models.SelectedVideo
	for i := len(hits) - 1; i >= 0; i-- {
		hit := hits[i]
		if !s.inDuration(hit, minDuration) || exclude.Has(hit.ID) || seen[hit.ID] {
			continue
		}
		url := hit.URLs.Best()
		if url == "" {
			continue
		}
		similarity, err := s.scorer.Similarity(ctx, reference, hit.TagText())
		if err != nil {
			return nil, fmt.Errorf("计算相似度失败: %w", err)
		}
		seen[hit.ID] = true
		candidates = append(candidates, models.SelectedVideo{ID: hit.ID, URL: url, Similarity: similarity, Fallback: true})
	}

	sortBySimilarity(candidates)
	if len(candidates) > sel.MaxVideos {
		candidates = candidates[:sel.MaxVideos]
	}

	picked := make([]models.SelectedVideo, 0, need)
	for _, c := range candidates {
		if len(picked) >= need {
			break
		}
		exclude.Add(c.ID)
		picked = append(picked, c)
	}
	logger.Info("使用兜底视频", "query", sel.FallbackQuery, "candidates", len(candidates), "picked", len(picked))
	return picked, nil
}

func (s *VideoSelector) inDuration(hit models.VideoHit, minDuration float64) bool {
	return float64(hit.Duration) >= minDuration && hit.Duration <= s.cfg.Selection.MaxDurationSec
}

func (s *VideoSelector) observe(results []models.SelectedVideo, fallbackUsed bool) {
	metrics.SelectedVideos.Observe(float64(len(results)))
	switch {
	case len(results) == 0:
		metrics.Selections.WithLabelValues("empty").Inc()
	case fallbackUsed:
		metrics.Selections.WithLabelValues("fallback").Inc()
	default:
		metrics.Selections.WithLabelValues("matched").Inc()
	}
}

// record 写入选片日志，失败只记录日志不影响请求
func (s *VideoSelector) record(ctx context.Context, text string, keywords []string, minDuration float64, results []models.SelectedVideo, fallbackUsed bool) {
	if s.recorder == nil {
		return
	}
	ids := make([]int64, 0, len(results))
	for _, v := range results {
		ids = append(ids, v.ID)
	}
	rec := models.SelectionRecord{
		ID:           uuid.NewString(),
		Text:         text,
		Keywords:     keywords,
		MinDuration:  minDuration,
		VideoIDs:     ids,
		FallbackUsed: fallbackUsed,
		CreatedAt:    time.Now(),
	}
	if err := s.recorder.RecordSelection(ctx, rec); err != nil {
		logger.Warn("写入选片日志失败", "error", err)
	}
}

func sortBySimilarity(videos []models.SelectedVideo) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Similarity > videos[j].Similarity
	})
}
