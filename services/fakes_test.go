package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"video_matcher/config"
	"video_matcher/models"
	"video_matcher/nlp"
)

// testConfig 不读取配置文件，只使用默认值
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
}

type fakeTagger struct {
	tokens   []nlp.Token
	entities []nlp.Entity
}

func (f *fakeTagger) Tag(string) []nlp.Token       { return f.tokens }
func (f *fakeTagger) Entities(string) []nlp.Entity { return f.entities }
func nouns(words ...string) *fakeTagger {
	tokens := make([]nlp.Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, nlp.Token{Text: w, Tag: "NN"})
	}
	return &fakeTagger{tokens: tokens}
}

// fakeScorer 按视频标签文本返回固定分数，未配置的标签得0分
type fakeScorer struct {
	scores map[string]float64
	err    error
}

func (f *fakeScorer) Similarity(_ context.Context, _, b string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.scores[b], nil
}

type searchCall struct {
	query      string
	safeSearch bool
	pageSize   int
}

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]models.VideoHit
	errs    map[string]error
	queries []string
	calls   []searchCall
}

func (f *fakeSearcher) Search(_ context.Context, query string, safeSearch bool, pageSize int) ([]models.VideoHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.calls = append(f.calls, searchCall{query: query, safeSearch: safeSearch, pageSize: pageSize})
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

type fakeRecorder struct {
	records []models.SelectionRecord
	err     error
}

func (f *fakeRecorder) RecordSelection(_ context.Context, rec models.SelectionRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

func hit(id int64, duration int, tag string) models.VideoHit {
	return models.VideoHit{
		ID:       id,
		Duration: duration,
		Tags:     []string{tag},
		URLs:     models.VideoURLs{Large: fmt.Sprintf("https://cdn.example.com/%d_large.mp4", id)},
	}
}
