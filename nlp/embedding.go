package nlp

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"video_matcher/cache"
)

// Embedder 生成文本向量，go-openai 客户端满足该接口
type Embedder interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// EmbeddingConfig 向量服务配置，兼容所有OpenAI协议的服务
type EmbeddingConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	CacheSize  int
}

// EmbeddingScorer 基于文本向量余弦相似度的打分器，负值截断为0。
// 向量按文本缓存，同一请求内的参考文本只需计算一次。
type EmbeddingScorer struct {
	client     Embedder
	model      string
	dimensions int
	vectors    *cache.LRU[string, []float32]
}

func NewEmbeddingScorer(cfg EmbeddingConfig) *EmbeddingScorer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return NewEmbeddingScorerWithClient(openai.NewClientWithConfig(clientConfig), cfg)
}

func NewEmbeddingScorerWithClient(client Embedder, cfg EmbeddingConfig) *EmbeddingScorer {
	return &EmbeddingScorer{
		client:     client,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		vectors:    cache.NewLRU[string, []float32](cfg.CacheSize, 0),
	}
}

func (s *EmbeddingScorer) Similarity(ctx context.Context, a, b string) (float64, error) {
	if len(Terms(a)) == 0 || len(Terms(b)) == 0 {
		return 0, nil
	}
	if a == b {
		return 1, nil
	}

	vectors, err := s.embed(ctx, a, b)
	if err != nil {
		return 0, err
	}
	return clamp(cosine(vectors[0], vectors[1])), nil
}

// embed 返回与texts顺序一致的向量，只请求缓存中没有的文本
func (s *EmbeddingScorer) embed(ctx context.Context, texts ...string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, ok := s.vectors.Get(text); ok {
			result[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return result, nil
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      missing,
		Model:      openai.EmbeddingModel(s.model),
		Dimensions: s.dimensions,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create embeddings failed")
	}
	if len(resp.Data) != len(missing) {
		return nil, errors.Errorf("embedding response has %d vectors, want %d", len(resp.Data), len(missing))
	}

	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(missing) {
			return nil, errors.Errorf("embedding response index %d out of range", data.Index)
		}
		s.vectors.Set(missing[data.Index], data.Embedding)
		result[missingIdx[data.Index]] = data.Embedding
	}
	return result, nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
