package models

import (
	"strings"
	"time"
)

// VideoURLs 同一视频不同清晰度的播放地址，任意一项都可能为空
type VideoURLs struct {
	Large  string `json:"large,omitempty"`
	Medium string `json:"medium,omitempty"`
	Small  string `json:"small,omitempty"`
}

// Best 按清晰度从高到低返回第一个非空地址
func (u VideoURLs) Best() string {
	for _, url := range []string{u.Large, u.Medium, u.Small} {
		if url != "" {
			return url
		}
	}
	return ""
}

// VideoHit 外部视频搜索结果
type VideoHit struct {
	ID       int64     `json:"id"`
	Duration int       `json:"duration"` // 秒
	Tags     []string  `json:"tags"`
	URLs     VideoURLs `json:"videos"`
	PageURL  string    `json:"page_url,omitempty"`
}

// TagText 把标签拼接为一段文本，去掉分隔符，用于相似度计算
func (h VideoHit) TagText() string {
	parts := make([]string, 0, len(h.Tags))
	for _, tag := range h.Tags {
		tag = strings.TrimSpace(strings.ReplaceAll(tag, ",", ""))
		if tag != "" {
			parts = append(parts, tag)
		}
	}
	return strings.Join(parts, " ")
}

// SelectedVideo 返回给调用方的视频
type SelectedVideo struct {
	ID         int64   `json:"id"`
	URL        string  `json:"url"`
	Similarity float64 `json:"similarity"`
	Fallback   bool    `json:"fallback,omitempty"` // 兜底搜索选出的视频，不保证相关性
}

// VideoIDSet 调用方持有的已返回视频ID集合，选片过程中只增不减
type VideoIDSet map[int64]struct{}

// NewVideoIDSet 从ID列表创建集合
func NewVideoIDSet(ids ...int64) VideoIDSet {
	set := make(VideoIDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s VideoIDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s VideoIDSet) Add(id int64) {
	s[id] = struct{}{}
}

// SelectionRecord 一次选片的审计记录
type SelectionRecord struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	Keywords     []string  `json:"keywords"`
	MinDuration  float64   `json:"min_duration"`
	VideoIDs     []int64   `json:"video_ids"`
	FallbackUsed bool      `json:"fallback_used"`
	CreatedAt    time.Time `json:"created_at"`
}
