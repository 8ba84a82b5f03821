package services

import (
	"context"

	"video_matcher/models"
)

// VideoSearcher 外部视频搜索服务，只返回第一页结果
type VideoSearcher interface {
	Search(ctx context.Context, query string, safeSearch bool, pageSize int) ([]models.VideoHit, error)
}

// SelectionRecorder 记录每次选片结果，实现方需保证并发安全
type SelectionRecorder interface {
	RecordSelection(ctx context.Context, rec models.SelectionRecord) error
}
