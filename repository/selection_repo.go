package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"video_matcher/models"
)

// SelectionRepo 选片日志存储
type SelectionRepo struct {
	db *sql.DB
}

func NewSelectionRepo(db *sql.DB) *SelectionRepo {
	return &SelectionRepo{db: db}
}

// RecordSelection 写入一条选片记录
func (r *SelectionRepo) RecordSelection(ctx context.Context, rec models.SelectionRecord) error {
	keywords, err := json.Marshal(rec.Keywords)
	if err != nil {
		return err
	}
	if rec.VideoIDs == nil {
		rec.VideoIDs = []int64{}
	}
	videoIDs, err := json.Marshal(rec.VideoIDs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO video_selections (id, source_text, keywords, min_duration, video_ids, fallback_used, created_at)
		VALUES (?, ?, CAST(? AS JSON), ?, CAST(? AS JSON), ?, ?)
	`, rec.ID, rec.Text, string(keywords), rec.MinDuration, string(videoIDs), rec.FallbackUsed, rec.CreatedAt)
	return err
}

// PurgeBefore 删除早于cutoff的记录，返回删除条数
func (r *SelectionRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM video_selections WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
