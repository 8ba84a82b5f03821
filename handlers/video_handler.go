package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"video_matcher/config"
	_ "video_matcher/docs" // 导入 swagger 文档
	"video_matcher/logger"
	"video_matcher/metrics"
	"video_matcher/models"
	"video_matcher/services"
	"video_matcher/utils"
)

const maxBodyBytes = 1 << 20

// VideoHandler 关键词和选片接口
type VideoHandler struct {
	cfg       *config.Config
	extractor *services.KeywordExtractor
	selector  *services.VideoSelector
}

func NewVideoHandler(cfg *config.Config, extractor *services.KeywordExtractor, selector *services.VideoSelector) *VideoHandler {
	return &VideoHandler{cfg: cfg, extractor: extractor, selector: selector}
}

// readFields 读取并解析请求体，失败时已写入响应
func readFields(w http.ResponseWriter, r *http.Request, endpoint string) (utils.Fields, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		reject(w, endpoint, models.MsgInvalidBody)
		return nil, false
	}
	fields, ok := utils.ParseFields(body)
	if !ok {
		reject(w, endpoint, models.MsgInvalidBody)
		return nil, false
	}
	return fields, true
}

func reject(w http.ResponseWriter, endpoint, message string) {
	metrics.Requests.WithLabelValues(endpoint, "rejected").Inc()
	logger.Debug("请求参数校验失败", "endpoint", endpoint, "message", message)
	utils.WriteNack(w, message)
}

// GetKeywordsHandler godoc
// @Summary 提取文本关键词
// @Description 返回出现频率最高的关键词，文本为空时返回空列表
// @Tags 关键词
// @Accept json
// @Produce json
// @Param request body models.KeywordsRequest true "输入文本"
// @Success 200 {object} models.KeywordsResponse "成功，auth为false表示参数错误"
// @Router /api/v1/keywords [post]
func (h *VideoHandler) GetKeywordsHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "keywords"

	fields, ok := readFields(w, r, endpoint)
	if !ok {
		return
	}
	text, present, valid := fields.String("text")
	if !present {
		reject(w, endpoint, models.MsgTextNotFound)
		return
	}
	if !valid {
		reject(w, endpoint, models.MsgInvalidText)
		return
	}

	keywords := services.TopKeywords(h.extractor.Extract(text), h.cfg.Selection.TopKeywords)
	metrics.Requests.WithLabelValues(endpoint, "ok").Inc()
	utils.WriteSuccessResponse(w, models.KeywordsResponse{
		Ack:      models.NewAck(models.MsgKeywordsSuccess),
		Keywords: keywords,
	})
}

// GetVideosHandler godoc
// @Summary 根据文本挑选视频
// @Description 按关键词搜索Pixabay并返回语义最接近的视频，videoIds中的视频不会被选中
// @Tags 视频
// @Accept json
// @Produce json
// @Param request body models.VideosRequest true "文本、关键词、最短时长和排除的视频ID"
// @Success 200 {object} models.VideosResponse "成功，auth为false表示参数错误"
// @Failure 502 {object} models.Ack "搜索服务错误"
// @Router /api/v1/videos [post]
func (h *VideoHandler) GetVideosHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "videos"

	fields, ok := readFields(w, r, endpoint)
	if !ok {
		return
	}

	text, present, valid := fields.String("text")
	if !present {
		reject(w, endpoint, models.MsgTextNotFound)
		return
	}
	if !valid || strings.TrimSpace(text) == "" {
		reject(w, endpoint, models.MsgInvalidText)
		return
	}

	keywords, present, valid := fields.Strings("keywords")
	if !present {
		reject(w, endpoint, models.MsgKeywordsNotFound)
		return
	}
	if !valid {
		reject(w, endpoint, models.MsgInvalidKeywords)
		return
	}

	duration, present, valid := fields.Number("duration")
	if !present {
		reject(w, endpoint, models.MsgDurationNotFound)
		return
	}
	if !valid || duration <= 0 {
		reject(w, endpoint, models.MsgInvalidDuration)
		return
	}

	ids, present, valid := fields.IDs("videoIds")
	if !present {
		reject(w, endpoint, models.MsgVideoIDsNotFound)
		return
	}
	if !valid {
		reject(w, endpoint, models.MsgInvalidVideoIDs)
		return
	}

	videos, err := h.selector.SelectVideos(r.Context(), text, keywords, duration, models.NewVideoIDSet(ids...))
	if err != nil {
		metrics.Requests.WithLabelValues(endpoint, "failed").Inc()
		logger.Error("选片失败", "error", err)
		utils.WriteUpstreamError(w)
		return
	}

	metrics.Requests.WithLabelValues(endpoint, "ok").Inc()
	utils.WriteSuccessResponse(w, models.VideosResponse{
		Ack:    models.NewAck(models.MsgVideosSuccess),
		Videos: videos,
	})
}

// HealthHandler godoc
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} models.Ack "服务正常"
// @Router /api/v1/health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, models.NewAck(models.MsgHealthy))
}

func RegisterRoutes(r chi.Router, h *VideoHandler) {
	// Swagger 文档
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // Swagger JSON 的 URL
	))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", HealthHandler)
		r.Post("/keywords", h.GetKeywordsHandler)
		r.Post("/videos", h.GetVideosHandler)
	})
}
