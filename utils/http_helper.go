package utils

import (
	"encoding/json"
	"net/http"

	"video_matcher/logger"
	"video_matcher/models"
)

// WriteFormattedJSON 格式化JSON输出，使其更易读
func WriteFormattedJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ") // 使用4个空格缩进
	if err := encoder.Encode(data); err != nil {
		logger.Warn("写入响应失败", "error", err)
	}
}

// WriteSuccessResponse 写入成功响应
func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteFormattedJSON(w, http.StatusOK, data)
}

// WriteNack 写入校验失败响应，校验失败不是传输层错误，状态码仍为200
func WriteNack(w http.ResponseWriter, message string) {
	WriteFormattedJSON(w, http.StatusOK, models.NewNack(message))
}

// WriteUpstreamError 搜索服务出错时返回502，错误详情只记录在服务端日志
func WriteUpstreamError(w http.ResponseWriter) {
	WriteFormattedJSON(w, http.StatusBadGateway, models.NewNack(models.MsgSearchFailed))
}
