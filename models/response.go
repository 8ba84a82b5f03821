package models

// 校验失败时返回的消息
const (
	MsgInvalidBody      = "Invalid request body"
	MsgTextNotFound     = "Input text not found"
	MsgInvalidText      = "Invalid input text"
	MsgKeywordsNotFound = "Input keywords not found"
	MsgInvalidKeywords  = "Invalid input keywords"
	MsgDurationNotFound = "Input duration not found"
	MsgInvalidDuration  = "Invalid input duration"
	MsgVideoIDsNotFound = "Input videoIds not found"
	MsgInvalidVideoIDs  = "Invalid input videoIds"
	MsgKeywordsSuccess  = "Successfully got keywords"
	MsgVideosSuccess    = "Successfully got video data"
	MsgSearchFailed     = "Failed to search videos"
	MsgHealthy          = "ok"
)

// Ack 所有接口的响应包络，auth为false表示请求被拒绝
type Ack struct {
	Auth    bool   `json:"auth" example:"true"`
	Message string `json:"message" example:"Successfully got video data"`
}

// NewAck 创建成功响应
func NewAck(message string) Ack {
	return Ack{Auth: true, Message: message}
}

// NewNack 创建失败响应
func NewNack(message string) Ack {
	return Ack{Auth: false, Message: message}
}

// KeywordsResponse 关键词提取响应
type KeywordsResponse struct {
	Ack
	Keywords []string `json:"keywords"`
}

// VideosResponse 选片响应
type VideosResponse struct {
	Ack
	Videos []SelectedVideo `json:"videos"`
}
