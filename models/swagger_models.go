package models

// KeywordsRequest 关键词提取请求体，仅用于文档
type KeywordsRequest struct {
	Text string `json:"text" example:"The Eiffel Tower glows over Paris at night"`
}

// VideosRequest 选片请求体，仅用于文档。实际解析见 handlers 中的字段校验
type VideosRequest struct {
	Text     string   `json:"text" example:"Waves crash on a quiet beach at sunset"`
	Keywords []string `json:"keywords" example:"ocean,sunset"`
	Duration float64  `json:"duration" example:"10"`
	VideoIDs []int64  `json:"videoIds" example:"125,3321"`
}
