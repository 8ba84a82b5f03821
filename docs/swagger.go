package docs

// @title 视频匹配服务 API
// @version 1.0
// @description 从文本中提取关键词，并从Pixabay挑选语义最接近的视频
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8001
// @BasePath /
// @schemes http https
