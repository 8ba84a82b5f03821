package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Addr string `yaml:"-"` // 不从配置文件读取，而是在加载后计算
	} `yaml:"server"`
	Pixabay struct {
		APIKey          string `yaml:"api_key"`
		BaseURL         string `yaml:"base_url"`
		TimeoutSec      int    `yaml:"timeout_sec"`       // 单次搜索请求超时，单位：秒
		RequestsPerMin  int    `yaml:"requests_per_min"`  // 每分钟允许的搜索请求数
		Burst           int    `yaml:"burst"`             // 限流器突发容量
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"` // 搜索结果缓存时间，Pixabay要求缓存24小时
	} `yaml:"pixabay"`
	NLP struct {
		Scorer string `yaml:"scorer"` // lexical / embedding
	} `yaml:"nlp"`
	Embedding struct {
		APIKey     string `yaml:"api_key"`
		BaseURL    string `yaml:"base_url"`
		Model      string `yaml:"model"`
		Dimensions int    `yaml:"dimensions"`
		CacheSize  int    `yaml:"cache_size"` // 向量缓存条目数
	} `yaml:"embedding"`
	Selection struct {
		MaxVideos           int     `yaml:"max_videos"`           // 每次请求返回的最大视频数
		PerKeyword          int     `yaml:"per_keyword"`          // 每个关键词最多选取的视频数
		TopKeywords         int     `yaml:"top_keywords"`         // 搜索计划中按词频选取的关键词数
		MaxDurationSec      int     `yaml:"max_duration_sec"`     // 视频时长上限，单位：秒
		SimilarityThreshold float64 `yaml:"similarity_threshold"` // 相似度阈值（严格大于）
		PageSize            int     `yaml:"page_size"`            // 每次搜索返回的结果数
		FallbackQuery       string  `yaml:"fallback_query"`       // 无匹配时的兜底搜索词
		SafeSearch          *bool   `yaml:"safe_search"`
	} `yaml:"selection"`
	Cache struct {
		MaxEntries         int    `yaml:"max_entries"`
		CleanupIntervalSec int    `yaml:"cleanup_interval_sec"`
		RedisURL           string `yaml:"redis_url"` // 为空时只使用内存缓存
	} `yaml:"cache"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`

	DB struct {
		Enabled         bool   `yaml:"enabled"` // 是否记录选片日志
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		Database        string `yaml:"database"`
		Charset         string `yaml:"charset"`
		ParseTime       bool   `yaml:"parse_time"`
		DSN             string `yaml:"-"`                 // 不从配置文件读取，而是在加载后计算
		MaxOpenConns    int    `yaml:"max_open_conns"`    // 最大打开连接数
		MaxIdleConns    int    `yaml:"max_idle_conns"`    // 最大空闲连接数
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // 连接最大生命周期（分钟）
	} `yaml:"database"`
	Timeouts struct {
		RequestSec  int `yaml:"request_sec"`  // 请求超时，单位：秒
		ResponseSec int `yaml:"response_sec"` // 响应超时，单位：秒
		IdleSec     int `yaml:"idle_sec"`     // 空闲超时，单位：秒
	} `yaml:"timeouts"`
	Scheduler struct {
		CheckIntervalSec int `yaml:"check_interval_sec"` // 调度器检查间隔（秒）
		DefaultHour      int `yaml:"default_hour"`       // 日志清理执行小时
		DefaultMinute    int `yaml:"default_minute"`     // 日志清理执行分钟
		RetentionDays    int `yaml:"retention_days"`     // 选片日志保留天数
	} `yaml:"scheduler"`
}

// SafeSearchEnabled 默认开启安全搜索
func (c *Config) SafeSearchEnabled() bool {
	if c.Selection.SafeSearch == nil {
		return true
	}
	return *c.Selection.SafeSearch
}

func Load() *Config {
	// 首先尝试加载.env文件中的环境变量
	_ = godotenv.Load() // 忽略错误，如果.env文件不存在，继续使用系统环境变量

	return LoadFile(getenv("CONFIG_FILE", "config.yaml"))
}

// LoadFile 从指定yaml文件加载配置，文件不存在或解析失败时退回环境变量
func LoadFile(path string) *Config {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		// 如果config.yaml不存在，则完全从环境变量加载配置
		return loadFromEnv()
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("Error loading %s: %v, falling back to environment variables", path, err)
		return loadFromEnv()
	}
	log.Printf("Loading configuration from %s", path)

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg
}

func loadFromEnv() *Config {
	var cfg Config
	applyEnv(&cfg)
	applyDefaults(&cfg)
	log.Println("配置从环境变量加载，未设置的项使用默认值")
	return &cfg
}

// applyEnv 环境变量优先于配置文件中的敏感信息和端口
func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	// Pixabay API密钥
	if apiKey := os.Getenv("PIXABAY_API_AUTH_KEY"); apiKey != "" {
		cfg.Pixabay.APIKey = apiKey
	}

	// 向量服务
	if apiKey := os.Getenv("EMBEDDING_API_KEY"); apiKey != "" {
		cfg.Embedding.APIKey = apiKey
	}
	if scorer := os.Getenv("NLP_SCORER"); scorer != "" {
		cfg.NLP.Scorer = scorer
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Cache.RedisURL = redisURL
	}

	// 数据库用户名和密码
	if username := os.Getenv("DATABASE_USERNAME"); username != "" {
		cfg.DB.Username = username
	}
	if password := os.Getenv("DATABASE_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
		cfg.DB.Enabled = true
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8001
	}
	// 计算 Server.Addr 字段
	cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

	if cfg.Pixabay.BaseURL == "" {
		cfg.Pixabay.BaseURL = "https://pixabay.com"
	}
	if cfg.Pixabay.TimeoutSec <= 0 {
		cfg.Pixabay.TimeoutSec = 15
	}
	if cfg.Pixabay.RequestsPerMin <= 0 {
		cfg.Pixabay.RequestsPerMin = 100
	}
	if cfg.Pixabay.Burst <= 0 {
		cfg.Pixabay.Burst = 10
	}
	if cfg.Pixabay.CacheTTLSeconds <= 0 {
		cfg.Pixabay.CacheTTLSeconds = 24 * 60 * 60
	}

	if cfg.NLP.Scorer == "" {
		cfg.NLP.Scorer = "lexical"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.CacheSize <= 0 {
		cfg.Embedding.CacheSize = 5000
	}

	if cfg.Selection.MaxVideos <= 0 {
		cfg.Selection.MaxVideos = 6
	}
	if cfg.Selection.PerKeyword <= 0 {
		cfg.Selection.PerKeyword = 2
	}
	if cfg.Selection.TopKeywords <= 0 {
		cfg.Selection.TopKeywords = 5
	}
	if cfg.Selection.MaxDurationSec <= 0 {
		cfg.Selection.MaxDurationSec = 300
	}
	if cfg.Selection.SimilarityThreshold <= 0 {
		cfg.Selection.SimilarityThreshold = 0.5
	}
	if cfg.Selection.PageSize <= 0 {
		cfg.Selection.PageSize = 200
	}
	if cfg.Selection.FallbackQuery == "" {
		cfg.Selection.FallbackQuery = "abstract"
	}

	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = 1000
	}
	if cfg.Cache.CleanupIntervalSec <= 0 {
		cfg.Cache.CleanupIntervalSec = 300
	}

	if cfg.Timeouts.RequestSec <= 0 {
		cfg.Timeouts.RequestSec = 60
	}
	if cfg.Timeouts.ResponseSec <= 0 {
		cfg.Timeouts.ResponseSec = 90
	}
	if cfg.Timeouts.IdleSec <= 0 {
		cfg.Timeouts.IdleSec = 120
	}

	if cfg.Scheduler.CheckIntervalSec <= 0 {
		cfg.Scheduler.CheckIntervalSec = 60
	}
	if cfg.Scheduler.RetentionDays <= 0 {
		cfg.Scheduler.RetentionDays = 30
	}

	// 计算 DB.DSN 字段
	if cfg.DB.DSN == "" && cfg.DB.Host != "" {
		if cfg.DB.Charset == "" {
			cfg.DB.Charset = "utf8mb4"
		}
		parseTime := ""
		if cfg.DB.ParseTime {
			parseTime = "&parseTime=true"
		}
		cfg.DB.DSN = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s%s",
			cfg.DB.Username,
			cfg.DB.Password,
			cfg.DB.Host,
			cfg.DB.Port,
			cfg.DB.Database,
			cfg.DB.Charset,
			parseTime)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
