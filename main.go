package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"video_matcher/cache"
	"video_matcher/config"
	"video_matcher/db"
	"video_matcher/handlers"
	"video_matcher/logger"
	"video_matcher/nlp"
	"video_matcher/repository"
	"video_matcher/scheduler"
	"video_matcher/services"
)

// newEngine 按配置组合词性标注器和相似度打分器
func newEngine(cfg *config.Config) *nlp.Engine {
	var scorer nlp.Scorer
	switch cfg.NLP.Scorer {
	case "embedding":
		scorer = nlp.NewEmbeddingScorer(nlp.EmbeddingConfig{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			CacheSize:  cfg.Embedding.CacheSize,
		})
	default:
		scorer = nlp.NewLexicalScorer()
	}
	return nlp.New(nlp.NewProseTagger(), scorer)
}

func main() {
	cfg := config.Load()

	// 初始化日志系统
	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	logger.Info("日志系统初始化成功", "level", cfg.Log.Level, "format", cfg.Log.Format, "output", cfg.Log.Output)

	logger.Info("加载语言能力", "tagger", "prose", "scorer", cfg.NLP.Scorer)
	engine := newEngine(cfg)

	searchCache := cache.NewSearchCache(cfg.Cache.MaxEntries, time.Duration(cfg.Pixabay.CacheTTLSeconds)*time.Second, cfg.Cache.RedisURL)
	defer searchCache.Close()
	pixabay := services.NewPixabayClient(cfg, searchCache)

	// 选片日志是可选的，未配置数据库时不记录
	var recorder services.SelectionRecorder
	var purger scheduler.SelectionPurger
	if cfg.DB.Enabled && cfg.DB.DSN != "" {
		conn, err := db.OpenMySQL(cfg)
		if err != nil {
			logger.Error("初始化MySQL失败", "error", err)
			os.Exit(1)
		}
		defer conn.Close()
		logger.Info("MySQL连接成功",
			"max_open_conns", cfg.DB.MaxOpenConns,
			"max_idle_conns", cfg.DB.MaxIdleConns,
			"conn_max_lifetime", cfg.DB.ConnMaxLifetime)

		if err := db.RunMigrations(conn); err != nil {
			logger.Error("数据库迁移失败", "error", err)
			os.Exit(1)
		}
		repo := repository.NewSelectionRepo(conn)
		recorder = repo
		purger = repo
	} else {
		logger.Info("未配置数据库，不记录选片日志")
	}

	extractor := services.NewKeywordExtractor(engine)
	selector := services.NewVideoSelector(cfg, extractor, engine, pixabay, recorder)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.Timeouts.RequestSec) * time.Second))

	handlers.RegisterRoutes(r, handlers.NewVideoHandler(cfg, extractor, selector))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// start cron
	scheduler.NewScheduler(cfg, searchCache, purger).Start(ctx)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Timeouts.RequestSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Timeouts.ResponseSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Timeouts.IdleSec) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("服务器关闭失败", "error", err)
		}
	}()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("服务器启动", "address", serverAddr)
	logger.Info("Swagger文档可访问", "url", fmt.Sprintf("http://%s/swagger/index.html", serverAddr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("服务器异常退出", "error", err)
		os.Exit(1)
	}
	logger.Info("服务器已停止")
}
