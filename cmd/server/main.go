package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/grandfamily/YijiaERP-sub001/internal/config"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/eventbus"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/handler"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/repository"
	"github.com/grandfamily/YijiaERP-sub001/internal/erp/service"
	"github.com/grandfamily/YijiaERP-sub001/internal/middleware"
	"github.com/grandfamily/YijiaERP-sub001/internal/sse"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 本地开发加载.env
	godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting yijia-erp service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化Redis（未配置时降级为无缓存）
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = initRedis(cfg.Redis)
	}

	// 初始化MinIO（未配置时照片上传不落盘）
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			zapLogger.Warn("Failed to init MinIO client", zap.Error(err))
			minioClient = nil
		}
	}

	// 初始化依赖
	repos := repository.NewRepositories()
	bus := eventbus.New()
	hub := sse.NewHub(zapLogger)
	services := service.NewServices(repos, bus, rdb, minioClient, cfg.MinIO.Bucket, zapLogger)
	handlers := handler.NewHandlers(services, hub)

	// 启动跨模块同步器并补齐存量数据
	services.Sync.Start()
	defer services.Sync.Stop()
	if err := services.Sync.Resync(context.Background()); err != nil {
		zapLogger.Warn("Initial resync failed", zap.Error(err))
	}

	// 下游联动事件推送到SSE
	registerBusSubscriptions(bus, hub, zapLogger)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/erp/events"})))

	// 注册路由
	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// registerBusSubscriptions 把三路下游联动事件广播给前端
func registerBusSubscriptions(bus *eventbus.Bus, hub *sse.Hub, logger *zap.Logger) {
	forward := func(eventType string) eventbus.Handler {
		return func(ev eventbus.Event) {
			data := fmt.Sprintf(`{"order_id":"%s","sku":"%s"}`, ev.OrderID, ev.SKU)
			hub.Broadcast(sse.Event{EventType: eventType, Data: data})
			logger.Info("Downstream event published",
				zap.String("topic", ev.Topic),
				zap.String("order_id", ev.OrderID),
				zap.String("sku", ev.SKU))
		}
	}
	bus.Subscribe(eventbus.TopicScheduleCreated, forward("schedule_created"))
	bus.Subscribe(eventbus.TopicQualityIntakeCreated, forward("quality_intake_created"))
	bus.Subscribe(eventbus.TopicRejectedOrderCreated, forward("rejected_order_created"))
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	erp := v1.Group("/erp")
	erp.Use(middleware.JWTAuth(cfg.JWT.Secret))
	h.RegisterRoutes(erp)
}
