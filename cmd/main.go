package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"agrihub/internal/dao"
	"agrihub/internal/handler"
	"agrihub/internal/model"
	"agrihub/internal/service"
	"agrihub/pkg/auth"
	"agrihub/pkg/database"
	"agrihub/pkg/kafka"
	"agrihub/pkg/logger"
	"agrihub/pkg/middleware"
	"agrihub/pkg/redis"
	"agrihub/pkg/telemetry"
)

const serviceName = "agrihub-search"

func main() {
	initConfig()

	log, err := logger.NewLogger(viper.GetString("log.level"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	// OpenTelemetry
	tp, err := telemetry.NewProvider(&telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    viper.GetString("env"),
		SampleRate:     viper.GetFloat64("telemetry.sample_rate"),
	})
	if err != nil {
		log.Fatal(ctx, "Failed to init telemetry", logger.F("error", err.Error()))
	}

	// MongoDB 内容库
	mongoDB, err := database.NewMongoDB(viper.GetString("mongodb.uri"), viper.GetString("mongodb.database"))
	if err != nil {
		log.Fatal(ctx, "Failed to connect MongoDB", logger.F("error", err.Error()))
	}

	// PostgreSQL 分析库
	pg, err := database.NewPostgreSQL(viper.GetString("postgres.dsn"))
	if err != nil {
		log.Fatal(ctx, "Failed to connect PostgreSQL", logger.F("error", err.Error()))
	}
	if err := pg.AutoMigrate(&model.SearchAnalytics{}, &model.SearchClick{}); err != nil {
		log.Fatal(ctx, "Failed to migrate analytics tables", logger.F("error", err.Error()))
	}

	// Redis 缓存，连不上时退化为空实现，检索功能不受影响
	var cacheService service.CacheService
	redisClient := redis.NewRedisClient(
		viper.GetString("redis.addr"),
		viper.GetString("redis.password"),
		viper.GetInt("redis.db"),
	)
	if err := redisClient.Ping(ctx); err != nil {
		log.Warn(ctx, "Redis unreachable, cache disabled", logger.F("error", err.Error()))
		cacheService = service.NewNoopCacheService()
	} else {
		cacheService = service.NewRedisCacheService(redisClient, log)
	}

	// Kafka 搜索事件
	var (
		eventService = service.NewNoopEventService()
		producer     *kafka.Producer
	)
	if brokers := viper.GetStringSlice("kafka.brokers"); len(brokers) > 0 {
		producer, err = kafka.InitProducer(brokers)
		if err != nil {
			log.Warn(ctx, "Kafka unreachable, events disabled", logger.F("error", err.Error()))
		} else {
			eventService = service.NewKafkaEventService(producer, viper.GetString("kafka.topic"), log)
			go drainProducerErrors(producer, log)
		}
	}

	serviceConfig := service.DefaultServiceConfig()
	serviceConfig.SearchTimeout = viper.GetInt("search.timeout_ms")
	serviceConfig.EventEnabled = producer != nil
	serviceConfig.EventTopic = viper.GetString("kafka.topic")

	contentDAO := dao.NewContentDAO(mongoDB, log)
	analyticsDAO := dao.NewAnalyticsDAO(pg, log)

	analyticsService := service.NewAnalyticsService(analyticsDAO, serviceConfig.AnalyticsQueueSize, log)
	searchService := service.NewSearchService(contentDAO, analyticsService, cacheService, eventService, serviceConfig, log)

	// HTTP
	if viper.GetString("env") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(),
		otelgin.Middleware(serviceName),
	)

	authMW := middleware.NewAuthMiddleware(log, &auth.JWTConfig{
		Secret:     viper.GetString("jwt.secret"),
		ExpireTime: viper.GetDuration("jwt.expire"),
	})

	h := handler.NewHTTPHandler(searchService, analyticsService, log)
	h.RegisterRoutes(engine, authMW.GinAuth())
	engine.GET("/health", healthHandler(mongoDB, pg))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", viper.GetInt("server.port")),
		Handler: engine,
	}

	go func() {
		log.Info(ctx, "HTTP server starting", logger.F("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(ctx, "HTTP server failed", logger.F("error", err.Error()))
		}
	}()

	// 优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info(ctx, "Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "HTTP server shutdown failed", logger.F("error", err.Error()))
	}
	analyticsService.Close()
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error(ctx, "Kafka producer close failed", logger.F("error", err.Error()))
		}
	}
	_ = redisClient.Close()
	_ = pg.Close()
	_ = mongoDB.Close()
	_ = tp.Shutdown(shutdownCtx)
	log.Info(ctx, "Server stopped")
}

// initConfig 加载配置：配置文件 + 环境变量，环境变量优先
func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("AGRIHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("env", "development")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongodb.database", "agrihub")
	viper.SetDefault("postgres.dsn", "host=localhost user=postgres password=postgres dbname=agrihub port=5432 sslmode=disable")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("kafka.topic", "search-events")
	viper.SetDefault("jwt.secret", "change-me")
	viper.SetDefault("jwt.expire", "24h")
	viper.SetDefault("search.timeout_ms", 5000)
	viper.SetDefault("telemetry.sample_rate", 1.0)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}
}

// healthHandler 存活与依赖健康检查
func healthHandler(mongoDB *database.MongoDB, pg *database.PostgreSQL) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := gin.H{"mongodb": "up", "postgres": "up"}
		if err := mongoDB.Health(ctx); err != nil {
			deps["mongodb"] = "down"
			status = http.StatusServiceUnavailable
		}
		if err := pg.Health(ctx); err != nil {
			deps["postgres"] = "down"
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "dependencies": deps})
	}
}

// drainProducerErrors 异步生产失败仅记录日志
func drainProducerErrors(p *kafka.Producer, log logger.Logger) {
	for err := range p.Errors() {
		log.Warn(context.Background(), "Kafka produce failed", logger.F("error", err.Error()))
	}
}
