// Package main 是应用程序入口
package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/dumeirei/hotel-booking-backend/docs"
	"github.com/dumeirei/hotel-booking-backend/internal/common/cache"
	"github.com/dumeirei/hotel-booking-backend/internal/common/config"
	"github.com/dumeirei/hotel-booking-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-booking-backend/internal/common/metrics"
	auditMiddleware "github.com/dumeirei/hotel-booking-backend/internal/common/middleware"
	adminHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/admin"
	bookingHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/booking"
	hotelHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/hotel"
	ratingHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/rating"
	roomHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/room"
	uploadHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/upload"
	userHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/user"
	"github.com/dumeirei/hotel-booking-backend/internal/middleware"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
	authService "github.com/dumeirei/hotel-booking-backend/internal/service/auth"
	bookingService "github.com/dumeirei/hotel-booking-backend/internal/service/booking"
	hotelService "github.com/dumeirei/hotel-booking-backend/internal/service/hotel"
	ratingService "github.com/dumeirei/hotel-booking-backend/internal/service/rating"
	uploadService "github.com/dumeirei/hotel-booking-backend/internal/service/upload"
	userService "github.com/dumeirei/hotel-booking-backend/internal/service/user"
	"github.com/dumeirei/hotel-booking-backend/pkg/oss"
	"github.com/dumeirei/hotel-booking-backend/pkg/sms"
)

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	hotelRepo := repository.NewHotelRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	opLogRepo := repository.NewOperationLogRepository(db)

	// 初始化外部服务客户端
	smsSender := newSMSSender(cfg, logger)
	uploader := newUploader(cfg, logger)

	// 预订和评分的并发控制锁
	locker := cache.NewLocker(redisClient,
		cache.WithTTL(time.Duration(cfg.Business.Booking.LockTimeout)*time.Second),
	)

	// 初始化服务
	codeSvc := authService.NewCodeService(redisClient, smsSender, &authService.CodeServiceConfig{
		CodeLength: 6,
		ExpireIn:   time.Duration(cfg.SMS.CodeExpire) * time.Minute,
	})
	authSvc := authService.NewAuthService(db, userRepo, jwtManager)
	userSvc := userService.NewUserService(db, userRepo)
	hotelSvc := hotelService.NewHotelService(db, hotelRepo, roomRepo, userRepo, bookingRepo)
	roomSvc := hotelService.NewRoomService(db, roomRepo, hotelRepo, bookingRepo)
	bookingSvc := bookingService.NewBookingService(db, bookingRepo, roomRepo, hotelRepo, userRepo, locker, smsSender)
	ratingSvc := ratingService.NewRatingService(db, ratingRepo, bookingRepo, hotelRepo, locker)
	uploadSvc := uploadService.NewUploadService(uploader, userRepo)

	// 初始化处理器
	userH := userHandler.NewHandler(authSvc, userSvc, codeSvc)
	hotelH := hotelHandler.NewHandler(hotelSvc)
	roomH := roomHandler.NewHandler(roomSvc)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	ratingH := ratingHandler.NewHandler(ratingSvc)
	uploadH := uploadHandler.NewHandler(uploadSvc)
	adminH := adminHandler.NewHandler(bookingSvc, userSvc, roomSvc, opLogRepo)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.CORS(nil))
	r.Use(middleware.AccessLog(logger))
	if cfg.Metrics.Enabled {
		r.Use(metrics.GetMetrics().Middleware())
	}
	if cfg.Tracing.Enabled {
		r.Use(auditMiddleware.Tracing(&auditMiddleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
			SkipPaths:   []string{"/health", "/ping", "/ready", "/metrics"},
		}))
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig(redisClient)))
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Prometheus 指标
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 角色中间件
	auth := middleware.Auth(jwtManager)
	adminOnly := middleware.AdminAuth(jwtManager)
	ownerOnly := middleware.RequireOwnerOrAdmin()

	// API v1 路由组，管理员和业主的写操作进审计日志
	opLogger := auditMiddleware.NewOperationLogger(opLogRepo)
	v1 := r.Group("/api/v1")
	v1.Use(opLogger.Log())
	{
		userH.RegisterRoutes(v1, auth)
		hotelH.RegisterRoutes(v1, auth, adminOnly, ownerOnly)
		roomH.RegisterRoutes(v1, auth)
		bookingH.RegisterRoutes(v1, auth)
		ratingH.RegisterRoutes(v1, auth)
		uploadH.RegisterRoutes(v1, auth)
		adminH.RegisterRoutes(v1, adminOnly)
	}

	// 未匹配路由
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "接口不存在",
		})
	})
}

// newSMSSender 按配置创建短信客户端，凭证缺失时退回 Mock
func newSMSSender(cfg *config.Config, logger *zap.Logger) sms.Sender {
	if cfg.SMS.Provider == "aliyun" && cfg.SMS.AccessKeyID != "" {
		sender, err := sms.NewAliyunSender(&sms.AliyunConfig{
			AccessKeyID:     cfg.SMS.AccessKeyID,
			AccessKeySecret: cfg.SMS.AccessKeySecret,
			SignName:        cfg.SMS.SignName,
		})
		if err != nil {
			logger.Warn("Failed to init aliyun sms client, falling back to mock", zap.Error(err))
			return sms.NewMockSender()
		}
		return sender
	}
	return sms.NewMockSender()
}

// newUploader 按配置创建对象存储客户端，凭证缺失时退回 Mock
func newUploader(cfg *config.Config, logger *zap.Logger) oss.Uploader {
	if cfg.OSS.Provider == "aliyun" && cfg.OSS.AccessKeyID != "" {
		uploader, err := oss.NewAliyunUploader(&oss.AliyunConfig{
			Endpoint:        cfg.OSS.Endpoint,
			AccessKeyID:     cfg.OSS.AccessKeyID,
			AccessKeySecret: cfg.OSS.AccessKeySecret,
			BucketName:      cfg.OSS.Bucket,
			Domain:          cfg.OSS.CustomDomain,
			BasePath:        cfg.OSS.UploadDir,
		})
		if err != nil {
			logger.Warn("Failed to init aliyun oss client, falling back to mock", zap.Error(err))
			return oss.NewMockUploader()
		}
		return uploader
	}
	return oss.NewMockUploader()
}
