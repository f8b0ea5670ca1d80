package http

import (
	"context"
	"net/http"
	"time"

	"MaintLens/internal/config"
	"MaintLens/internal/initial"
	jwtMiddleware "MaintLens/internal/middleware/jwt"
	"MaintLens/internal/middleware/tenant"
	analysisService "MaintLens/internal/modules/analysis/application/service"
	"MaintLens/internal/modules/analysis/infrastructure/cache"
	"MaintLens/internal/modules/analysis/infrastructure/llm"
	"MaintLens/internal/modules/analysis/infrastructure/mcptools"
	analysisPersistence "MaintLens/internal/modules/analysis/infrastructure/persistence"
	"MaintLens/internal/modules/analysis/infrastructure/pipeline"
	"MaintLens/internal/modules/analysis/infrastructure/plugins"
	analysisHandler "MaintLens/internal/modules/analysis/interface/http"
	notifService "MaintLens/internal/modules/notification/application/service"
	notifPersistence "MaintLens/internal/modules/notification/infrastructure/persistence"
	notifHandler "MaintLens/internal/modules/notification/interface/http"
	"MaintLens/pkg/redis"
	"MaintLens/pkg/ssl"
	"MaintLens/pkg/zlog"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

var GE *gin.Engine

// AnalysisSvc 供 kafka 异步分析 worker 复用
var AnalysisSvc analysisService.AnalysisService

func init() {
	conf := config.GetConfig()

	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization",
		jwtMiddleware.HeaderAPIKey, tenant.HeaderTenant, "Mcp-Session-Id"}
	GE.Use(cors.New(corsConfig))
	GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port, conf.MainConfig.EnableTLS))

	notifRepo := notifPersistence.NewNotificationRepository(initial.GormDB)
	logRepo := analysisPersistence.NewAnalysisLogRepository(initial.GormDB)

	qualityPlugin := plugins.NewQualityPlugin(&plugins.QualityConfig{
		Criteria:      conf.AnalysisConfig.Criteria,
		CacheTTL:      conf.AnalysisConfig.CacheTTLSeconds,
		MaxTextLength: conf.AnalysisConfig.MaxTextLength,
	})
	var resultCache *cache.ResultCache
	if redis.IsConnected() {
		resultCache = cache.NewResultCache(redis.Store{}, time.Duration(qualityPlugin.GetCacheTTL())*time.Second)
	}
	cred := llm.ResolveCredentials(conf.AIConfig.ChatModel)
	if !cred.Configured() {
		zlog.Warn("chat model credential not configured, analysis requests will fail",
			zap.String("provider", cred.Provider))
	}
	qualityPipeline := pipeline.NewQualityPipeline(qualityPlugin, resultCache, cred, nil)

	notifSvc := notifService.NewNotificationService(notifRepo, conf.AnalysisConfig.DefaultLanguage)
	AnalysisSvc = analysisService.NewAnalysisService(analysisService.Options{
		Analyzer:         qualityPipeline,
		NotificationRepo: notifRepo,
		LogRepo:          logRepo,
		Publisher:        initial.KafkaPublisher,
		AnalysisTopic:    conf.KafkaConfig.AnalysisTopic,
		MaxTextLength:    conf.AnalysisConfig.MaxTextLength,
		DefaultLanguage:  conf.AnalysisConfig.DefaultLanguage,
	})

	notifH := notifHandler.NewNotificationHandler(notifSvc)
	analysisH := analysisHandler.NewAnalysisHandler(AnalysisSvc)

	GE.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		dbOK := notifSvc.Healthy(ctx)
		status := http.StatusOK
		if !dbOK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"app":      conf.AppName,
			"database": dbOK,
			"redis":    redis.IsConnected(),
		})
	})

	v1 := GE.Group("/api/v1")
	v1.Use(jwtMiddleware.Auth())
	v1.GET("/auth/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uuid":     c.GetString(jwtMiddleware.CtxUuid),
			"username": c.GetString(jwtMiddleware.CtxUsername),
			"tenants":  c.GetStringSlice(jwtMiddleware.CtxTenants),
		})
	})

	v1.POST("/auth/token", jwtMiddleware.IssueToken)

	notifications := v1.Group("/notifications")
	notifications.GET("", tenant.Require(tenant.FeatureNotifications), notifH.ListNotifications)
	notifications.GET("/:id", tenant.Require(tenant.FeatureNotifications), notifH.GetNotification)
	notifications.POST("/:id/analyze", tenant.Require(tenant.FeatureAnalysis), analysisH.AnalyzeNotification)

	analysisGroup := v1.Group("/analysis", tenant.Require(tenant.FeatureAnalysis))
	analysisGroup.POST("/text", analysisH.AnalyzeText)
	analysisGroup.GET("/logs", analysisH.ListLogs)

	if conf.MCPConfig.Enabled {
		mcpServer := mcptools.NewMCPServer(mcptools.ServerConfig{
			Name:    conf.MCPConfig.Name,
			Version: conf.MCPConfig.Version,
		}, mcptools.ToolDependencies{
			NotificationSvc: notifSvc,
			AnalysisSvc:     AnalysisSvc,
			Entitled:        conf.Entitled,
		})
		mcpHandler := gin.WrapH(server.NewStreamableHTTPServer(mcpServer, server.WithStateLess(true)))
		mcpGroup := GE.Group("/mcp", jwtMiddleware.Auth(), tenant.Require(tenant.FeatureNotifications))
		mcpGroup.GET("", mcpHandler)
		mcpGroup.POST("", mcpHandler)
		mcpGroup.DELETE("", mcpHandler)
		zlog.Info("mcp tools mounted", zap.String("path", "/mcp"))
	}
}
