package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	https_server "MaintLens/api/http"
	"MaintLens/internal/config"
	"MaintLens/internal/initial"
	"MaintLens/internal/modules/analysis/interface/event"
	"MaintLens/pkg/redis"
	"MaintLens/pkg/zlog"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()
	addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           https_server.GE,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 2. 启动 HTTP 服务
	go func() {
		zlog.Info("server starting", zap.String("addr", addr), zap.Bool("tls", conf.MainConfig.EnableTLS))
		var err error
		if conf.MainConfig.EnableTLS {
			err = srv.ListenAndServeTLS(conf.MainConfig.CertFile, conf.MainConfig.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	// 3. 异步分析请求消费
	workerCtx, stopWorker := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	consumer, err := initial.NewRequestConsumer()
	if err != nil {
		zlog.Error("kafka consumer init failed", zap.Error(err))
	}
	if consumer != nil {
		handler := event.NewAnalysisRequestHandler(https_server.AnalysisSvc, conf.Entitled)
		wg.Add(1)
		go func() {
			defer wg.Done()
			zlog.Info("analysis request worker started", zap.String("topic", conf.KafkaConfig.RequestTopic))
			if err := consumer.Run(workerCtx, handler); err != nil && !errors.Is(err, context.Canceled) {
				zlog.Error("analysis request worker stopped", zap.Error(err))
			}
		}()
	}

	// 4. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("http shutdown failed", zap.Error(err))
	}

	stopWorker()
	if consumer != nil {
		_ = consumer.Close()
	}
	wg.Wait()

	if initial.KafkaPublisher != nil {
		if err := initial.KafkaPublisher.Close(); err != nil {
			zlog.Warn("close kafka publisher failed", zap.Error(err))
		}
	}
	if err := redis.Close(); err != nil {
		zlog.Warn("close redis failed", zap.Error(err))
	}
	if sqlDB, err := initial.GormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	zlog.Info("server stopped")
	zlog.Sync()
}
