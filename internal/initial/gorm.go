package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"MaintLens/internal/config"
	"MaintLens/internal/modules/analysis/domain/analysis"
	"MaintLens/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

func init() {
	conf := config.GetConfig()
	dbName := conf.MysqlConfig.DatabaseName
	if dbName == "" {
		dbName = conf.AppName
	}
	port := conf.MysqlConfig.Port
	if port == 0 {
		port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User, conf.MysqlConfig.Password, conf.MysqlConfig.Host, port, dbName)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		zlog.Fatal("open mysql failed", zap.Error(err))
	}

	sqlDB, err := GormDB.DB()
	if err != nil {
		zlog.Fatal("get sql db failed", zap.Error(err))
	}
	if conf.MysqlConfig.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MysqlConfig.MaxOpenConns)
	}
	if conf.MysqlConfig.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MysqlConfig.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 通知与工单表由源系统维护，这里只迁移本服务自己写入的审计表
	if err := GormDB.AutoMigrate(&analysis.AnalysisLog{}); err != nil {
		zlog.Fatal("auto migrate failed", zap.Error(err))
	}
}
