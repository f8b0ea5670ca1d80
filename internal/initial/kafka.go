package initial

import (
	"MaintLens/internal/config"
	"MaintLens/internal/modules/analysis/infrastructure/mq"
	"MaintLens/internal/modules/analysis/infrastructure/mq/kafka"
	"MaintLens/pkg/zlog"

	"go.uber.org/zap"
)

// KafkaPublisher 未配置 brokers 或连接失败时为 nil，事件发布随之关闭
var KafkaPublisher mq.Publisher

func init() {
	conf := config.GetConfig().KafkaConfig
	if len(conf.Brokers) == 0 {
		zlog.Info("kafka not configured, analysis events disabled")
		return
	}

	p, err := kafka.NewSaramaPublisher(kafka.PublisherConfig{
		Brokers:  conf.Brokers,
		ClientID: conf.ClientID,
	})
	if err != nil {
		zlog.Error("kafka publisher init failed", zap.Strings("brokers", conf.Brokers), zap.Error(err))
		return
	}
	KafkaPublisher = p
	zlog.Info("kafka publisher ready", zap.Strings("brokers", conf.Brokers))
}

// NewRequestConsumer 创建异步分析请求的消费者组；未配置 requestTopic 时返回 nil
func NewRequestConsumer() (mq.Consumer, error) {
	conf := config.GetConfig().KafkaConfig
	if len(conf.Brokers) == 0 || conf.RequestTopic == "" {
		return nil, nil
	}
	groupID := conf.ConsumerGroupID
	if groupID == "" {
		groupID = config.GetConfig().AppName + "-analysis"
	}
	return kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:  conf.Brokers,
		GroupID:  groupID,
		Topics:   []string{conf.RequestTopic},
		ClientID: conf.ClientID,
	})
}
