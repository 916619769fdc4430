package service

import (
	"context"
	"encoding/json"
	"fmt"

	"agrihub/pkg/kafka"
	"agrihub/pkg/logger"
)

// kafkaEventService Kafka搜索事件发布实现
type kafkaEventService struct {
	producer *kafka.Producer
	topic    string
	logger   logger.Logger
}

// NewKafkaEventService 创建Kafka事件服务实例
func NewKafkaEventService(producer *kafka.Producer, topic string, log logger.Logger) EventService {
	return &kafkaEventService{
		producer: producer,
		topic:    topic,
		logger:   log,
	}
}

// PublishSearchEvent 发布搜索事件
func (s *kafkaEventService) PublishSearchEvent(ctx context.Context, event *SearchEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal search event: %v", err)
	}
	return s.producer.SendMessage(s.topic, []byte(event.Query), data)
}

// noopEventService 空事件实现，未配置Kafka时使用
type noopEventService struct{}

// NewNoopEventService 创建空事件服务实例
func NewNoopEventService() EventService {
	return &noopEventService{}
}

func (s *noopEventService) PublishSearchEvent(ctx context.Context, event *SearchEvent) error {
	return nil
}
