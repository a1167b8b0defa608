package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"lessonhub/internal/pkg/mq"
	"lessonhub/internal/service/order/domain"
)

// OrderPlacedKafkaAdapter 实现了 port.OrderPlacedNotifier 接口,
// 把 OrderPlaced 事件以订单 ID 为 key 写入 Kafka。
type OrderPlacedKafkaAdapter struct {
	writer mq.MessageWriter
}

func NewOrderPlacedKafkaAdapter(writer mq.MessageWriter) *OrderPlacedKafkaAdapter {
	return &OrderPlacedKafkaAdapter{writer: writer}
}

func (a *OrderPlacedKafkaAdapter) NotifyOrderPlaced(ctx context.Context, event *domain.OrderPlaced) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order placed event: %w", err)
	}
	// 调用通用的 mq.ProduceMessage，它会自动处理追踪上下文注入
	return mq.ProduceMessage(ctx, a.writer, []byte(event.OrderID), eventBytes)
}
