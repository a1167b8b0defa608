package port

import (
	"context"

	"lessonhub/internal/service/order/domain"
)

// OrderPlacedNotifier 是订单成功后的出站端口 (Kafka、WebSocket 推送等)。
// 通知失败不影响下单结果。
type OrderPlacedNotifier interface {
	NotifyOrderPlaced(ctx context.Context, event *domain.OrderPlaced) error
}
