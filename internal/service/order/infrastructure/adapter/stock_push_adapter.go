package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"lessonhub/internal/pkg/logger"
	"lessonhub/internal/service/order/domain"
	"lessonhub/internal/service/order/domain/port"
)

// Broadcaster 是 push.Hub 的出站接口
type Broadcaster interface {
	Broadcast(msg []byte) bool
}

// StockUpdate 是推送给前端的剩余名额变化
type StockUpdate struct {
	LessonID          string `json:"lessonId"`
	AvailableCapacity int    `json:"availableCapacity"`
}

// StockPushAdapter 在下单成功后重新读取相关课程的名额并广播给 WebSocket 订阅者。
type StockPushAdapter struct {
	store port.InventoryStore
	hub   Broadcaster
}

func NewStockPushAdapter(store port.InventoryStore, hub Broadcaster) *StockPushAdapter {
	return &StockPushAdapter{store: store, hub: hub}
}

func (a *StockPushAdapter) NotifyOrderPlaced(ctx context.Context, event *domain.OrderPlaced) error {
	lessons, err := a.store.BatchRead(ctx, event.LessonIDs)
	if err != nil {
		return fmt.Errorf("failed to read stock for push: %w", err)
	}
	for _, l := range lessons {
		msg, err := json.Marshal(StockUpdate{LessonID: l.ID, AvailableCapacity: l.AvailableCapacity})
		if err != nil {
			return err
		}
		if !a.hub.Broadcast(msg) {
			logger.Ctx(ctx).Warn().Str("lesson_id", l.ID).Msg("stock push queue full, update dropped")
		}
	}
	return nil
}
