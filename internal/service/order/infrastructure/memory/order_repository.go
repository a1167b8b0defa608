package memory

import (
	"context"
	"sort"
	"sync"

	"lessonhub/internal/pkg/apperr"
	"lessonhub/internal/service/order/domain"
)

// OrderRepository 是 domain.OrderRepository 的内存实现
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]domain.Order)}
}

func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return apperr.Conflict(nil, "order %s already exists", order.ID)
	}
	r.orders[order.ID] = clone(order)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, apperr.NotFound("order %s not found", id)
	}
	c := clone(&o)
	return &c, nil
}

// Count 返回已保存的订单数
func (r *OrderRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

// IDs 返回全部订单 ID, 按字典序排列
func (r *OrderRepository) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func clone(o *domain.Order) domain.Order {
	c := *o
	c.LessonIDs = append([]string(nil), o.LessonIDs...)
	c.LessonTitles = append([]string(nil), o.LessonTitles...)
	return c
}
