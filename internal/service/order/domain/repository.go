// internal/service/order/domain/repository.go
package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，但由基础设施层实现。
type OrderRepository interface {
	// Save 持久化一个新订单, 每个订单只写入一次。
	Save(ctx context.Context, order *Order) error

	// FindByID 根据 ID 查找订单, 不存在时返回 NotFound 错误。
	FindByID(ctx context.Context, id string) (*Order, error)
}
