package port

import (
	"context"

	catalog "lessonhub/internal/service/catalog/domain"
)

// InventoryStore 是下单流程对库存的全部依赖。
// catalog 的各个 LessonRepository 实现都满足这个接口。
type InventoryStore interface {
	// BatchRead 读取课程当前状态, 不存在的 ID 不出现在结果中。
	BatchRead(ctx context.Context, ids []string) ([]catalog.Lesson, error)

	// ConditionalDecrement 仅在提交时名额 >= n 时扣减, 否则返回 Conflict 错误。
	ConditionalDecrement(ctx context.Context, id string, n int) error

	// Increment 只用于补偿
	Increment(ctx context.Context, id string, n int) error
}
