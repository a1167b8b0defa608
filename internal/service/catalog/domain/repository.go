package domain

import "context"

// LessonRepository 定义了课程目录的持久化接口。
// 它位于领域层，但由基础设施层实现 (MySQL / Redis / 内存)。
type LessonRepository interface {
	// List 返回全部课程, 按 ID 升序。
	List(ctx context.Context) ([]Lesson, error)

	// Get 按 ID 查找, 不存在时返回 NotFound 错误。
	Get(ctx context.Context, id string) (*Lesson, error)

	// BatchRead 批量读取, 不存在的 ID 会被静默忽略, 调用方需要自行比对数量。
	BatchRead(ctx context.Context, ids []string) ([]Lesson, error)

	// InsertIfAbsent 插入 ID 尚不存在的课程, 返回实际插入的数量。
	InsertIfAbsent(ctx context.Context, lessons []Lesson) (int, error)

	// Update 按白名单字段做部分更新。
	Update(ctx context.Context, id string, patch LessonPatch) (*Lesson, error)

	// ConditionalDecrement 仅当提交时 available_capacity >= n 才扣减;
	// 否则 (包括课程不存在) 返回 Conflict 错误, 不会写入负数。
	ConditionalDecrement(ctx context.Context, id string, n int) error

	// Increment 归还名额, 只用于补偿。
	Increment(ctx context.Context, id string, n int) error
}
