package memory

import (
	"context"
	"sort"
	"sync"

	"lessonhub/internal/pkg/apperr"
	"lessonhub/internal/service/catalog/domain"
)

// LessonRepository 是 domain.LessonRepository 的内存实现。
// 条件扣减在同一把锁内完成检查与写入, 与 SQL 的条件 UPDATE 语义一致。
type LessonRepository struct {
	mu      sync.RWMutex
	lessons map[string]*domain.Lesson
}

func NewLessonRepository() *LessonRepository {
	return &LessonRepository{
		lessons: make(map[string]*domain.Lesson),
	}
}

func (r *LessonRepository) List(ctx context.Context) ([]domain.Lesson, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Lesson, 0, len(r.lessons))
	for _, l := range r.lessons {
		out = append(out, *l)
	}
	sortByID(out)
	return out, nil
}

func (r *LessonRepository) Get(ctx context.Context, id string) (*domain.Lesson, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.lessons[id]
	if !ok {
		return nil, apperr.NotFound("lesson %s not found", id)
	}
	clone := *l
	return &clone, nil
}

func (r *LessonRepository) BatchRead(ctx context.Context, ids []string) ([]domain.Lesson, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(ids))
	out := make([]domain.Lesson, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if l, ok := r.lessons[id]; ok {
			out = append(out, *l)
		}
	}
	sortByID(out)
	return out, nil
}

func (r *LessonRepository) InsertIfAbsent(ctx context.Context, lessons []domain.Lesson) (int, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for i := range lessons {
		if _, exists := r.lessons[lessons[i].ID]; exists {
			continue
		}
		clone := lessons[i]
		r.lessons[clone.ID] = &clone
		inserted++
	}
	return inserted, nil
}

func (r *LessonRepository) Update(ctx context.Context, id string, patch domain.LessonPatch) (*domain.Lesson, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lessons[id]
	if !ok {
		return nil, apperr.NotFound("lesson %s not found", id)
	}
	patch.Apply(l)
	clone := *l
	return &clone, nil
}

func (r *LessonRepository) ConditionalDecrement(ctx context.Context, id string, n int) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lessons[id]
	if !ok || l.AvailableCapacity < n {
		return apperr.Conflict(nil, "lesson %s: capacity below %d at commit", id, n)
	}
	l.AvailableCapacity -= n
	return nil
}

func (r *LessonRepository) Increment(ctx context.Context, id string, n int) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lessons[id]
	if !ok {
		return apperr.NotFound("lesson %s not found", id)
	}
	l.AvailableCapacity += n
	return nil
}

func sortByID(lessons []domain.Lesson) {
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].ID < lessons[j].ID })
}
