package application

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lessonhub/internal/pkg/apperr"
	"lessonhub/internal/pkg/logger"
	"lessonhub/internal/service/catalog/domain"
)

const seedLockResource = "lesson-catalog-seed"

// Locker 是跨实例互斥的抽象, 由 ZooKeeper 分布式锁实现。
type Locker interface {
	Acquire(ctx context.Context, resource string) (release func() error, err error)
}

// NoopLocker 用于单实例部署或未配置 ZooKeeper 的场景。
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (func() error, error) {
	return func() error { return nil }, nil
}

// CatalogService 提供课程目录的浏览、搜索、初始化与修改用例。
type CatalogService struct {
	repo   domain.LessonRepository
	filter domain.FilterEngine
	locker Locker
	tracer trace.Tracer
}

func NewCatalogService(repo domain.LessonRepository, filter domain.FilterEngine, locker Locker, tracer trace.Tracer) *CatalogService {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &CatalogService{repo: repo, filter: filter, locker: locker, tracer: tracer}
}

// ListItems 返回全部课程; filter 非空时按表达式过滤。
func (s *CatalogService) ListItems(ctx context.Context, filter string) ([]domain.Lesson, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListItems")
	defer span.End()

	var pred domain.Predicate
	if strings.TrimSpace(filter) != "" {
		if s.filter == nil {
			return nil, apperr.Validation("filtering is not supported")
		}
		p, err := s.filter.Compile(filter)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		pred = p
	}

	lessons, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if pred == nil {
		return lessons, nil
	}

	out := make([]domain.Lesson, 0, len(lessons))
	for _, l := range lessons {
		ok, err := pred(l)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, l)
		}
	}
	span.SetAttributes(attribute.Int("catalog.matched", len(out)))
	return out, nil
}

func (s *CatalogService) GetItem(ctx context.Context, id string) (*domain.Lesson, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetItem")
	defer span.End()
	span.SetAttributes(attribute.String("lesson.id", id))

	return s.repo.Get(ctx, id)
}

// SearchItems 在标题和地点上做不区分大小写的子串匹配;
// q 能解析成数字时, 价格或剩余名额与之相等的课程也算命中。结果按 ID 排序。
func (s *CatalogService) SearchItems(ctx context.Context, q string) ([]domain.Lesson, error) {
	ctx, span := s.tracer.Start(ctx, "service.SearchItems")
	defer span.End()
	span.SetAttributes(attribute.String("search.query", q))

	lessons, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return lessons, nil
	}
	num, numErr := strconv.ParseFloat(q, 64)

	out := make([]domain.Lesson, 0)
	for _, l := range lessons {
		switch {
		case strings.Contains(strings.ToLower(l.Title), q),
			strings.Contains(strings.ToLower(l.Location), q):
			out = append(out, l)
		case numErr == nil && (l.Price == num || float64(l.AvailableCapacity) == num):
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SeedCatalog 写入内置示例目录, 已存在的课程保持不变。返回实际插入的数量。
func (s *CatalogService) SeedCatalog(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "service.SeedCatalog")
	defer span.End()

	lessons, err := SampleCatalog()
	if err != nil {
		return 0, apperr.Storage(err, "load seed catalog")
	}

	release, err := s.locker.Acquire(ctx, seedLockResource)
	if err != nil {
		span.RecordError(err)
		return 0, apperr.Storage(err, "acquire seed lock")
	}
	defer func() {
		if err := release(); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("failed to release seed lock")
		}
	}()

	inserted, err := s.repo.InsertIfAbsent(ctx, lessons)
	if err != nil {
		span.RecordError(err)
		return inserted, err
	}
	span.SetAttributes(attribute.Int("catalog.inserted", inserted))
	logger.Ctx(ctx).Info().Int("inserted", inserted).Int("total", len(lessons)).Msg("catalog seeded")
	return inserted, nil
}

// UpdateItem 只修改白名单内的字段。
func (s *CatalogService) UpdateItem(ctx context.Context, id string, patch domain.LessonPatch) (*domain.Lesson, error) {
	ctx, span := s.tracer.Start(ctx, "service.UpdateItem")
	defer span.End()
	span.SetAttributes(attribute.String("lesson.id", id))

	if err := patch.Validate(); err != nil {
		return nil, err
	}
	l, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("lesson_id", id).Interface("fields", patch.Columns()).Msg("lesson updated")
	return l, nil
}
