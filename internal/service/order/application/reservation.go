// internal/service/order/application/reservation.go
package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lessonhub/internal/pkg/apperr"
	"lessonhub/internal/pkg/logger"
	"lessonhub/internal/pkg/metrics"
	"lessonhub/internal/service/order/domain"
	"lessonhub/internal/service/order/domain/port"
)

const defaultCompensationTimeout = 5 * time.Second

// ReservationEngine 对一组课程做全有或全无的名额预占。
// 每一行都通过库存的条件扣减提交, 任意一行失败时把已扣减的行逐一归还。
// 引擎本身没有共享的可变状态, 正确性完全依赖存储层的条件扣减。
type ReservationEngine struct {
	store               port.InventoryStore
	tracer              trace.Tracer
	metrics             *metrics.Metrics
	compensationTimeout time.Duration
}

func NewReservationEngine(store port.InventoryStore, tracer trace.Tracer, m *metrics.Metrics) *ReservationEngine {
	if m == nil {
		m = metrics.NewNop()
	}
	return &ReservationEngine{
		store:               store,
		tracer:              tracer,
		metrics:             m,
		compensationTimeout: defaultCompensationTimeout,
	}
}

// Reserve 成功时返回按课程 ID 排序的预占行, 失败时库存保持原样。
func (e *ReservationEngine) Reserve(ctx context.Context, demand domain.DemandMap) ([]domain.ReservedLine, error) {
	ctx, span := e.tracer.Start(ctx, "reservation.Reserve")
	defer span.End()

	if len(demand) == 0 {
		return nil, apperr.Validation("nothing to reserve")
	}
	ids := demand.IDs()
	span.SetAttributes(attribute.StringSlice("lesson.ids", ids), attribute.Int("reservation.units", demand.Total()))

	lessons, err := e.store.BatchRead(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch read failed")
		return nil, apperr.Storage(err, "read inventory")
	}
	titles := make(map[string]string, len(lessons))
	available := make(map[string]int, len(lessons))
	for _, l := range lessons {
		titles[l.ID] = l.Title
		available[l.ID] = l.AvailableCapacity
	}

	// 预检查: 任何一行不够就直接失败, 此时还没有写入
	for _, id := range ids {
		if _, ok := titles[id]; !ok {
			return nil, domain.NewInsufficientInventory(id, "", demand[id], 0)
		}
		if available[id] < demand[id] {
			return nil, domain.NewInsufficientInventory(id, titles[id], demand[id], available[id])
		}
	}

	reserved := make([]domain.ReservedLine, 0, len(ids))
	for _, id := range ids {
		line := domain.ReservedLine{LessonID: id, Title: titles[id], Units: demand[id]}
		if err := e.decrement(ctx, line); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "reservation failed")
			if compErr := e.compensate(ctx, reserved); compErr != nil {
				return nil, apperr.Storage(compErr, "reservation rollback incomplete after: %v", err)
			}
			return nil, err
		}
		reserved = append(reserved, line)
	}

	span.AddEvent("all lines reserved")
	return reserved, nil
}

// Release 归还一次成功预占的全部名额, 用于预占之后的步骤失败时。
func (e *ReservationEngine) Release(ctx context.Context, lines []domain.ReservedLine) error {
	if err := e.compensate(ctx, lines); err != nil {
		return apperr.Storage(err, "release reservation")
	}
	return nil
}

// decrement 提交一行。提交时冲突则重新读取一次:
// 名额确实不够就报告不足, 否则再试一次, 仍然冲突就把冲突返回给调用方。
func (e *ReservationEngine) decrement(ctx context.Context, line domain.ReservedLine) error {
	err := e.store.ConditionalDecrement(ctx, line.LessonID, line.Units)
	if err == nil {
		return nil
	}
	if !apperr.Is(err, apperr.CategoryConflict) {
		return err
	}
	e.metrics.ReservationConflicts.Inc()

	fresh, readErr := e.store.BatchRead(ctx, []string{line.LessonID})
	if readErr != nil {
		return apperr.Storage(readErr, "re-read lesson %s", line.LessonID)
	}
	if len(fresh) == 0 {
		return domain.NewInsufficientInventory(line.LessonID, line.Title, line.Units, 0)
	}
	if fresh[0].AvailableCapacity < line.Units {
		return domain.NewInsufficientInventory(line.LessonID, fresh[0].Title, line.Units, fresh[0].AvailableCapacity)
	}

	// 第二次仍冲突时原样返回 conflict (409), 由客户端决定是否重试
	err = e.store.ConditionalDecrement(ctx, line.LessonID, line.Units)
	if err != nil && apperr.Is(err, apperr.CategoryConflict) {
		e.metrics.ReservationConflicts.Inc()
	}
	return err
}

// compensate 逆序归还已扣减的行。
// 调用方的 ctx 可能已经被取消, 这里使用脱离取消信号、保留追踪信息的新 ctx。
func (e *ReservationEngine) compensate(ctx context.Context, lines []domain.ReservedLine) error {
	if len(lines) == 0 {
		return nil
	}
	compCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.compensationTimeout)
	defer cancel()

	compCtx, span := e.tracer.Start(compCtx, "reservation.Compensate")
	defer span.End()

	var firstErr error
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if err := e.store.Increment(compCtx, line.LessonID, line.Units); err != nil {
			e.metrics.Compensations.WithLabelValues("failed").Inc()
			span.RecordError(err, trace.WithAttributes(attribute.Bool("critical.error", true)))
			// 补偿失败意味着名额被少算, 需要人工介入
			logger.Ctx(compCtx).Error().Err(err).
				Str("lesson_id", line.LessonID).
				Int("units", line.Units).
				Msg("CRITICAL: failed to give back reserved capacity")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		e.metrics.Compensations.WithLabelValues("ok").Inc()
	}
	if firstErr != nil {
		span.SetStatus(codes.Error, "compensation incomplete")
	}
	return firstErr
}
