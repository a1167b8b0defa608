// internal/service/order/application/service.go
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

const notifyTimeout = 3 * time.Second

// OrderApplicationService 编排下单流程: 校验 -> 预占 -> 落库。
// 失败时不会留下任何名额变化, 也不会留下订单记录。
type OrderApplicationService struct {
	engine    *ReservationEngine
	recorder  *OrderRecorder
	orderRepo domain.OrderRepository
	notifiers []port.OrderPlacedNotifier
	tracer    trace.Tracer
	metrics   *metrics.Metrics
}

func NewOrderApplicationService(
	engine *ReservationEngine,
	recorder *OrderRecorder,
	orderRepo domain.OrderRepository,
	tracer trace.Tracer,
	m *metrics.Metrics,
	notifiers ...port.OrderPlacedNotifier,
) *OrderApplicationService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &OrderApplicationService{
		engine:    engine,
		recorder:  recorder,
		orderRepo: orderRepo,
		notifiers: notifiers,
		tracer:    tracer,
		metrics:   m,
	}
}

// PlaceOrder 是下单的唯一入口, 成功时返回订单 ID。
func (s *OrderApplicationService) PlaceOrder(ctx context.Context, req *domain.OrderRequest) (orderID string, err error) {
	ctx, span := s.tracer.Start(ctx, "app.PlaceOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.PlaceOrderDuration.Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = string(apperr.CategoryOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, result)
		}
		s.metrics.OrdersPlaced.WithLabelValues(result).Inc()
	}()

	// 1. 校验请求并统计每个课程的需求
	demand, err := domain.Validate(req)
	if err != nil {
		return "", err
	}
	span.SetAttributes(
		attribute.StringSlice("lesson.ids", demand.IDs()),
		attribute.Int("order.spaces", demand.Total()),
	)

	// 2. 预占名额
	lines, err := s.engine.Reserve(ctx, demand)
	if err != nil {
		logger.Ctx(ctx).Info().Err(err).Msg("reservation rejected")
		return "", err
	}
	span.AddEvent("capacity reserved")

	// 3. 落库; 失败时归还刚刚预占的名额
	order, err := s.recorder.Record(ctx, req, lines)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to record order, releasing reservation")
		if relErr := s.engine.Release(ctx, lines); relErr != nil {
			logger.Ctx(ctx).Error().Err(relErr).Msg("CRITICAL: failed to release reservation after record failure")
		}
		return "", err
	}
	span.SetAttributes(attribute.String("order.id", order.ID))

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Strs("lesson_ids", order.LessonIDs).
		Int("spaces", order.NumberOfSpaces).
		Msg("order placed")

	s.notify(ctx, domain.NewOrderPlaced(order, lines))
	return order.ID, nil
}

// GetOrder 查询已落库的订单
func (s *OrderApplicationService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", id))

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return order, nil
}

// notify 是尽力而为的副作用, 失败只记录日志, 不影响下单结果。
func (s *OrderApplicationService) notify(ctx context.Context, event *domain.OrderPlaced) {
	if len(s.notifiers) == 0 {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	for _, n := range s.notifiers {
		if err := n.NotifyOrderPlaced(notifyCtx, event); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("order_id", event.OrderID).Msg("order placed notification failed")
		}
	}
}
