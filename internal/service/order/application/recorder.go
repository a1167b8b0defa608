package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lessonhub/internal/pkg/apperr"
	"lessonhub/internal/service/order/domain"
)

// OrderRecorder 把预占成功的请求落库为订单, 每次调用只写入一次。
type OrderRecorder struct {
	repo  domain.OrderRepository
	newID func() string
	now   func() time.Time
}

func NewOrderRecorder(repo domain.OrderRepository) *OrderRecorder {
	return &OrderRecorder{repo: repo, newID: uuid.NewString, now: time.Now}
}

func (r *OrderRecorder) Record(ctx context.Context, req *domain.OrderRequest, lines []domain.ReservedLine) (*domain.Order, error) {
	order, err := domain.NewOrder(r.newID(), req, lines, r.now())
	if err != nil {
		return nil, apperr.Storage(err, "build order")
	}
	if err := r.repo.Save(ctx, order); err != nil {
		return nil, apperr.Storage(err, "save order %s", order.ID)
	}
	return order, nil
}
