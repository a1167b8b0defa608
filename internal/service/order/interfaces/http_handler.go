package interfaces

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lessonhub/internal/pkg/web"
	"lessonhub/internal/service/order/application"
	"lessonhub/internal/service/order/domain"
)

// OrderHandler 封装了下单相关的 HTTP 处理器
type OrderHandler struct {
	service *application.OrderApplicationService
}

// NewOrderHandler 创建一个新的 HTTP 处理器实例
func NewOrderHandler(service *application.OrderApplicationService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.handlePlaceOrder)
	mux.HandleFunc("GET /orders/{id}", h.handleGetOrder)
}

func (h *OrderHandler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := web.ExtractContext(r)

	var req domain.OrderRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(ctx, w, err)
		return
	}

	orderID, err := h.service.PlaceOrder(ctx, &req)
	if err != nil {
		web.WriteError(ctx, w, err)
		return
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("order.id", orderID))
	w.Header().Set("Location", "/orders/"+orderID)
	web.WriteJSON(w, http.StatusCreated, application.PlaceOrderResponse{OrderID: orderID})
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := web.ExtractContext(r)

	order, err := h.service.GetOrder(ctx, r.PathValue("id"))
	if err != nil {
		web.WriteError(ctx, w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, application.ToOrderResponse(order))
}
