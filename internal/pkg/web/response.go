// internal/pkg/web/response.go
package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"lessonhub/internal/pkg/apperr"
	"lessonhub/internal/pkg/logger"
)

// ErrorBody 是所有错误响应的统一结构。
type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Category apperr.Category `json:"category"`
	Message  string          `json:"message"`
	Details  any             `json:"details,omitempty"`
}

// detailer 由需要向客户端暴露额外字段的错误实现 (例如库存不足时的 requested/available)。
type detailer interface {
	ErrorDetails() any
}

// ExtractContext 从请求头中恢复上游的追踪上下文 (含 Baggage)。
func ExtractContext(r *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError 按错误分类写回响应。存储错误只记录日志, 客户端看到的是脱敏后的信息。
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	category := apperr.CategoryOf(err)
	status := apperr.HTTPStatus(category)

	if status >= http.StatusInternalServerError {
		logger.Ctx(ctx).Error().Err(err).Str("category", string(category)).Msg("request failed")
	} else {
		logger.Ctx(ctx).Info().Err(err).Str("category", string(category)).Msg("request rejected")
	}

	payload := ErrorPayload{Category: category, Message: apperr.PublicMessage(err)}
	var d detailer
	if category != apperr.CategoryStorage && errors.As(err, &d) {
		payload.Details = d.ErrorDetails()
	}
	WriteJSON(w, status, ErrorBody{Error: payload})
}
