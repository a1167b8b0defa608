package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"lessonhub/internal/pkg/apperr"
)

const maxBodyBytes = 1 << 20

// DecodeJSON 严格解析请求体: 未声明的字段、多余的 JSON 值都视为校验错误。
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return apperr.Validation("field %s is not allowed", strings.Trim(field, `"`))
		}
		if err == io.EOF {
			return apperr.Validation("request body is empty")
		}
		return apperr.Validation("invalid request body: %s", err)
	}
	if dec.More() {
		return apperr.Validation("invalid request body: unexpected trailing data")
	}
	return nil
}
