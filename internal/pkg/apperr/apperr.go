// internal/pkg/apperr/apperr.go
package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Category 是错误的分类, 边界层据此决定返回码。
type Category string

const (
	CategoryValidation            Category = "validation"
	CategoryNotFound              Category = "not_found"
	CategoryInsufficientInventory Category = "insufficient_inventory"
	CategoryConflict              Category = "conflict"
	CategoryStorage               Category = "storage"
)

// Categorized 由所有带分类的错误实现, 包括领域层自定义的错误类型。
type Categorized interface {
	error
	ErrorCategory() Category
}

// Error 是通用的分类错误。
type Error struct {
	Category Category
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ErrorCategory() Category { return e.Category }

func Validation(format string, args ...any) error {
	return errors.WithStack(&Error{Category: CategoryValidation, Message: fmt.Sprintf(format, args...)})
}

func NotFound(format string, args ...any) error {
	return errors.WithStack(&Error{Category: CategoryNotFound, Message: fmt.Sprintf(format, args...)})
}

// Conflict 表示条件更新在提交时没有命中, 通常是并发请求抢先修改了数据。
func Conflict(cause error, format string, args ...any) error {
	return errors.WithStack(&Error{Category: CategoryConflict, Message: fmt.Sprintf(format, args...), Err: cause})
}

// Storage 包装底层存储的故障。cause 会被记录到日志, 但不会返回给客户端。
func Storage(cause error, format string, args ...any) error {
	return errors.WithStack(&Error{Category: CategoryStorage, Message: fmt.Sprintf(format, args...), Err: cause})
}

// CategoryOf 沿着包装链查找分类; 没有分类的错误一律视为存储错误。
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	var c Categorized
	if errors.As(err, &c) {
		return c.ErrorCategory()
	}
	return CategoryStorage
}

// Is 判断 err 是否属于给定分类。
func Is(err error, category Category) bool {
	return err != nil && CategoryOf(err) == category
}

// HTTPStatus 把分类映射为 HTTP 状态码。
func HTTPStatus(category Category) int {
	switch category {
	case CategoryValidation, CategoryInsufficientInventory:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage 返回可以展示给客户端的信息。存储错误的原始信息会被隐藏。
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var c Categorized
	if !errors.As(err, &c) || c.ErrorCategory() == CategoryStorage {
		return "internal server error"
	}
	if e, ok := c.(*Error); ok {
		return e.Message
	}
	return c.Error()
}
