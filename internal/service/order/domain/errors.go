package domain

import (
	"fmt"

	"github.com/pkg/errors"

	"lessonhub/internal/pkg/apperr"
)

// FieldError 是带字段名的校验错误, 客户端可以据此定位表单字段。
type FieldError struct {
	Field   string
	Message string
}

func newFieldError(field, format string, args ...any) error {
	return errors.WithStack(&FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) ErrorCategory() apperr.Category { return apperr.CategoryValidation }

func (e *FieldError) ErrorDetails() any {
	return map[string]string{"field": e.Field}
}

// InsufficientInventoryError 表示某个课程剩余名额不足以满足需求。
type InsufficientInventoryError struct {
	LessonID  string
	Title     string
	Requested int
	Available int
}

func NewInsufficientInventory(lessonID, title string, requested, available int) error {
	return errors.WithStack(&InsufficientInventoryError{
		LessonID:  lessonID,
		Title:     title,
		Requested: requested,
		Available: available,
	})
}

func (e *InsufficientInventoryError) Error() string {
	name := e.Title
	if name == "" {
		name = e.LessonID
	}
	return fmt.Sprintf("not enough spaces for %s: requested %d, available %d", name, e.Requested, e.Available)
}

func (e *InsufficientInventoryError) ErrorCategory() apperr.Category {
	return apperr.CategoryInsufficientInventory
}

func (e *InsufficientInventoryError) ErrorDetails() any {
	return map[string]any{
		"lessonId":  e.LessonID,
		"title":     e.Title,
		"requested": e.Requested,
		"available": e.Available,
	}
}
