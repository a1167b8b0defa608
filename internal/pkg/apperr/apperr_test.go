package apperr

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type customErr struct{}

func (customErr) Error() string           { return "custom" }
func (customErr) ErrorCategory() Category { return CategoryInsufficientInventory }

func TestCategoryOf_FollowsWrapChain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{name: "validation", err: Validation("zip is required"), want: CategoryValidation},
		{name: "wrapped not found", err: errors.Wrap(NotFound("lesson %s", "x"), "get lesson"), want: CategoryNotFound},
		{name: "conflict", err: Conflict(nil, "lost race"), want: CategoryConflict},
		{name: "custom type", err: errors.WithMessage(customErr{}, "reserve"), want: CategoryInsufficientInventory},
		{name: "plain error defaults to storage", err: errors.New("dial tcp: refused"), want: CategoryStorage},
		{name: "nil", err: nil, want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CategoryOf(tc.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CategoryValidation))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CategoryInsufficientInventory))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CategoryNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(CategoryConflict))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CategoryStorage))
}

func TestPublicMessage_RedactsStorageErrors(t *testing.T) {
	err := Storage(errors.New("Error 1045: Access denied for user 'root'"), "read lessons")

	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Contains(t, err.Error(), "Access denied")
	assert.Equal(t, "internal server error", PublicMessage(errors.New("boom")))
	assert.Equal(t, "zip is required", PublicMessage(errors.Wrap(Validation("zip is required"), "validate")))
	assert.Equal(t, "custom", PublicMessage(customErr{}))
}

func TestIs(t *testing.T) {
	err := errors.Wrap(Conflict(errors.New("0 rows"), "lesson a"), "decrement")

	assert.True(t, Is(err, CategoryConflict))
	assert.False(t, Is(err, CategoryStorage))
	assert.False(t, Is(nil, CategoryStorage))
	assert.Equal(t, "decrement: lesson a: 0 rows", err.Error())
}
