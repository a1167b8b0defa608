package domain

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessonhub/internal/pkg/apperr"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func validRequest() *OrderRequest {
	return &OrderRequest{
		Name:           "Ada",
		Phone:          "0123",
		Address:        "1 Main St",
		City:           "London",
		State:          "LDN",
		Zip:            "N1",
		ItemIDs:        []string{"b", "a", "b"},
		NumberOfSpaces: 3,
	}
}

func TestValidate_BuildsDemandMap(t *testing.T) {
	demand, err := Validate(validRequest())
	require.NoError(t, err)
	assert.Equal(t, DemandMap{"a": 1, "b": 2}, demand)
	assert.Equal(t, []string{"a", "b"}, demand.IDs())
	assert.Equal(t, 3, demand.Total())
}

func TestValidate_ReportsFirstMissingField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *OrderRequest)
		field  string
	}{
		{"missing zip", func(r *OrderRequest) { r.Zip = "" }, "zip"},
		{"blank name wins over zip", func(r *OrderRequest) { r.Name = "  "; r.Zip = "" }, "name"},
		{"missing phone", func(r *OrderRequest) { r.Phone = "" }, "phone"},
		{"no items", func(r *OrderRequest) { r.ItemIDs = nil }, "itemIds"},
		{"blank item", func(r *OrderRequest) { r.ItemIDs = []string{"a", " ", "b"} }, "itemIds"},
		{"zero spaces", func(r *OrderRequest) { r.NumberOfSpaces = 0 }, "numberOfSpaces"},
		{"spaces mismatch", func(r *OrderRequest) { r.NumberOfSpaces = 2 }, "numberOfSpaces"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			demand, err := Validate(req)
			assert.Nil(t, demand)
			require.True(t, apperr.Is(err, apperr.CategoryValidation))

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestNewOrder_TitlesFollowItemOrder(t *testing.T) {
	req := validRequest()
	req.ItemIDs = []string{"f", "f", "f"}
	lines := []ReservedLine{{LessonID: "f", Title: "French", Units: 3}}

	order, err := NewOrder("o-1", req, lines, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"French", "French", "French"}, order.LessonTitles)
	assert.Equal(t, []string{"f"}, order.LessonIDs)
	assert.Equal(t, 3, order.NumberOfSpaces)
	assert.Equal(t, "N1", order.Customer.Zip)
}

func TestNewOrder_DedupKeepsFirstAppearance(t *testing.T) {
	req := validRequest()
	lines := []ReservedLine{{LessonID: "a", Title: "Art", Units: 1}, {LessonID: "b", Title: "Ballet", Units: 2}}

	order, err := NewOrder("o-2", req, lines, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, order.LessonIDs)
	assert.Equal(t, []string{"Ballet", "Art", "Ballet"}, order.LessonTitles)
}

func TestNewOrder_RejectsUnreservedItem(t *testing.T) {
	_, err := NewOrder("o-3", validRequest(), []ReservedLine{{LessonID: "a", Title: "Art", Units: 1}}, fixedNow)
	assert.Error(t, err)
}

func TestInsufficientInventoryError(t *testing.T) {
	err := NewInsufficientInventory("a", "Art", 10, 3)

	assert.True(t, apperr.Is(err, apperr.CategoryInsufficientInventory))
	assert.Equal(t, "not enough spaces for Art: requested 10, available 3", apperr.PublicMessage(err))

	var ie *InsufficientInventoryError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 3, ie.ErrorDetails().(map[string]any)["available"])
}
