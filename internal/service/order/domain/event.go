// internal/service/order/domain/event.go
package domain

import "time"

// OrderPlaced 在订单成功落库后发布
type OrderPlaced struct {
	OrderID        string         `json:"orderId"`
	LessonIDs      []string       `json:"lessonIds"`
	Units          map[string]int `json:"units"`
	NumberOfSpaces int            `json:"numberOfSpaces"`
	PlacedAt       time.Time      `json:"placedAt"`
}

func NewOrderPlaced(order *Order, lines []ReservedLine) *OrderPlaced {
	units := make(map[string]int, len(lines))
	for _, l := range lines {
		units[l.LessonID] = l.Units
	}
	return &OrderPlaced{
		OrderID:        order.ID,
		LessonIDs:      order.LessonIDs,
		Units:          units,
		NumberOfSpaces: order.NumberOfSpaces,
		PlacedAt:       order.CreatedAt,
	}
}
