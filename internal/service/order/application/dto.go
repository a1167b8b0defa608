// internal/service/order/application/dto.go
package application

import (
	"time"

	"lessonhub/internal/service/order/domain"
)

// PlaceOrderResponse 是下单成功后的输出数据
type PlaceOrderResponse struct {
	OrderID string `json:"orderId"`
}

// OrderResponse 是查询订单的输出数据
type OrderResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	Zip            string    `json:"zip"`
	LessonIDs      []string  `json:"lessonIds"`
	LessonTitles   []string  `json:"lessonTitles"`
	NumberOfSpaces int       `json:"numberOfSpaces"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToOrderResponse 从领域对象转换为输出 DTO
func ToOrderResponse(o *domain.Order) *OrderResponse {
	return &OrderResponse{
		ID:             o.ID,
		Name:           o.Customer.Name,
		Phone:          o.Customer.Phone,
		Address:        o.Customer.Address,
		City:           o.Customer.City,
		State:          o.Customer.State,
		Zip:            o.Customer.Zip,
		LessonIDs:      o.LessonIDs,
		LessonTitles:   o.LessonTitles,
		NumberOfSpaces: o.NumberOfSpaces,
		CreatedAt:      o.CreatedAt,
	}
}
