// internal/service/order/domain/order.go
package domain

import (
	"time"

	"github.com/pkg/errors"
)

// Customer 是下单人的联系信息
type Customer struct {
	Name    string
	Phone   string
	Address string
	City    string
	State   string
	Zip     string
}

// ReservedLine 是预占成功的一行: 某个课程扣减了 Units 个名额。
type ReservedLine struct {
	LessonID string
	Title    string
	Units    int
}

// Order 是订单聚合的根实体, 创建后不再修改。
type Order struct {
	ID       string
	Customer Customer
	// LessonIDs 去重, 保留首次出现的顺序
	LessonIDs []string
	// LessonTitles 每个名额一个标题, 顺序与请求中的 itemIds 一致
	LessonTitles   []string
	NumberOfSpaces int
	CreatedAt      time.Time
}

// NewOrder 根据请求和预占结果构造订单。
// 请求中的每个课程都必须出现在 lines 中。
func NewOrder(id string, req *OrderRequest, lines []ReservedLine, now time.Time) (*Order, error) {
	if id == "" {
		return nil, errors.New("cannot create order without id")
	}
	titles := make(map[string]string, len(lines))
	for _, l := range lines {
		titles[l.LessonID] = l.Title
	}

	order := &Order{
		ID: id,
		Customer: Customer{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
			City:    req.City,
			State:   req.State,
			Zip:     req.Zip,
		},
		LessonTitles:   make([]string, 0, len(req.ItemIDs)),
		NumberOfSpaces: req.NumberOfSpaces,
		CreatedAt:      now.UTC(),
	}

	seen := make(map[string]struct{}, len(lines))
	for _, itemID := range req.ItemIDs {
		title, ok := titles[itemID]
		if !ok {
			return nil, errors.Errorf("lesson %s was not reserved", itemID)
		}
		order.LessonTitles = append(order.LessonTitles, title)
		if _, dup := seen[itemID]; !dup {
			seen[itemID] = struct{}{}
			order.LessonIDs = append(order.LessonIDs, itemID)
		}
	}
	return order, nil
}
