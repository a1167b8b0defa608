package infrastructure

import (
	"lessonhub/internal/service/order/domain"
)

// ToDomainOrder 将数据库模型转换为领域模型
func ToDomainOrder(model *OrderModel) *domain.Order {
	return &domain.Order{
		ID: model.ID,
		Customer: domain.Customer{
			Name:    model.Name,
			Phone:   model.Phone,
			Address: model.Address,
			City:    model.City,
			State:   model.State,
			Zip:     model.Zip,
		},
		LessonIDs:      model.LessonIDs,
		LessonTitles:   model.LessonTitles,
		NumberOfSpaces: model.NumberOfSpaces,
		CreatedAt:      model.CreatedAt.UTC(),
	}
}

// FromDomainOrder 将领域模型转换为数据库模型
func FromDomainOrder(o *domain.Order) *OrderModel {
	return &OrderModel{
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
