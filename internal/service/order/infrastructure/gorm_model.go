package infrastructure

import (
	"time"
)

// OrderModel 对应数据库中的 orders 表
type OrderModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	Name           string    `gorm:"size:255;not null"`
	Phone          string    `gorm:"size:64;not null"`
	Address        string    `gorm:"size:512;not null"`
	City           string    `gorm:"size:128;not null"`
	State          string    `gorm:"size:128;not null"`
	Zip            string    `gorm:"size:32;not null"`
	LessonIDs      []string  `gorm:"serializer:json;type:json"`
	LessonTitles   []string  `gorm:"serializer:json;type:json"`
	NumberOfSpaces int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"index"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderModel) TableName() string {
	return "orders"
}
