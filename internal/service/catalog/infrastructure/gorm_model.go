package infrastructure

import (
	"time"
)

// LessonModel 对应数据库中的 lessons 表
type LessonModel struct {
	ID                string  `gorm:"primaryKey;size:64"`
	Title             string  `gorm:"size:255;not null"`
	Location          string  `gorm:"size:255;index"`
	Price             float64 `gorm:"type:decimal(10,2);not null;default:0"`
	AvailableCapacity int     `gorm:"not null;default:0;check:chk_lessons_capacity,available_capacity >= 0"`
	Description       string  `gorm:"type:text"`
	Image             string  `gorm:"size:512"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName 指定 GORM 应该使用的表名
func (LessonModel) TableName() string {
	return "lessons"
}
