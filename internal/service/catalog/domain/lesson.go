// internal/service/catalog/domain/lesson.go
package domain

import (
	"strings"

	"lessonhub/internal/pkg/apperr"
)

// Lesson 是课程目录中的一项, 名额有限。
// AvailableCapacity 只能通过库存的条件扣减或补偿修改, 永远不为负。
type Lesson struct {
	ID                string  `json:"id" yaml:"id"`
	Title             string  `json:"title" yaml:"title"`
	Location          string  `json:"location" yaml:"location"`
	Price             float64 `json:"price" yaml:"price"`
	AvailableCapacity int     `json:"availableCapacity" yaml:"availableCapacity"`
	Description       string  `json:"description,omitempty" yaml:"description"`
	Image             string  `json:"image,omitempty" yaml:"image"`
}

// Validate 校验一条新建的课程记录。
func (l *Lesson) Validate() error {
	switch {
	case strings.TrimSpace(l.ID) == "":
		return apperr.Validation("lesson id is required")
	case strings.TrimSpace(l.Title) == "":
		return apperr.Validation("lesson %s: title is required", l.ID)
	case l.Price < 0:
		return apperr.Validation("lesson %s: price must not be negative", l.ID)
	case l.AvailableCapacity < 0:
		return apperr.Validation("lesson %s: availableCapacity must not be negative", l.ID)
	}
	return nil
}

// LessonPatch 是管理端允许修改的字段白名单。
// 名额 (availableCapacity) 不在其中, 只能由下单流程修改。
type LessonPatch struct {
	Title       *string  `json:"title,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

func (p LessonPatch) IsEmpty() bool {
	return p.Title == nil && p.Location == nil && p.Price == nil && p.Description == nil && p.Image == nil
}

func (p LessonPatch) Validate() error {
	if p.IsEmpty() {
		return apperr.Validation("no updatable field supplied")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return apperr.Validation("title must not be empty")
	}
	if p.Price != nil && *p.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	return nil
}

// Apply 把补丁写入 lesson。
func (p LessonPatch) Apply(l *Lesson) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Location != nil {
		l.Location = *p.Location
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Image != nil {
		l.Image = *p.Image
	}
}

// Columns 返回补丁对应的数据库列, 供 SQL 仓储做部分更新。
func (p LessonPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Image != nil {
		cols["image"] = *p.Image
	}
	return cols
}
