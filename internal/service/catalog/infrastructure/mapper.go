package infrastructure

import (
	"lessonhub/internal/service/catalog/domain"
)

// ToDomainLesson 将数据库模型转换为领域模型
func ToDomainLesson(model *LessonModel) domain.Lesson {
	return domain.Lesson{
		ID:                model.ID,
		Title:             model.Title,
		Location:          model.Location,
		Price:             model.Price,
		AvailableCapacity: model.AvailableCapacity,
		Description:       model.Description,
		Image:             model.Image,
	}
}

// FromDomainLesson 将领域模型转换为数据库模型 (用于插入)
func FromDomainLesson(l *domain.Lesson) *LessonModel {
	return &LessonModel{
		ID:                l.ID,
		Title:             l.Title,
		Location:          l.Location,
		Price:             l.Price,
		AvailableCapacity: l.AvailableCapacity,
		Description:       l.Description,
		Image:             l.Image,
	}
}

func toDomainLessons(models []LessonModel) []domain.Lesson {
	out := make([]domain.Lesson, len(models))
	for i := range models {
		out[i] = ToDomainLesson(&models[i])
	}
	return out
}
