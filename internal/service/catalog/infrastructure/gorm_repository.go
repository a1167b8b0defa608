package infrastructure

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lessonhub/internal/pkg/apperr"
	"lessonhub/internal/pkg/database"
	"lessonhub/internal/service/catalog/domain"
)

// GormLessonRepository 是 LessonRepository 的 GORM (MySQL) 实现
type GormLessonRepository struct {
	db *gorm.DB
}

// NewGormLessonRepository 创建一个新的 GORM 仓储实例
func NewGormLessonRepository(db *gorm.DB) *GormLessonRepository {
	return &GormLessonRepository{db: db}
}

// AutoMigrate 创建或更新 lessons 表结构
func (r *GormLessonRepository) AutoMigrate(ctx context.Context) error {
	return database.Classify(r.db.WithContext(ctx).AutoMigrate(&LessonModel{}), "migrate lessons")
}

func (r *GormLessonRepository) List(ctx context.Context) ([]domain.Lesson, error) {
	var models []LessonModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, database.Classify(err, "list lessons")
	}
	return toDomainLessons(models), nil
}

func (r *GormLessonRepository) Get(ctx context.Context, id string) (*domain.Lesson, error) {
	var model LessonModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, database.Classify(err, "lesson %s not found", id)
	}
	l := ToDomainLesson(&model)
	return &l, nil
}

func (r *GormLessonRepository) BatchRead(ctx context.Context, ids []string) ([]domain.Lesson, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []LessonModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&models).Error; err != nil {
		return nil, database.Classify(err, "batch read lessons")
	}
	return toDomainLessons(models), nil
}

// InsertIfAbsent 依赖主键冲突时什么也不做 (MySQL 下生成 ON DUPLICATE KEY UPDATE id=id),
// 已存在的行不计入 RowsAffected。
func (r *GormLessonRepository) InsertIfAbsent(ctx context.Context, lessons []domain.Lesson) (int, error) {
	if len(lessons) == 0 {
		return 0, nil
	}
	models := make([]*LessonModel, len(lessons))
	for i := range lessons {
		models[i] = FromDomainLesson(&lessons[i])
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&models)
	if res.Error != nil {
		return 0, database.Classify(res.Error, "insert lessons")
	}
	return int(res.RowsAffected), nil
}

func (r *GormLessonRepository) Update(ctx context.Context, id string, patch domain.LessonPatch) (*domain.Lesson, error) {
	var model LessonModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&model).Error; err != nil {
			return err
		}
		// 只更新白名单中的列
		if err := tx.Model(&LessonModel{}).Where("id = ?", id).Updates(patch.Columns()).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		return nil, database.Classify(err, "lesson %s not found", id)
	}
	l := ToDomainLesson(&model)
	return &l, nil
}

// ConditionalDecrement 使用单条条件 UPDATE, 检查与扣减在数据库内原子完成:
// UPDATE lessons SET available_capacity = available_capacity - ? WHERE id = ? AND available_capacity >= ?
func (r *GormLessonRepository) ConditionalDecrement(ctx context.Context, id string, n int) error {
	res := r.db.WithContext(ctx).
		Model(&LessonModel{}).
		Where("id = ? AND available_capacity >= ?", id, n).
		UpdateColumn("available_capacity", gorm.Expr("available_capacity - ?", n))
	if res.Error != nil {
		return database.Classify(res.Error, "decrement lesson %s", id)
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict(nil, "lesson %s: capacity below %d at commit", id, n)
	}
	return nil
}

func (r *GormLessonRepository) Increment(ctx context.Context, id string, n int) error {
	res := r.db.WithContext(ctx).
		Model(&LessonModel{}).
		Where("id = ?", id).
		UpdateColumn("available_capacity", gorm.Expr("available_capacity + ?", n))
	if res.Error != nil {
		return database.Classify(res.Error, "increment lesson %s", id)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("lesson %s not found", id)
	}
	return nil
}
