package infrastructure

import (
	"context"

	"gorm.io/gorm"

	"lessonhub/internal/pkg/database"
	"lessonhub/internal/service/order/domain"
)

// GormOrderRepository 是 OrderRepository 的 GORM (MySQL) 实现
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// AutoMigrate 创建或更新 orders 表结构
func (r *GormOrderRepository) AutoMigrate(ctx context.Context) error {
	return database.Classify(r.db.WithContext(ctx).AutoMigrate(&OrderModel{}), "migrate orders")
}

func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(FromDomainOrder(order)).Error; err != nil {
		return database.Classify(err, "save order %s", order.ID)
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, database.Classify(err, "order %s not found", id)
	}
	return ToDomainOrder(&model), nil
}
