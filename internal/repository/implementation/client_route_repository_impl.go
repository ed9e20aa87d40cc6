package implementation

import (
	"context"

	"mondichat-be/internal/entity"
	"mondichat-be/internal/mapper"
	"mondichat-be/internal/model"
	"mondichat-be/internal/repository/contract"
	"mondichat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const insertBatchSize = 500

type ClientRouteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ClientRouteMapper
}

func NewClientRouteRepository(db *gorm.DB) contract.ClientRouteRepository {
	return &ClientRouteRepositoryImpl{
		db:     db,
		mapper: mapper.NewClientRouteMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ClientRouteRepositoryImpl) ReplaceAll(ctx context.Context, rows []*entity.ClientRoute) error {
	db := r.db.WithContext(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ClientRoute{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	models := r.mapper.ToModels(rows)
	for _, m := range models {
		if m.Id == uuid.Nil {
			m.Id = uuid.New()
		}
	}
	if err := db.CreateInBatches(models, insertBatchSize).Error; err != nil {
		return err
	}
	for i, m := range models {
		rows[i].Id = m.Id
	}
	return nil
}

func (r *ClientRouteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClientRoute, error) {
	var models []*model.ClientRoute
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ClientRouteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.ClientRoute{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
