package implementation

import (
	"context"
	"errors"

	"mondichat-be/internal/entity"
	"mondichat-be/internal/mapper"
	"mondichat-be/internal/model"
	"mondichat-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRouteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserRouteMapper
}

func NewUserRouteRepository(db *gorm.DB) contract.UserRouteRepository {
	return &UserRouteRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserRouteMapper(),
	}
}

func (r *UserRouteRepositoryImpl) FindByUserId(ctx context.Context, userId string) (*entity.UserRoute, error) {
	var m model.UserRoute
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRouteRepositoryImpl) Upsert(ctx context.Context, route *entity.UserRoute) error {
	m := r.mapper.ToModel(route)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"route_code", "quota_percentage", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*route = *r.mapper.ToEntity(m)
	return nil
}
