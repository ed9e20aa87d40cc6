// FILE: internal/service/route_store.go
package service

import (
	"context"
	"fmt"

	"mondichat-be/internal/mapper"
	"mondichat-be/internal/repository/specification"
	"mondichat-be/internal/repository/unitofwork"
	"mondichat-be/pkg/query"
	"mondichat-be/pkg/reconciler"
)

// routeStore reads the snapshot for the query engine. Reads run outside a
// transaction; ReplaceAll commits atomically so they see either batch.
type routeStore struct {
	uowFactory unitofwork.RepositoryFactory
	mapper     *mapper.ClientRouteMapper
}

func NewRouteStore(uowFactory unitofwork.RepositoryFactory) query.Store {
	return &routeStore{
		uowFactory: uowFactory,
		mapper:     mapper.NewClientRouteMapper(),
	}
}

func (s *routeStore) FindUserRoute(ctx context.Context, userId string) (*query.Route, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	route, err := uow.UserRouteRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to find route of user %s: %w", userId, err)
	}
	if route == nil || route.RouteCode == "" {
		return nil, query.ErrRouteNotFound
	}

	return &query.Route{
		RouteCode:       route.RouteCode,
		QuotaPercentage: route.QuotaPercentage,
	}, nil
}

func (s *routeStore) FindByRoute(ctx context.Context, routeCode string, limit int) ([]reconciler.Record, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := append([]specification.Specification{specification.ByRouteCode{RouteCode: routeCode}},
		specification.NewestUploadFirst()...)
	specs = append(specs, specification.Pagination{Limit: limit})

	rows, err := uow.ClientRouteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("failed to find clients of route %s: %w", routeCode, err)
	}

	records := make([]reconciler.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, s.mapper.ToRecord(row))
	}
	return records, nil
}
