package contract

import (
	"context"

	"mondichat-be/internal/entity"
)

type UserRouteRepository interface {
	// FindByUserId returns nil when the user has no route.
	FindByUserId(ctx context.Context, userId string) (*entity.UserRoute, error)
	Upsert(ctx context.Context, route *entity.UserRoute) error
}
