package contract

import (
	"context"

	"mondichat-be/internal/entity"
	"mondichat-be/internal/repository/specification"
)

type ClientRouteRepository interface {
	// ReplaceAll deletes every stored record and inserts rows. Run it inside
	// a unit of work so readers never see the table empty.
	ReplaceAll(ctx context.Context, rows []*entity.ClientRoute) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClientRoute, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
