package contract

import (
	"context"

	"mondichat-be/internal/entity"
	"mondichat-be/internal/repository/specification"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Report, error)
}
