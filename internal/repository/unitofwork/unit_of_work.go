package unitofwork

import (
	"context"

	"mondichat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ClientRouteRepository() contract.ClientRouteRepository
	UserRouteRepository() contract.UserRouteRepository
	ReportRepository() contract.ReportRepository
}
