package unitofwork_test

import (
	"context"
	"os"
	"testing"
	"time"

	"mondichat-be/internal/entity"
	"mondichat-be/internal/repository/specification"
	"mondichat-be/internal/repository/unitofwork"
	"mondichat-be/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Everything runs inside one transaction that is rolled back, so the stored
// snapshot is left untouched.
func TestUnitOfWorkAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBWithOptions(dsn, database.Options{Quiet: true})
	require.NoError(t, err)

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(gormDB).NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	defer func() { _ = uow.Rollback() }()

	now := time.Now().UTC().Truncate(time.Second)
	rows := []*entity.ClientRoute{
		{RouteCode: "ITEST", ClientCode: "C2", ClientName: "Bodega Dos", Attributes: map[string]string{"UNIDADES": "0"}, BatchId: "itest", UploadedAt: now},
		{RouteCode: "ITEST", ClientCode: "C1", ClientName: "Bodega Uno", Attributes: map[string]string{"UNIDADES": "4"}, BatchId: "itest", UploadedAt: now},
		{RouteCode: "OTHER", ClientCode: "C3", BatchId: "itest", UploadedAt: now},
	}

	t.Run("replace and read back", func(t *testing.T) {
		require.NoError(t, uow.ClientRouteRepository().ReplaceAll(ctx, rows))

		total, err := uow.ClientRouteRepository().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		specs := append([]specification.Specification{specification.ByRouteCode{RouteCode: "ITEST"}},
			specification.NewestUploadFirst()...)
		found, err := uow.ClientRouteRepository().FindAll(ctx, specs...)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "C1", found[0].ClientCode)
		assert.Equal(t, "4", found[0].Attributes["UNIDADES"])
	})

	t.Run("user route upsert", func(t *testing.T) {
		route := &entity.UserRoute{UserId: "itest-user", RouteCode: "ITEST", QuotaPercentage: 40}
		require.NoError(t, uow.UserRouteRepository().Upsert(ctx, route))
		route.QuotaPercentage = 75
		require.NoError(t, uow.UserRouteRepository().Upsert(ctx, route))

		got, err := uow.UserRouteRepository().FindByUserId(ctx, "itest-user")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 75.0, got.QuotaPercentage)

		missing, err := uow.UserRouteRepository().FindByUserId(ctx, "nobody-"+now.Format("150405"))
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("report create", func(t *testing.T) {
		report := &entity.Report{UserId: "itest-user", Content: "faltan exhibidores", CreatedAt: now}
		require.NoError(t, uow.ReportRepository().Create(ctx, report))

		reports, err := uow.ReportRepository().FindAll(ctx, specification.ByUserId{UserId: "itest-user"})
		require.NoError(t, err)
		assert.NotEmpty(t, reports)
	})
}
