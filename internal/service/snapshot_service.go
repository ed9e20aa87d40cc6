// FILE: internal/service/snapshot_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"mondichat-be/internal/dto"
	"mondichat-be/internal/entity"
	"mondichat-be/internal/mapper"
	"mondichat-be/internal/pkg/logger"
	"mondichat-be/internal/repository/unitofwork"
	"mondichat-be/pkg/database"
	"mondichat-be/pkg/events"
	"mondichat-be/pkg/reconciler"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const uploadModule = "UPLOAD"

// EventPublisher is satisfied by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ISnapshotService interface {
	// Upload replaces the whole snapshot with the reconciled upload. A
	// malformed upload returns *reconciler.MalformedUploadError and leaves
	// the stored snapshot untouched.
	Upload(ctx context.Context, filename string, data []byte, layout reconciler.Layout) (*dto.UploadSnapshotResponse, error)
	AssignRoute(ctx context.Context, req *dto.AssignRouteRequest) (*dto.AssignRouteResponse, error)
	Status(ctx context.Context) (*dto.SnapshotStatusResponse, error)
}

type snapshotService struct {
	uowFactory  unitofwork.RepositoryFactory
	reconciler  *reconciler.Reconciler
	publisher   EventPublisher
	auditLogger logger.ILogger
	mapper      *mapper.ClientRouteMapper
	now         func() time.Time
}

// NewSnapshotService accepts a nil publisher when NATS is unavailable.
func NewSnapshotService(
	uowFactory unitofwork.RepositoryFactory,
	rec *reconciler.Reconciler,
	publisher EventPublisher,
	auditLogger logger.ILogger,
) ISnapshotService {
	return &snapshotService{
		uowFactory:  uowFactory,
		reconciler:  rec,
		publisher:   publisher,
		auditLogger: auditLogger,
		mapper:      mapper.NewClientRouteMapper(),
		now:         time.Now,
	}
}

func (s *snapshotService) Upload(ctx context.Context, filename string, data []byte, layout reconciler.Layout) (*dto.UploadSnapshotResponse, error) {
	ctx, span := otel.Tracer("snapshot").Start(ctx, "snapshot.upload")
	defer span.End()

	format := reconciler.DetectFormat(filename)
	span.SetAttributes(
		attribute.String("upload.layout", string(layout)),
		attribute.String("upload.format", string(format)),
		attribute.Int("upload.bytes", len(data)),
	)

	table, err := reconciler.Decode(data, format)
	if err != nil {
		s.rejected(span, filename, layout, err)
		return nil, err
	}

	result, err := s.reconciler.Reconcile(table, layout)
	if err != nil {
		s.rejected(span, filename, layout, err)
		return nil, err
	}

	rows := make([]*entity.ClientRoute, 0, len(result.Records))
	for _, rec := range result.Records {
		rows = append(rows, s.mapper.FromRecord(rec))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		err = fmt.Errorf("failed to begin transaction: %w", err)
		s.rejected(span, filename, layout, err)
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ClientRouteRepository().ReplaceAll(ctx, rows); err != nil {
		err = fmt.Errorf("failed to replace snapshot: %w", err)
		s.rejected(span, filename, layout, err)
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		err = fmt.Errorf("failed to commit snapshot: %w", err)
		s.rejected(span, filename, layout, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("upload.records", len(rows)), attribute.Int("upload.skipped", result.Skipped))
	s.auditLogger.Info(uploadModule, "Snapshot replaced", map[string]interface{}{
		"file":     filename,
		"layout":   string(layout),
		"batch_id": result.BatchId,
		"count":    len(rows),
		"skipped":  result.Skipped,
		"headers":  []string(result.Headers),
	})

	if s.publisher != nil {
		event := events.SnapshotReplaced(result.BatchId, string(layout), len(rows), result.Skipped, result.UploadedAt)
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish %s: %v", events.TypeSnapshotReplaced, err)
		}
	}

	return &dto.UploadSnapshotResponse{
		Success: true,
		Count:   len(rows),
		BatchId: result.BatchId,
		Skipped: result.Skipped,
	}, nil
}

func (s *snapshotService) rejected(span trace.Span, filename string, layout reconciler.Layout, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "rejected")
	s.auditLogger.Warn(uploadModule, "Upload rejected", map[string]interface{}{
		"file":   filename,
		"layout": string(layout),
		"error":  err.Error(),
	})
}

func (s *snapshotService) AssignRoute(ctx context.Context, req *dto.AssignRouteRequest) (*dto.AssignRouteResponse, error) {
	now := s.now().UTC()
	route := &entity.UserRoute{
		UserId:          req.UserId,
		RouteCode:       req.RouteCode,
		QuotaPercentage: req.QuotaPercentage,
		UpdatedAt:       &now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRouteRepository().Upsert(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to assign route: %w", err)
	}

	s.auditLogger.Info(uploadModule, "Route assigned", map[string]interface{}{
		"user_id":          req.UserId,
		"route_code":       req.RouteCode,
		"quota_percentage": req.QuotaPercentage,
	})

	if s.publisher != nil {
		event := events.RouteAssigned(req.UserId, req.RouteCode, req.QuotaPercentage, now)
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish %s: %v", events.TypeRouteAssigned, err)
		}
	}

	return &dto.AssignRouteResponse{
		UserId:          route.UserId,
		RouteCode:       route.RouteCode,
		QuotaPercentage: route.QuotaPercentage,
		UpdatedAt:       route.UpdatedAt,
	}, nil
}

func (s *snapshotService) Status(ctx context.Context) (*dto.SnapshotStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.ClientRouteRepository().Count(ctx)
	if database.IsUndefinedTable(err) {
		log.Printf("[WARN] Snapshot table missing, run cmd/migrate: %v", err)
		return &dto.SnapshotStatusResponse{Total: 0, Migrated: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.SnapshotStatusResponse{Total: total, Migrated: true}, nil
}
