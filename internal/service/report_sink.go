// FILE: internal/service/report_sink.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mondichat-be/internal/dto"
	"mondichat-be/pkg/query"
)

// reportSink hands extracted reports to the report topic. The consumer
// persists them outside the request path.
type reportSink struct {
	publisherService IPublisherService
	now              func() time.Time
}

func NewReportSink(publisherService IPublisherService) query.ReportSink {
	return &reportSink{publisherService: publisherService, now: time.Now}
}

func (s *reportSink) CreateReport(ctx context.Context, userId, content string) error {
	payload, err := json.Marshal(dto.PublishReportMessage{
		UserId:    userId,
		Content:   content,
		CreatedAt: s.now().UTC().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	return nil
}
