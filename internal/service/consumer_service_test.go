package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"mondichat-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportMessage(t *testing.T, payload interface{}) *message.Message {
	t.Helper()
	raw, ok := payload.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	return message.NewMessage(watermill.NewUUID(), raw)
}

func outcome(msg *message.Message) string {
	select {
	case <-msg.Acked():
		return "ack"
	case <-msg.Nacked():
		return "nack"
	default:
		return "none"
	}
}

func TestConsumerProcessMessage(t *testing.T) {
	tests := []struct {
		name      string
		payload   interface{}
		reportErr error
		want      string
		stored    int
	}{
		{"stores report", dto.PublishReportMessage{UserId: "u-1", Content: " cliente C1 cerrado ", CreatedAt: 1772460000000}, nil, "ack", 1},
		{"invalid json is acked", []byte("{oops"), nil, "ack", 0},
		{"empty content is dropped", dto.PublishReportMessage{UserId: "u-1", Content: "  "}, nil, "ack", 0},
		{"db failure is retried", dto.PublishReportMessage{UserId: "u-1", Content: "x"}, errors.New("db down"), "nack", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newFakeDB()
			db.reportErr = tt.reportErr
			cs := &consumerService{uowFactory: db}

			msg := reportMessage(t, tt.payload)
			cs.processMessage(context.Background(), msg)

			assert.Equal(t, tt.want, outcome(msg))
			require.Len(t, db.reports, tt.stored)
			if tt.stored > 0 {
				assert.Equal(t, "cliente C1 cerrado", db.reports[0].Content)
				assert.Equal(t, int64(1772460000000), db.reports[0].CreatedAt.UnixMilli())
			}
		})
	}
}

func TestReportSinkRoundTripThroughGoChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	db := newFakeDB()
	consumer := NewConsumerService(pubSub, "CREATE_REPORT", db)
	require.NoError(t, consumer.Consume(ctx))

	sink := NewReportSink(NewPublisherService("CREATE_REPORT", pubSub))
	require.NoError(t, sink.CreateReport(ctx, "u-7", "visité a C3"))

	require.Eventually(t, func() bool {
		db.mu.Lock()
		defer db.mu.Unlock()
		return len(db.reports) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "u-7", db.reports[0].UserId)
}
