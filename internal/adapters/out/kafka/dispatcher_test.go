package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestDispatcher_NotifySeller_KeysByRecipient(t *testing.T) {
	writer := new(mockWriter)
	d := kafka.NewDispatcherWithWriter(writer, zap.NewNop())
	sellerID := kernel.NewUUID()

	var sent []kafkago.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafkago.Message) }).
		Return(nil).Once()

	err := d.NotifySeller(context.Background(), sellerID, notification.EventSubOrderCreated,
		notification.Payload{"subOrderId": "s-1"})
	require.NoError(t, err)

	require.Len(t, sent, 1)
	assert.Equal(t, sellerID.String(), string(sent[0].Key))
	assert.Equal(t, "event", sent[0].Headers[0].Key)
	assert.Equal(t, notification.EventSubOrderCreated, string(sent[0].Headers[0].Value))

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(sent[0].Value, &envelope))
	assert.Equal(t, "seller", envelope["recipient"])
	assert.Equal(t, sellerID.String(), envelope["recipientId"])
	assert.Equal(t, map[string]any{"subOrderId": "s-1"}, envelope["payload"])
	writer.AssertExpectations(t)
}

func TestDispatcher_NotifyBuyer_PropagatesWriteError(t *testing.T) {
	writer := new(mockWriter)
	d := kafka.NewDispatcherWithWriter(writer, zap.NewNop())
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available")).Once()

	err := d.NotifyBuyer(context.Background(), kernel.NewUUID(), notification.EventOrderPlaced, nil)

	require.EqualError(t, err, "leader not available")
}

func TestDispatcher_Close(t *testing.T) {
	writer := new(mockWriter)
	writer.On("Close").Return(nil).Once()

	require.NoError(t, kafka.NewDispatcherWithWriter(writer, nil).Close())
	writer.AssertExpectations(t)
}
