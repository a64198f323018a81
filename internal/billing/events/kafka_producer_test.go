package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/biztime/backend/internal/billing/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestEventKey(t *testing.T) {
	companyEvent := Event{Type: CompanyCreated, Company: &models.Company{Code: "acme"}}
	assert.Equal(t, []byte("acme"), companyEvent.Key())

	invoiceEvent := Event{Type: InvoiceCreated, Invoice: &models.Invoice{ID: 42}}
	assert.Equal(t, []byte("42"), invoiceEvent.Key())
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		producer := &Producer{
			events: make(chan Event, 10),
			logger: zaptest.NewLogger(t),
		}

		producer.Produce(Event{Type: CompanyCreated, Company: &models.Company{Code: "acme"}})

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{
			events: make(chan Event, 1), // Small buffer for test
			logger: zap.New(core),
		}
		event := Event{Type: CompanyCreated, Company: &models.Company{Code: "acme"}}

		// Fill the channel
		producer.Produce(event)
		producer.Produce(event) // This should be dropped

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	company := &models.Company{Code: "acme", Name: "Acme"}

	producer := &Producer{
		writer: mockWriter,
		logger: zaptest.NewLogger(t),
	}

	t.Run("successful send", func(t *testing.T) {
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

		event := Event{Type: CompanyCreated, Company: company}
		producer.sendEvent(context.Background(), event)

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:   []byte(company.Code),
				Value: mustMarshal(event),
			},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		event := Event{Type: CompanyCreated, Company: company}
		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("event_type", string(CompanyCreated))).Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)
		mockWriter.ExpectedCalls = nil
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))

		event := Event{Type: InvoiceUpdated, Invoice: &models.Invoice{ID: 1}}
		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)

	producer := &Producer{
		writer:    mockWriter,
		closeChan: make(chan struct{}),
		logger:    zaptest.NewLogger(t),
	}

	producer.Close()

	// Verify close channel is closed
	select {
	case <-producer.closeChan:
	default:
		t.Error("closeChan not closed")
	}

	mockWriter.AssertCalled(t, "Close")
}

func TestProducer_EventLoop(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

	producer := &Producer{
		writer: mockWriter,
		events: make(chan Event, 1),
		logger: zaptest.NewLogger(t),
	}

	// Start event loop
	go producer.eventLoop()

	// Send event
	producer.events <- Event{Type: InvoiceCreated, Invoice: &models.Invoice{ID: 1}}

	// Give time for processing
	time.Sleep(100 * time.Millisecond)

	mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func mustMarshal(e Event) []byte {
	data, _ := json.Marshal(e)
	return data
}
