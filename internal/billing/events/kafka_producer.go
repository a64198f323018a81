package events

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/biztime/backend/internal/billing/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CompanyCreated EventType = "company_created"
	CompanyUpdated EventType = "company_updated"
	CompanyDeleted EventType = "company_deleted"
	InvoiceCreated EventType = "invoice_created"
	InvoiceUpdated EventType = "invoice_updated"
	InvoiceDeleted EventType = "invoice_deleted"
)

// Event is a billing lifecycle notification. Exactly one of Company or
// Invoice is set, matching the event type.
type Event struct {
	Type    EventType       `json:"type"`
	Company *models.Company `json:"company,omitempty"`
	Invoice *models.Invoice `json:"invoice,omitempty"`
}

// Key returns the partition key for the event: the company code for
// company events, the invoice id for invoice events.
func (e Event) Key() []byte {
	if e.Company != nil {
		return []byte(e.Company.Code)
	}
	if e.Invoice != nil {
		return []byte(strconv.FormatInt(e.Invoice.ID, 10))
	}
	return nil
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}

	err = conn.CreateTopics(topicConfigs...)
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000), // Buffered channel
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

func (p *Producer) Produce(event Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.ByteString("key", event.Key()),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   event.Key(),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.ByteString("key", event.Key()),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
