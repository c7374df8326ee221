package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/falahalshidi/shrfa-app/internal/models"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

func (p *Producer) Publish(topic, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

// PublishBookingCreated streams the booking creation event.
func (p *Producer) PublishBookingCreated(booking models.Booking) error {
	msgBytes, err := json.Marshal(booking)
	if err != nil {
		return err
	}
	return p.Publish(TopicBookingCreated, booking.ID, msgBytes)
}

// PublishTicketIssued streams a per-ticket issuance event. The QR image is
// stripped; consumers fetch it from the API if they need it.
func (p *Producer) PublishTicketIssued(ticket models.Ticket) error {
	ticket.QRCode = nil
	msgBytes, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	return p.Publish(TopicTicketIssued, ticket.ID, msgBytes)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
