package events

import (
	"context"
	"time"

	"github.com/Anantmishra121/learningedgeBackend/utils"
)

// EventEnrolled is published once per new course enrollment
const EventEnrolled = "course.enrolled"

// EnrollmentEvent is the payload written to the enrollment topic
type EnrollmentEvent struct {
	Type          string    `json:"type"`
	UserID        uint      `json:"userId"`
	CourseID      uint      `json:"courseId"`
	TransactionID string    `json:"transactionId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher emits domain events to downstream consumers
type Publisher interface {
	PublishEnrollment(ctx context.Context, event EnrollmentEvent) error
	Close() error
}

// NewPublisher returns a kafka publisher, or a no-op one when no brokers are configured
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		utils.LogInfo("Kafka is disabled (KAFKA_BROKERS is empty)")
		return NoopPublisher{}
	}
	utils.LogInfo("Kafka producer initialized. Brokers=%v, Topic=%s", brokers, topic)
	return NewKafkaPublisher(brokers, topic)
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// PublishEnrollment does nothing
func (NoopPublisher) PublishEnrollment(ctx context.Context, event EnrollmentEvent) error {
	return nil
}

// Close does nothing
func (NoopPublisher) Close() error {
	return nil
}
