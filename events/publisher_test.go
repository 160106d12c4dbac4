package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherWithoutBrokers(t *testing.T) {
	p := NewPublisher(nil, "course.enrollments")

	_, ok := p.(NoopPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.PublishEnrollment(context.Background(), EnrollmentEvent{UserID: 1, CourseID: 2}))
	assert.NoError(t, p.Close())
}

func TestNewPublisherWithBrokers(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "course.enrollments")
	defer p.Close()

	_, ok := p.(*KafkaPublisher)
	assert.True(t, ok)
}

func TestEncodeEnrollment(t *testing.T) {
	msg, err := encodeEnrollment(EnrollmentEvent{UserID: 42, CourseID: 7, TransactionID: "pay_1"})
	require.NoError(t, err)

	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventEnrolled, string(msg.Headers[0].Value))

	var decoded EnrollmentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, EventEnrolled, decoded.Type)
	assert.Equal(t, uint(7), decoded.CourseID)
	assert.Equal(t, "pay_1", decoded.TransactionID)
	assert.False(t, decoded.OccurredAt.IsZero())
}
