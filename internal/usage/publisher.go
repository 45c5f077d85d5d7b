package usage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zee-1/TheSnitchBot-sub001/internal/leak"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/kafka"
	"github.com/zee-1/TheSnitchBot-sub001/pkg/logging"
)

// Event is one leak generation usage record published for downstream
// accounting and analytics.
type Event struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	CommunityID   string    `json:"community_id"`
	Persona       string    `json:"persona"`
	Strategy      string    `json:"strategy"`
	Reliability   int       `json:"reliability_percentage"`
	ContentLength int       `json:"content_length"`
	Timestamp     time.Time `json:"timestamp"`
}

const eventTypeLeakGenerated = "leak.generated"

// Publisher emits usage events to Kafka. A nil publisher or missing producer
// is a no-op so the service runs fine without a broker.
type Publisher struct {
	producer *kafka.KafkaProducer
	topic    string
	logger   logging.Logger
}

func NewPublisher(producer *kafka.KafkaProducer, topic string, logger logging.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// PublishLeakGenerated records a completed generation. Failures are logged
// and swallowed; usage reporting never blocks or fails a generation.
func (p *Publisher) PublishLeakGenerated(communityID string, persona leak.Persona, strategy string, content *leak.LeakContent) {
	if p == nil || p.producer == nil || content == nil {
		return
	}

	event := Event{
		EventID:       uuid.New().String(),
		EventType:     eventTypeLeakGenerated,
		CommunityID:   communityID,
		Persona:       string(persona),
		Strategy:      strategy,
		Reliability:   content.ReliabilityPercentage,
		ContentLength: content.ContentLength,
		Timestamp:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		if p.logger != nil {
			p.logger.WithFields(logging.Fields{"error": err.Error()}).Warn("Usage: failed to encode usage event")
		}
		return
	}

	headers := map[string]string{"event_type": eventTypeLeakGenerated}
	if err := p.producer.ProduceMessage(p.topic, []byte(communityID), payload, headers); err != nil {
		if p.logger != nil {
			p.logger.WithFields(logging.Fields{
				"community_id": communityID,
				"topic":        p.topic,
				"error":        err.Error(),
			}).Warn(fmt.Sprintf("Usage: failed to publish %s event", eventTypeLeakGenerated))
		}
	}
}
