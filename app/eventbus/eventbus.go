package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// TopicScoreUpdated carries score lifecycle transitions written by the
// scoring worker.
const TopicScoreUpdated = "registry.score.updated"

// ScoreUpdatedPayload is the JSON body published on TopicScoreUpdated.
type ScoreUpdatedPayload struct {
	CommunityID int64     `json:"community_id"`
	Address     string    `json:"address"`
	PassportID  int64     `json:"passport_id"`
	Status      string    `json:"status"`
	Score       *string   `json:"score,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Publisher is the slice of the event bus the registry needs. Handed to the
// scoring worker as an explicit capability; a nil Publisher disables events.
type Publisher interface {
	Publish(topic string, messages ...*message.Message) error
	Close() error
}

// NewNATSPublisher creates a JetStream-backed watermill publisher.
func NewNATSPublisher(natsURL string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}

	publisher, err := wnats.NewPublisher(
		wnats.PublisherConfig{
			URL:         natsURL,
			NatsOptions: options,
			Marshaler:   &wnats.NATSMarshaler{},
			JetStream: wnats.JetStreamConfig{
				AutoProvision: true,
			},
			SubjectCalculator: wnats.DefaultSubjectCalculator,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	return publisher, nil
}

// PublishScoreUpdated marshals and publishes one score transition. A nil
// publisher is a no-op so callers never branch on configuration.
func PublishScoreUpdated(publisher Publisher, payload ScoreUpdatedPayload) error {
	if publisher == nil {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal score event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	if err := publisher.Publish(TopicScoreUpdated, msg); err != nil {
		return fmt.Errorf("failed to publish score event: %w", err)
	}

	return nil
}
