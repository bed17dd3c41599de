package services

import (
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventsExchange is the exchange domain events are published to.
const EventsExchange = "store_rating"

// Routing keys of published domain events.
const (
	EventRatingSubmitted    = "rating.submitted"
	EventRatingUpdated      = "rating.updated"
	EventStoreCreated       = "store.created"
	EventStoreOwnerAssigned = "store.owner_assigned"
)

// EventPublisher sends a message to an exchange with a routing key.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// publishEvent publishes payload when pub is configured. Publishing is best
// effort: the write it describes has already been committed.
func publishEvent(pub EventPublisher, routingKey string, payload map[string]interface{}) {
	if pub == nil {
		return
	}
	payload["event"] = routingKey
	payload["occurred_at"] = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := pub.Publish(EventsExchange, routingKey, body); err != nil {
		log.WithField("routing_key", routingKey).Warnf("Failed to publish event: %v", err)
	}
}
