package queue

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// TopicCampaignEvents carries every campaign lifecycle transition.
const TopicCampaignEvents = "campaign_events"

// Event types published on TopicCampaignEvents.
const (
	EventCreated = "campaign.created"
	EventUpdated = "campaign.updated"
	EventDeleted = "campaign.deleted"
	EventExpired = "campaign.expired"
)

// CampaignEvent is the payload for a lifecycle transition.
type CampaignEvent struct {
	Type       string    `json:"type"`
	CampaignID string    `json:"campaign_id"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is the in-process event path with retry
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps an event with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends an event to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Event handler failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Event permanently dropped after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartCampaignEventSubscriber attaches the in-process audit subscriber:
// one log line per lifecycle transition. Downstream integrations hang off
// the RabbitMQ path instead (see cmd/worker).
func StartCampaignEventSubscriber(q Queue) {
	go func() {
		err := q.Subscribe(TopicCampaignEvents, func(payload any) error {
			ev, ok := payload.(CampaignEvent)
			if !ok {
				log.Println("⚠️ Invalid payload type, expected CampaignEvent")
				return nil
			}

			log.Printf("📣 %s: %s (%s)\n", ev.Type, ev.CampaignID, ev.Name)
			return nil
		})

		if err != nil {
			log.Println("⚠️ Failed to start subscriber for campaign_events:", err)
		}
	}()
}
