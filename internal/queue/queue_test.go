package queue_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/campaign-manager-backend/internal/queue"
)

func TestPublishWithoutSubscribers(t *testing.T) {
	q := queue.NewInMemoryQueue()

	err := q.Publish(queue.TopicCampaignEvents, queue.CampaignEvent{Type: queue.EventCreated})
	assert.Error(t, err)
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	q := queue.NewInMemoryQueue()

	got := make(chan queue.CampaignEvent, 1)
	err := q.Subscribe(queue.TopicCampaignEvents, func(payload any) error {
		ev, ok := payload.(queue.CampaignEvent)
		if !ok {
			return fmt.Errorf("unexpected payload %T", payload)
		}
		got <- ev
		return nil
	})
	require.NoError(t, err)

	ev := queue.CampaignEvent{Type: queue.EventExpired, CampaignID: "k3J9x2Qa", OccurredAt: time.Now()}
	require.NoError(t, q.Publish(queue.TopicCampaignEvents, ev))

	select {
	case received := <-got:
		assert.Equal(t, queue.EventExpired, received.Type)
		assert.Equal(t, "k3J9x2Qa", received.CampaignID)
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestPublishRetriesFailedHandler(t *testing.T) {
	q := queue.NewInMemoryQueue()

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})

	err := q.Subscribe(queue.TopicCampaignEvents, func(payload any) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 2 {
			return fmt.Errorf("transient failure")
		}
		close(done)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, q.Publish(queue.TopicCampaignEvents, queue.CampaignEvent{Type: queue.EventDeleted}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler never succeeded after retry")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, attempts)
}
