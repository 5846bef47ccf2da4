package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/models"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event is one committed change to a collection. Consumers re-read the
// collection (or the referenced record) on receipt; events carry identity,
// not payloads, so a missed event never means lost data.
type Event struct {
	Collection    models.Collection `json:"collection"`
	Action        string            `json:"action"`
	RefId         int               `json:"ref_id"`
	CorrelationId string            `json:"correlation_id"`
	At            time.Time         `json:"at"`
}

const ActionCreate = "create"

func channelFor(collection models.Collection) string {
	return "feed:" + string(collection)
}

// PublishChange notifies subscribers of a committed write. Best-effort:
// a nil or unreachable Redis never fails the business transaction, which
// has already committed.
func PublishChange(ctx context.Context, rdb *redis.Client, collection models.Collection, refId int) {
	if rdb == nil {
		return
	}

	event := Event{
		Collection:    collection,
		Action:        ActionCreate,
		RefId:         refId,
		CorrelationId: correlationIdFromContextOrNew(ctx),
		At:            time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		config.LogError(config.GetLogger(), "feed.go", "PublishChange", "marshal event", event, err)
		return
	}
	if err := rdb.Publish(ctx, channelFor(collection), payload).Err(); err != nil {
		config.LogError(config.GetLogger(), "feed.go", "PublishChange", "publish", event, err)
	}
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// Subscription is a live handle on one collection's change feed. The core
// transaction logic knows nothing about subscriptions; they exist purely
// for the UI boundary.
type Subscription struct {
	pubsub *redis.PubSub
	ch     chan Event
	done   chan struct{}
	once   sync.Once
}

// Subscribe registers a listener on a collection. The returned handle's
// channel closes after Unsubscribe.
func Subscribe(ctx context.Context, rdb *redis.Client, collection models.Collection) (*Subscription, error) {
	pubsub := rdb.Subscribe(ctx, channelFor(collection))
	// Force the subscription onto the wire before returning.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &Subscription{
		pubsub: pubsub,
		ch:     make(chan Event, 16),
		done:   make(chan struct{}),
	}

	go sub.forward(pubsub.Channel())

	return sub, nil
}

// forward decodes messages onto the event channel until the source closes
// or the subscription is torn down. The receiver may be gone with the
// buffer full; a bare send would pin this goroutine forever.
func (s *Subscription) forward(msgs <-chan *redis.Message) {
	defer close(s.ch)
	for msg := range msgs {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			config.LogError(config.GetLogger(), "feed.go", "Subscribe", "unmarshal event", msg.Payload, err)
			continue
		}
		select {
		case s.ch <- event:
		case <-s.done:
			return
		}
	}
}

// C yields events until Unsubscribe.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

func (s *Subscription) Unsubscribe() error {
	s.once.Do(func() { close(s.done) })
	return s.pubsub.Close()
}
