package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/colmadosys/colmado_backend/models"
	"github.com/redis/go-redis/v9"
)

func feedMessage(t *testing.T, collection models.Collection, refId int) *redis.Message {
	t.Helper()
	payload, err := json.Marshal(Event{Collection: collection, Action: ActionCreate, RefId: refId})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &redis.Message{Channel: channelFor(collection), Payload: string(payload)}
}

func TestForwardDeliversDecodedEvents(t *testing.T) {
	sub := &Subscription{ch: make(chan Event, 16), done: make(chan struct{})}
	msgs := make(chan *redis.Message, 2)
	msgs <- feedMessage(t, models.CollectionSales, 3)
	msgs <- &redis.Message{Payload: "not json"}
	close(msgs)

	sub.forward(msgs)

	event, ok := <-sub.ch
	if !ok {
		t.Fatal("channel closed before delivering the event")
	}
	if event.Collection != models.CollectionSales || event.RefId != 3 {
		t.Fatalf("event = %+v, want sales/3", event)
	}
	if _, ok := <-sub.ch; ok {
		t.Fatal("undecodable payload produced an event")
	}
}

func TestForwardStopsWhenSubscriptionTornDown(t *testing.T) {
	// Unbuffered event channel with no receiver: a bare send would block
	// forever once the subscriber walks away.
	sub := &Subscription{ch: make(chan Event), done: make(chan struct{})}
	msgs := make(chan *redis.Message, 1)
	msgs <- feedMessage(t, models.CollectionProducts, 1)

	returned := make(chan struct{})
	go func() {
		sub.forward(msgs)
		close(returned)
	}()

	close(sub.done)

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("forward did not return after teardown")
	}
}
