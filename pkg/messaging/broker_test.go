package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBrokerPubSub(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := broker.Subscribe(ctx, "donations.updated")
	require.NoError(t, err)

	msg := Message{Type: "created", Payload: map[string]interface{}{"id": "d1"}}
	require.NoError(t, broker.Publish(ctx, "donations.updated", msg))

	select {
	case raw := <-ch:
		var got Message
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "created", got.Type)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestMemoryBrokerChannelIsolation(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := broker.Subscribe(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, broker.Publish(ctx, "b", Message{Type: "noise"}))

	select {
	case raw := <-ch:
		t.Fatalf("unexpected message: %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBrokerUnsubscribeOnCancel(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := broker.Subscribe(ctx, "a")
	require.NoError(t, err)

	cancel()

	// channel closes once the context is done
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel never closed")
		}
	}
}
