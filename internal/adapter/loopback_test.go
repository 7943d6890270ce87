package adapter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopback_ConsumeDeliversInjectedEvents(t *testing.T) {
	l := NewLoopback("demo_bot")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []InboundEvent
	done := make(chan struct{})

	go func() {
		_ = l.Consume(ctx, func(ev InboundEvent) {
			mu.Lock()
			received = append(received, ev)
			mu.Unlock()
			if len(received) == 1 {
				close(done)
			}
		})
	}()

	l.Inject(InboundEvent{Platform: "telegram", ChatID: "chat-1", Text: "hello"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for injected event")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "hello", received[0].Text)
}

func TestLoopback_SendAppendsToOutbox(t *testing.T) {
	l := NewLoopback("demo_bot")
	require.NoError(t, l.Send(context.Background(), OutboundMessage{ChatID: "chat-1", Text: "hi"}))
	require.Len(t, l.Outbox, 1)
	assert.Equal(t, "hi", l.Outbox[0].Text)
}
