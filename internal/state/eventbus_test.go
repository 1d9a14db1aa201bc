package state

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	testLen := 100
	wg := sync.WaitGroup{}
	count := atomic.Uint64{}
	for i := 0; i < testLen; i++ {
		ch := make(chan interface{}, 1)
		bus.Subscribe(NodeActivated, ch)
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := <-ch
			assert.Equal(t, "node-1", result)
			count.Add(1)
		}()
	}

	bus.Publish(NodeActivated, "node-1")
	wg.Wait()
	assert.Equal(t, uint64(testLen), count.Load())
	assert.Equal(t, testLen, bus.subscriberCount(NodeActivated))
}

func TestEventBusFullSubscriberMissesEvent(t *testing.T) {
	bus := NewEventBus()

	full := make(chan interface{})
	ok := make(chan interface{}, 1)
	bus.Subscribe(WalletActivated, full)
	bus.Subscribe(WalletActivated, ok)

	bus.Publish(WalletActivated, 1)
	assert.Equal(t, 1, <-ok)
	assert.Equal(t, 2, bus.subscriberCount(WalletActivated))

	bus.Unsubscribe(WalletActivated, ok)
	bus.Unsubscribe(WalletActivated, full)
	assert.Equal(t, 0, bus.subscriberCount(WalletActivated))

	// nobody listening
	bus.Publish(WalletActivated, 2)
}

func TestEventBusKeepsSubscriberAfterOverflow(t *testing.T) {
	bus := NewEventBus()

	ch := make(chan interface{}, 16)
	bus.Subscribe(NewBlock, ch)

	for i := 0; i < 17; i++ {
		bus.Publish(NewBlock, i)
	}
	assert.Equal(t, 1, bus.subscriberCount(NewBlock))

	for i := 0; i < 16; i++ {
		assert.Equal(t, i, <-ch)
	}

	bus.Publish(NewBlock, "later block")
	select {
	case got := <-ch:
		assert.Equal(t, "later block", got)
	default:
		t.Fatal("event after overflow was not delivered")
	}
}
