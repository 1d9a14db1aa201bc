package state

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

type EventType int

const (
	EventUnknown EventType = iota
	NodeActivated
	NodeDeleted
	WalletActivated
	NewBlock
)

func (e EventType) String() string {
	switch e {
	case NodeActivated:
		return "NodeActivated"
	case NodeDeleted:
		return "NodeDeleted"
	case WalletActivated:
		return "WalletActivated"
	case NewBlock:
		return "NewBlock"
	default:
		return "EventUnknown"
	}
}

// EventBus fans events out to subscriber channels. Publish never blocks, a
// subscriber whose channel is full misses that event but stays subscribed.
type EventBus struct {
	subscribers map[EventType][]chan interface{}
	mu          sync.Mutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]chan interface{}),
	}
}

func (eb *EventBus) Subscribe(eventType EventType, ch chan interface{}) {
	if ch == nil {
		panic("channel == nil")
	}
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
}

func (eb *EventBus) Publish(eventType EventType, data interface{}) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for _, ch := range eb.subscribers[eventType] {
		select {
		case ch <- data:
		default:
			log.Debugf("EventBus subscriber full, dropped %s event", eventType)
		}
	}
}

func (eb *EventBus) Unsubscribe(eventType EventType, ch chan interface{}) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subscribers := eb.subscribers[eventType]
	for i, subscriber := range subscribers {
		if subscriber == ch {
			eb.subscribers[eventType] = append(subscribers[:i], subscribers[i+1:]...)
			break
		}
	}
	if len(eb.subscribers[eventType]) == 0 {
		delete(eb.subscribers, eventType)
	}
}

func (eb *EventBus) subscriberCount(eventType EventType) int {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	return len(eb.subscribers[eventType])
}
