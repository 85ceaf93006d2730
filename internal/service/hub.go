package service

import (
	"sync"

	"championship-be/internal/service/dto"

	"go.uber.org/zap"
)

const SUBSCRIBER_BUFFER = 16

// eventHub fans championship events out to websocket watchers.
type eventHub struct {
	mu sync.Mutex

	// 从赛事 ID 到订阅通道集合的映射
	subscribers map[string]map[chan dto.ResponseWrapper]struct{}
	closed      bool
}

func newEventHub() *eventHub {
	return &eventHub{
		subscribers: make(map[string]map[chan dto.ResponseWrapper]struct{}),
	}
}

func (h *eventHub) subscribe(champID string) (<-chan dto.ResponseWrapper, func()) {
	ch := make(chan dto.ResponseWrapper, SUBSCRIBER_BUFFER)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return ch, func() {}
	}

	subs := h.subscribers[champID]
	if subs == nil {
		subs = make(map[chan dto.ResponseWrapper]struct{})
		h.subscribers[champID] = subs
	}
	subs[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			subs := h.subscribers[champID]
			if _, ok := subs[ch]; !ok {
				return
			}

			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subscribers, champID)
			}
			close(ch)
		})
	}

	return ch, cancel
}

// publish never blocks: a watcher whose buffer is full misses the event.
func (h *eventHub) publish(champID string, resp dto.ResponseWrapper) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers[champID] {
		select {
		case ch <- resp:
			zap.L().Debug(
				"event delivered",
				zap.String("championship_id", champID),
				zap.String("response_type", resp.RespType),
			)
		default:
			zap.L().Warn(
				"event dropped: subscriber buffer full",
				zap.String("championship_id", champID),
			)
		}
	}
}

func (h *eventHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, subs := range h.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(h.subscribers, id)
	}
}
