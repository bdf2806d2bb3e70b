// Package notification provides the notification manager for broadcasting player state.
package notification

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	playerv1 "github.com/osa030/podplayer/internal/api/playerv1"
)

// DefaultSendTimeout bounds how long a single subscriber may block a broadcast.
const DefaultSendTimeout = 500 * time.Millisecond

// ErrSubscriptionClosed is returned when sending to a removed subscription.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(*playerv1.Notification) error
}

// subscription represents a subscriber's subscription.
type subscription struct {
	id     string
	stream Stream
	sendMu sync.Mutex // streams do not support concurrent Send

	// pending is true while sendMu is held on behalf of the first Send.
	pending   atomic.Bool
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscription) send(n *playerv1.Notification) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.sendLocked(n)
}

// sendFirst delivers n ahead of any broadcast waiting on the subscription.
func (s *subscription) sendFirst(n *playerv1.Notification) error {
	if !s.pending.CompareAndSwap(true, false) {
		return s.send(n)
	}
	defer s.sendMu.Unlock()
	return s.sendLocked(n)
}

func (s *subscription) sendLocked(n *playerv1.Notification) error {
	if s.closed.Load() {
		return ErrSubscriptionClosed
	}
	return s.stream.Send(n)
}

func (s *subscription) close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		if s.pending.CompareAndSwap(true, false) {
			s.sendMu.Unlock()
		}
	})
}

// Manager manages notification subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
	sequenceNoMu  sync.Mutex
	sendTimeout   time.Duration
}

// NewManager creates a new notification manager.
// A non-positive sendTimeout selects DefaultSendTimeout.
func NewManager(sendTimeout time.Duration) *Manager {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Manager{
		subscriptions: make(map[string]*subscription),
		sendTimeout:   sendTimeout,
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
// Broadcasts to the new subscription wait until its first notification has
// been delivered with Send.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	sub := &subscription{
		id:     id,
		stream: stream,
		done:   make(chan struct{}),
	}
	sub.sendMu.Lock()
	sub.pending.Store(true)
	m.subscriptions[id] = sub

	zlog.Debug().Msgf("notification: subscribed: id=%s total=%d", id, len(m.subscriptions))
	return id
}

// NextSequenceNo returns the next sequence number and increments the counter.
func (m *Manager) NextSequenceNo() uint64 {
	m.sequenceNoMu.Lock()
	defer m.sequenceNoMu.Unlock()
	m.sequenceNo++
	return m.sequenceNo
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	sub, ok := m.subscriptions[subscriptionID]
	delete(m.subscriptions, subscriptionID)
	total := len(m.subscriptions)
	m.mu.Unlock()

	if ok {
		sub.close()
		zlog.Debug().Msgf("notification: unsubscribed: id=%s total=%d", subscriptionID, total)
	}
}

// Done returns a channel that is closed once the subscription is removed,
// either by Unsubscribe, by Close, or because a send to it timed out.
// The channel of an unknown subscription is already closed.
func (m *Manager) Done(subscriptionID string) <-chan struct{} {
	m.mu.RLock()
	sub, ok := m.subscriptions[subscriptionID]
	m.mu.RUnlock()
	if !ok {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return sub.done
}

// Broadcast stamps the notification with the next sequence number and sends
// it to all subscribers in parallel. Each send is bounded by the send timeout.
func (m *Manager) Broadcast(notification *playerv1.Notification) {
	notification.SequenceNo = m.NextSequenceNo()

	m.mu.RLock()
	// Copy subscriptions to avoid holding lock during sends
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), m.sendTimeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- s.send(notification)
			}()

			select {
			case err := <-done:
				if err != nil && !errors.Is(err, ErrSubscriptionClosed) {
					zlog.Warn().Msgf("notification: send failed: id=%s seq=%d: %v", s.id, notification.SequenceNo, err)
				}
			case <-ctx.Done():
				// The stream is stalled; later notifications would queue
				// behind it, so it is dropped.
				zlog.Warn().Msgf("notification: send timed out, dropping subscriber: id=%s seq=%d", s.id, notification.SequenceNo)
				m.Unsubscribe(s.id)
			}
		}(sub)
	}

	wg.Wait()
}

// Send sends a notification to a specific subscriber. The first Send to a
// subscription is delivered before any broadcast.
// Unknown subscription IDs are ignored.
func (m *Manager) Send(subscriptionID string, notification *playerv1.Notification) error {
	m.mu.RLock()
	sub, ok := m.subscriptions[subscriptionID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	return sub.sendFirst(notification)
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	subs := m.subscriptions
	m.subscriptions = make(map[string]*subscription)
	m.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}
