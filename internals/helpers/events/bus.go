package events

import (
	"log"
	"sync"
	"time"

	"sekolahku_backend/internals/helpers/metrics"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event hanya sinyal "ada yang berubah"; subscriber wajib query ulang datanya.
type Event struct {
	Topic  string    `json:"topic"`
	Entity string    `json:"entity"`
	ID     string    `json:"id,omitempty"`
	Action Action    `json:"action"`
	At     time.Time `json:"at"`
	Origin string    `json:"origin,omitempty"` // id instance asal (diisi bridge Redis)
}

type Publisher interface {
	Publish(Event)
}

// Nop dipakai kalau komponen tidak butuh notifikasi.
type Nop struct{}

func (Nop) Publish(Event) {}

const defaultBuffer = 32

type Subscription struct {
	C      <-chan Event
	ch     chan Event
	topics map[string]struct{}
	bus    *Bus
	once   sync.Once
}

func (s *Subscription) wants(topic string) bool {
	if len(s.topics) == 0 {
		return true
	}
	_, ok := s.topics[topic]
	return ok
}

// Close melepas subscription; aman dipanggil berkali-kali.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.remove(s)
	})
}

// Bus adalah pub/sub in-process. Publish tidak pernah blocking:
// subscriber yang buffernya penuh kehilangan event tsb.
type Bus struct {
	mu      sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
}

func NewBus() *Bus {
	return &Bus{subs: map[*Subscription]struct{}{}, buffer: defaultBuffer}
}

// Subscribe tanpa topic = terima semua topic.
func (b *Bus) Subscribe(topics ...string) *Subscription {
	ch := make(chan Event, b.buffer)
	s := &Subscription{C: ch, ch: ch, topics: map[string]struct{}{}, bus: b}
	for _, t := range topics {
		if t != "" {
			s.topics[t] = struct{}{}
		}
	}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		close(s.ch)
	}
	b.mu.Unlock()
}

func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs {
		if !s.wants(e.Topic) {
			continue
		}
		select {
		case s.ch <- e:
			metrics.EventsDelivered.WithLabelValues(e.Topic).Inc()
		default:
			metrics.EventsDropped.WithLabelValues(e.Topic).Inc()
			log.Printf("[EVENTS] ⚠️ subscriber penuh, event %s/%s dibuang", e.Topic, e.ID)
		}
	}
}

// Subscribers mengembalikan jumlah subscriber aktif.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
