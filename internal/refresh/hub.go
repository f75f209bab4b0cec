package refresh

import "sync"

// Domain identifies an asset domain with its own refresh signal. The two
// domains are fully independent: a trigger on one never reaches subscribers
// of the other.
type Domain string

const (
	// Crypto is the cryptocurrency transaction domain.
	Crypto Domain = "crypto"
	// Stock is the stock transaction domain.
	Stock Domain = "stock"
)

// Hub carries change notifications between the mutation side (transaction
// services) and the fetch side (aggregator, views). Each domain holds a
// monotonically increasing counter; the counter value carries no meaning
// beyond "changed since last observed".
//
// Subscribers receive coalesced notifications: triggers that arrive while a
// subscriber has not yet drained its channel collapse into one. A subscriber
// therefore refetches at most once per drained notification and never misses
// that something changed.
type Hub struct {
	mu       sync.Mutex
	counters map[Domain]uint64
	subs     map[Domain][]chan struct{}
}

// NewHub creates a hub with zeroed counters for both domains.
func NewHub() *Hub {
	return &Hub{
		counters: map[Domain]uint64{Crypto: 0, Stock: 0},
		subs:     make(map[Domain][]chan struct{}),
	}
}

// Trigger increments the domain counter and notifies every subscriber of that
// domain. Called after any successful mutating operation.
func (h *Hub) Trigger(d Domain) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.counters[d]++
	for _, ch := range h.subs[d] {
		select {
		case ch <- struct{}{}:
		default: // subscriber already has a pending notification
		}
	}
}

// Counter returns the current trigger counter for a domain.
func (h *Hub) Counter(d Domain) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counters[d]
}

// Subscribe registers a listener for one domain and returns its notification
// channel together with an unsubscribe function. The channel has a buffer of
// one; pending notifications coalesce.
func (h *Hub) Subscribe(d Domain) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subs[d] = append(h.subs[d], ch)
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subs[d]
		for i, c := range subs {
			if c == ch {
				h.subs[d] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}

	return ch, unsubscribe
}
