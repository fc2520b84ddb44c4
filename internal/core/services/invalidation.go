package services

import "sync"

// EntityKind names a cached record kind for invalidation purposes.
type EntityKind string

// Cached entity kinds.
const (
	KindSample     EntityKind = "sample"
	KindQuestion   EntityKind = "question"
	KindAnnotation EntityKind = "annotation"
	KindSession    EntityKind = "session"
)

// InvalidationKey identifies what became stale. An empty ID means the
// whole kind (listings, aggregates).
type InvalidationKey struct {
	Kind EntityKind
	ID   string
}

// Invalidations is an explicit subscriber registry keyed by entity
// kind and id. Services notify it synchronously after a successful
// durable write; readers subscribe to drop stale cached views.
type Invalidations struct {
	mu   sync.Mutex
	subs map[int]subscription
	next int
}

type subscription struct {
	key InvalidationKey
	fn  func(InvalidationKey)
}

// NewInvalidations creates an empty registry.
func NewInvalidations() *Invalidations {
	return &Invalidations{subs: make(map[int]subscription)}
}

// Subscribe registers fn for a kind and id. An empty id subscribes to
// every invalidation of the kind. The returned cancel func removes
// the subscription.
func (r *Invalidations) Subscribe(kind EntityKind, id string, fn func(InvalidationKey)) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := r.next
	r.next++
	r.subs[token] = subscription{key: InvalidationKey{Kind: kind, ID: id}, fn: fn}

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, token)
	}
}

// Invalidate notifies subscribers that the given records of a kind
// are stale. With no ids only kind-level subscribers fire. Callbacks
// run synchronously on the caller's goroutine, after the durable
// write they follow.
func (r *Invalidations) Invalidate(kind EntityKind, ids ...string) {
	r.mu.Lock()
	subs := make([]subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	r.mu.Unlock()

	if len(ids) == 0 {
		notify(subs, InvalidationKey{Kind: kind})
		return
	}
	for _, id := range ids {
		notify(subs, InvalidationKey{Kind: kind, ID: id})
	}
}

func notify(subs []subscription, key InvalidationKey) {
	for _, sub := range subs {
		if sub.key.Kind != key.Kind {
			continue
		}
		if sub.key.ID == "" || sub.key.ID == key.ID {
			sub.fn(key)
		}
	}
}
