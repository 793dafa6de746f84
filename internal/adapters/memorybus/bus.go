package memorybus

import (
	"sync"

	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

const subscriberBuffer = 64

type subscriber struct {
	ch     chan ports.Event
	filter func(ports.Event) bool
}

// Bus diffuse les events widget en mémoire (un seul processus).
type Bus struct {
	mu    sync.Mutex
	subs  map[*subscriber]struct{}
	alive bool
}

func New() *Bus {
	return &Bus{subs: make(map[*subscriber]struct{}), alive: true}
}

func (b *Bus) Publish(evt ports.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.alive {
		return
	}
	for sub := range b.subs {
		if sub.filter != nil && !sub.filter(evt) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// drop si le client est trop lent: le tick suivant le rattrape
		}
	}
}

func (b *Bus) Subscribe(filter func(ports.Event) bool) (<-chan ports.Event, func()) {
	sub := &subscriber{ch: make(chan ports.Event, subscriberBuffer), filter: filter}
	b.mu.Lock()
	if !b.alive {
		close(sub.ch)
		b.mu.Unlock()
		return sub.ch, func() {}
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[sub]; ok {
			delete(b.subs, sub)
			close(sub.ch)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

// Close ferme tous les abonnements; les Publish suivants sont ignorés.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.alive {
		return
	}
	b.alive = false
	for sub := range b.subs {
		close(sub.ch)
		delete(b.subs, sub)
	}
}

// Subscribers renvoie le nombre d'abonnés actifs.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
