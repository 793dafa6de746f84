package app

import (
	"context"
	"sync"
)

// SlotLimiter borne le nombre de widgets montés simultanément.
// Le plafond est ajustable à chaud (réglage maxSessions); baisser le plafond
// n'évince pas les sessions en cours, il bloque seulement les suivantes.
type SlotLimiter struct {
	mu     sync.Mutex
	limit  int
	used   int
	wakeup chan struct{}
}

func NewSlotLimiter(limit int) *SlotLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &SlotLimiter{limit: limit, wakeup: make(chan struct{})}
}

func (l *SlotLimiter) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}

func (l *SlotLimiter) InUse() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used
}

func (l *SlotLimiter) SetLimit(limit int) {
	if limit <= 0 {
		limit = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limit == limit {
		return
	}
	l.limit = limit
	l.broadcastLocked()
}

// TryAcquire prend une place sans attendre.
func (l *SlotLimiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.used >= l.limit {
		return false
	}
	l.used++
	return true
}

// Acquire attend une place ou la fin du contexte.
func (l *SlotLimiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		if l.used < l.limit {
			l.used++
			l.mu.Unlock()
			return nil
		}
		wait := l.wakeup
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wait:
		}
	}
}

func (l *SlotLimiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.used > 0 {
		l.used--
	}
	l.broadcastLocked()
}

// broadcastLocked réveille tous les Acquire en attente (fermeture + nouveau canal).
func (l *SlotLimiter) broadcastLocked() {
	close(l.wakeup)
	l.wakeup = make(chan struct{})
}
