package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision es el resultado de contar un intento de login.
type Decision struct {
	Allowed    bool
	Attempts   int
	RetryAfter time.Duration
}

// Limiter cuenta intentos por clave dentro de una ventana fija.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int) Decision
}

func verdict(attempts, limit int, wait time.Duration) Decision {
	if limit <= 0 {
		limit = 1
	}
	d := Decision{Allowed: attempts <= limit, Attempts: attempts}
	if !d.Allowed {
		d.RetryAfter = wait
	}
	return d
}

type counter struct {
	attempts int
	expires  time.Time
}

// Window es el contador local de un solo proceso.
type Window struct {
	span time.Duration
	now  func() time.Time

	mu        sync.Mutex
	counters  map[string]*counter
	nextSweep time.Time
}

func NewWindow(span time.Duration) *Window {
	if span <= 0 {
		span = time.Minute
	}
	return &Window{span: span, now: time.Now, counters: make(map[string]*counter)}
}

func (w *Window) Allow(_ context.Context, key string, limit int) Decision {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.sweep(now)
	c, ok := w.counters[key]
	if !ok || !now.Before(c.expires) {
		c = &counter{expires: now.Add(w.span)}
		w.counters[key] = c
	}
	c.attempts++
	return verdict(c.attempts, limit, c.expires.Sub(now))
}

// sweep descarta contadores vencidos, como mucho una vez por ventana.
func (w *Window) sweep(now time.Time) {
	if now.Before(w.nextSweep) {
		return
	}
	for k, c := range w.counters {
		if !now.Before(c.expires) {
			delete(w.counters, k)
		}
	}
	w.nextSweep = now.Add(w.span)
}
