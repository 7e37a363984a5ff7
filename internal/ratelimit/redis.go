package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sharedTimeout = 2 * time.Second

// Shared guarda el conteo en Redis para que todas las réplicas vean los mismos
// intentos. Si Redis no responde cuenta en local.
type Shared struct {
	client redis.UniversalClient
	span   time.Duration
	prefix string
	local  *Window
}

func NewShared(client redis.UniversalClient, span time.Duration) *Shared {
	if span <= 0 {
		span = time.Minute
	}
	return &Shared{client: client, span: span, prefix: "siniestros:login:", local: NewWindow(span)}
}

// FromURL devuelve el limitador compartido si hay REDIS_URL y el local si no.
func FromURL(url string, span time.Duration) (Limiter, func() error, error) {
	if url == "" {
		return NewWindow(span), func() error { return nil }, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	return NewShared(client, span), client.Close, nil
}

func (s *Shared) Allow(ctx context.Context, key string, limit int) Decision {
	ctx, cancel := context.WithTimeout(ctx, sharedTimeout)
	defer cancel()

	attempts, wait, err := s.count(ctx, s.prefix+key)
	if err != nil {
		return s.local.Allow(ctx, key, limit)
	}
	return verdict(attempts, limit, wait)
}

// count incrementa y lee el TTL en una transacción. Una clave sin vencimiento
// es el primer intento de la ventana y recibe el TTL aquí.
func (s *Shared) count(ctx context.Context, key string) (int, time.Duration, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		ttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	wait := ttl.Val()
	if wait < 0 {
		if err := s.client.PExpire(ctx, key, s.span).Err(); err != nil {
			return 0, 0, err
		}
		wait = s.span
	}
	return int(incr.Val()), wait, nil
}
