package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redisIntentos = 3
	redisEspera   = 2 * time.Second
)

// NewRedis connects to REDIS_URL. An empty URL yields a nil client: the
// receipt queue and the configuration cache are then off and the rest of the
// API keeps working. The ping is retried a few times so the server can start
// alongside a container that is still booting.
func NewRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: url invalida: %w", err)
	}
	rdb := redis.NewClient(opts)

	for intento := 1; ; intento++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return rdb, nil
		}
		if intento == redisIntentos {
			break
		}
		log.Warn().Err(err).Int("intento", intento).Msg("redis not reachable yet")
		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, ctx.Err()
		case <-time.After(redisEspera):
		}
	}
	_ = rdb.Close()
	return nil, fmt.Errorf("redis: ping: %w", err)
}
