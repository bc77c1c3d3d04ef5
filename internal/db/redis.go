package db

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var RDB *redis.Client

// InitRedis принимает адрес явно (а не через os.Getenv)
func InitRedis(addr string) {
	if addr == "" {
		addr = "localhost:6379"
		log.Warn().Msg("redis_default_addr")
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

func PingRedis(ctx context.Context) error {
	if RDB == nil {
		return errors.New("redis not initialized")
	}
	return RDB.Ping(ctx).Err()
}

func CloseRedis() error {
	if RDB == nil {
		return nil
	}
	return RDB.Close()
}
