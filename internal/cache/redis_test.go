package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"

	"github.com/amarshaik012/smart-qr-health/internal/config"
)

func configWithoutAddr() config.RedisConfig {
	return config.RedisConfig{}
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisWithClient(client)
	defer c.Close()

	_, err := c.Get(context.Background(), "missing")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
