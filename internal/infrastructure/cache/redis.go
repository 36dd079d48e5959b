// Package cache caché de lectura para vistas de stock. Las entradas cuelgan de
// una versión global: invalidar es incrementar la versión, las claves viejas
// expiran solas por TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient crea el cliente Redis y verifica conectividad al arrancar.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

// RedisCache caché JSON versionado sobre Redis.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache prefix separa espacios de claves (p. ej. "stock").
func NewRedisCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) versionKey() string {
	return c.prefix + ":version"
}

func (c *RedisCache) version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

func (c *RedisCache) key(version int64, name string) string {
	return fmt.Sprintf("%s:v%d:%s", c.prefix, version, name)
}

// Get decodifica en dst el valor guardado. Devuelve la versión leída: el valor
// que se calcule tras un fallo se guarda con Set bajo esa misma versión, así un
// Invalidate intermedio lo deja inalcanzable.
func (c *RedisCache) Get(ctx context.Context, name string, dst any) (int64, bool, error) {
	v, err := c.version(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("cache: version: %w", err)
	}
	raw, err := c.rdb.Get(ctx, c.key(v, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("cache: get %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return v, false, fmt.Errorf("cache: decode %s: %w", name, err)
	}
	return v, true, nil
}

// Set guarda v como JSON bajo version, la devuelta por Get.
func (c *RedisCache) Set(ctx context.Context, name string, version int64, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", name, err)
	}
	if err := c.rdb.Set(ctx, c.key(version, name), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", name, err)
	}
	return nil
}

// Invalidate descarta todas las entradas vigentes.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, c.versionKey()).Err(); err != nil {
		return fmt.Errorf("cache: invalidate: %w", err)
	}
	return nil
}

// Noop caché deshabilitado: nunca encuentra nada.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (int64, bool, error) { return 0, false, nil }
func (Noop) Set(context.Context, string, int64, any) error        { return nil }
func (Noop) Invalidate(context.Context) error                     { return nil }
