package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	domainListKey    = "whoishistory:domains"
	schemaVersionKey = "whoishistory:db_ver"
)

// Cache is a small redis layer in front of the database for the values every
// request needs: the known-domain list and the schema-version probe. Cache
// misses and redis errors both fall through to the database.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCache(host, port string, ttl time.Duration) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr: host + ":" + port,
		DB:   0,
	})
	return &Cache{Client: rdb, TTL: ttl}
}

func (c *Cache) GetDomainNames(ctx context.Context) ([]string, error) {
	val, err := c.Client.Get(ctx, domainListKey).Result()
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal([]byte(val), &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Cache) SetDomainNames(ctx context.Context, names []string) error {
	val, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, domainListKey, val, c.TTL).Err()
}

func (c *Cache) GetSchemaVersion(ctx context.Context) (int, error) {
	val, err := c.Client.Get(ctx, schemaVersionKey).Result()
	if err != nil {
		return 0, err
	}
	var version int
	if err := json.Unmarshal([]byte(val), &version); err != nil {
		return 0, err
	}
	return version, nil
}

func (c *Cache) SetSchemaVersion(ctx context.Context, version int) error {
	val, err := json.Marshal(version)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, schemaVersionKey, val, c.TTL).Err()
}
