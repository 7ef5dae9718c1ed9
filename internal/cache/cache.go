package cache

import (
	"encoding/json"
	"log"
	"time"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

// TTL is how long a cached snapshot stays fresh. Older entries are treated as
// absent and purged on the read that finds them.
const TTL = 10 * time.Minute

// keyPrefix namespaces cache records in the shared key/value table.
const keyPrefix = "weather_cache_"

// KV is the on-device key/value storage the cache persists through.
type KV interface {
	GetValue(key string) (string, bool, error)
	PutValue(key, value string) error
	DeleteValue(key string) error
}

// envelope is the persisted record shape: the snapshot plus its storage time
// in epoch milliseconds.
type envelope struct {
	Data      models.WeatherSnapshot `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}

// Cache is a time-expiring snapshot store keyed by normalized location query.
// There is no capacity bound; entries only leave via TTL expiry on read or an
// explicit Clear.
type Cache struct {
	kv  KV
	ttl time.Duration

	// Now is the clock used for storage stamps and expiry checks.
	// Overridable in tests.
	Now func() time.Time
}

func New(kv KV) *Cache {
	return &Cache{kv: kv, ttl: TTL, Now: time.Now}
}

// Get returns the cached snapshot for key if present and fresh. Expired or
// unreadable entries are evicted and reported as absent; storage errors are
// treated as misses so a broken cache never blocks a fetch.
func (c *Cache) Get(key string) (*models.WeatherSnapshot, bool) {
	raw, ok, err := c.kv.GetValue(keyPrefix + key)
	if err != nil {
		log.Printf("cache: read %s: %v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Printf("cache: corrupt entry %s, evicting: %v", key, err)
		c.kv.DeleteValue(keyPrefix + key)
		return nil, false
	}

	age := c.Now().UnixMilli() - env.Timestamp
	if age > c.ttl.Milliseconds() {
		if err := c.kv.DeleteValue(keyPrefix + key); err != nil {
			log.Printf("cache: evict %s: %v", key, err)
		}
		return nil, false
	}

	return &env.Data, true
}

// Put stores a snapshot under key, overwriting unconditionally and stamping
// the storage time.
func (c *Cache) Put(key string, snapshot models.WeatherSnapshot) error {
	env := envelope{
		Data:      snapshot,
		Timestamp: c.Now().UnixMilli(),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.kv.PutValue(keyPrefix+key, string(raw))
}

// Clear removes the entry for key regardless of freshness.
func (c *Cache) Clear(key string) error {
	return c.kv.DeleteValue(keyPrefix + key)
}
