package data

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"market-sim/internal/simulation"
)

// CachedResult is a stored simulation run.
type CachedResult struct {
	ID          string
	Fingerprint string
	Result      *simulation.Result
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// ResultCache keeps simulation results in memory so the API can serve ledgers and
// standings for a run after the request that started it. Runs are also indexed by
// the fingerprint of the request that produced them; simulations are deterministic,
// so an identical request can reuse the stored run.
type ResultCache struct {
	mu      sync.RWMutex
	store   map[string]*CachedResult
	byPrint map[string]string
	ttl     time.Duration
	now     func() time.Time
}

var globalCache *ResultCache
var cacheOnce sync.Once

// GetCache returns the process-wide cache. Returns nil if caching is disabled with
// SIM_CACHE_DISABLED=true; all methods are safe on a nil cache.
func GetCache() *ResultCache {
	if os.Getenv("SIM_CACHE_DISABLED") == "true" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 1 * time.Hour // Default TTL: 1 hour
		if ttlStr := os.Getenv("SIM_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}

		globalCache = NewResultCache(ttl)

		go globalCache.cleanup(5 * time.Minute)
	})

	return globalCache
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		store:   make(map[string]*CachedResult),
		byPrint: make(map[string]string),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores res under a new run ID and returns it.
func (c *ResultCache) Put(fingerprint string, res *simulation.Result) string {
	id := uuid.NewString()
	if c == nil {
		return id
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.store[id] = &CachedResult{
		ID:          id,
		Fingerprint: fingerprint,
		Result:      res,
		CreatedAt:   now,
		ExpiresAt:   now.Add(c.ttl),
	}
	if fingerprint != "" {
		c.byPrint[fingerprint] = id
	}
	return id
}

// Get retrieves a run if available and not expired
func (c *ResultCache) Get(id string) (*CachedResult, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[id]
	if !exists || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry, true
}

// Lookup finds the latest unexpired run produced by an identical request.
func (c *ResultCache) Lookup(fingerprint string) (*CachedResult, bool) {
	if c == nil || fingerprint == "" {
		return nil, false
	}

	c.mu.RLock()
	id, ok := c.byPrint[fingerprint]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return c.Get(id)
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache
func (c *ResultCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CachedResult)
	c.byPrint = make(map[string]string)
}

// evictExpired removes expired entries and returns how many were dropped.
func (c *ResultCache) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for id, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, id)
			if c.byPrint[entry.Fingerprint] == id {
				delete(c.byPrint, entry.Fingerprint)
			}
			n++
		}
	}
	return n
}

// cleanup periodically removes expired entries
func (c *ResultCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		c.evictExpired()
	}
}

// Fingerprint hashes the JSON encoding of v. Equal requests give equal fingerprints.
func Fingerprint(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(raw)
	return hex.EncodeToString(hash[:]), nil
}
