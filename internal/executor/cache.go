package executor

import (
	"strings"
	"sync"
	"time"
)

// cacheKeySeparator joins command and directory in cache keys.
const cacheKeySeparator = ":"

// CacheKey returns the cache key for command run in dir.
func CacheKey(command, dir string) string {
	return command + cacheKeySeparator + dir
}

type cacheEntry struct {
	result     Result
	insertedAt time.Time
}

// ResultCache memoizes successful results of read-only commands for a
// bounded time. Expired entries are dropped when looked up; there is no
// background sweep and no capacity limit.
type ResultCache struct {
	mu        sync.Mutex
	entries   map[string]cacheEntry
	maxAge    time.Duration
	cacheable []string
	now       func() time.Time
}

// NewResultCache creates a cache whose entries live for maxAge. Only
// commands whose first word is in cacheable are stored. A maxAge of zero or
// less disables the cache.
func NewResultCache(maxAge time.Duration, cacheable []string) *ResultCache {
	return &ResultCache{
		entries:   make(map[string]cacheEntry),
		maxAge:    maxAge,
		cacheable: append([]string(nil), cacheable...),
		now:       time.Now,
	}
}

// Eligible reports whether results of command may be cached.
func (c *ResultCache) Eligible(command string) bool {
	if c.maxAge <= 0 {
		return false
	}
	return containsName(c.cacheable, firstToken(command))
}

// Get returns the stored result for key if it has not expired.
// The returned Result is a copy.
func (c *ResultCache) Get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Result{}, false
	}
	if c.now().Sub(entry.insertedAt) >= c.maxAge {
		delete(c.entries, key)
		return Result{}, false
	}
	return entry.result, true
}

// Set stores result under key, replacing any existing entry. It does
// nothing for failed results or when the command in key is not eligible.
func (c *ResultCache) Set(key string, result Result) {
	if result.Failed || !c.Eligible(keyToken(key)) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: result, insertedAt: c.now()}
}

// Len returns the number of stored entries, including expired ones not yet
// looked up.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// keyToken returns the command word of a cache key: its first
// whitespace-delimited field, cut at the separator. It agrees with
// firstToken on the command part of the key.
func keyToken(key string) string {
	fields := strings.Fields(key)
	if len(fields) == 0 {
		return ""
	}
	token, _, _ := strings.Cut(fields[0], cacheKeySeparator)
	return token
}
