package grid

import (
	"errors"
	"time"

	shardedcache "github.com/simp-lee/cache"
)

// RegistryOptions bounds a Registry.
type RegistryOptions struct {
	// Capacity is the maximum number of entries kept. Beyond it the
	// oldest-built entry of the receiving shard is evicted.
	Capacity int
	// TTL expires entries this long after they were built. Zero keeps
	// them until evicted or dropped.
	TTL time.Duration
}

const (
	defaultRegistryCapacity = 1024
	// Capacities at or above this are spread over registryShards shards.
	shardedRegistryThreshold = 256
	registryShards           = 16
	registryCleanupInterval  = time.Minute
)

var errUnexpectedEntry = errors.New("registry: unexpected cache entry")

// Registry keeps one view model per key, typically per admin session and
// page, on top of a sharded in-memory cache.
type Registry[V any] struct {
	cache shardedcache.CacheInterface
	build func(key string) (V, error)
}

type registryEntry[V any] struct {
	val V
	err error
}

// NewRegistry creates a registry that builds missing entries with build.
func NewRegistry[V any](opts RegistryOptions, build func(key string) (V, error)) *Registry[V] {
	if opts.Capacity <= 0 {
		opts.Capacity = defaultRegistryCapacity
	}
	if opts.TTL < 0 {
		opts.TTL = 0
	}
	shards := 1
	if opts.Capacity >= shardedRegistryThreshold {
		shards = registryShards
	}
	copts := shardedcache.Options{
		MaxSize:           (opts.Capacity + shards - 1) / shards,
		ShardCount:        shards,
		DefaultExpiration: opts.TTL,
	}
	if opts.TTL > 0 {
		copts.CleanupInterval = registryCleanupInterval
	}
	return &Registry[V]{
		cache: shardedcache.NewCache(copts),
		build: build,
	}
}

// Get returns the entry for key, building it on first use. A failed build
// is not kept, so the next Get retries it.
func (r *Registry[V]) Get(key string) (V, error) {
	got := r.cache.GetOrSetFunc(key, func() interface{} {
		v, err := r.build(key)
		return &registryEntry[V]{val: v, err: err}
	})
	e, ok := got.(*registryEntry[V])
	if !ok {
		var zero V
		return zero, errUnexpectedEntry
	}
	if e.err != nil {
		r.cache.Delete(key)
		var zero V
		return zero, e.err
	}
	return e.val, nil
}

// Drop removes every entry whose key has the given prefix.
func (r *Registry[V]) Drop(prefix string) {
	r.cache.DeletePrefix(prefix)
}

// Len returns the number of stored entries, including expired ones not yet
// swept.
func (r *Registry[V]) Len() int {
	return r.cache.Count()
}

// Close stops the background sweeper.
func (r *Registry[V]) Close() {
	r.cache.Close()
}
