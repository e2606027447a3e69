package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Storing cache keys in concurrent data structures to allow for clearing all
// caches of a certain type after a mutation.
var (
	Cache                *ristretto.Cache
	TransactionCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	DashboardCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// Transaction Cache Functions
func SetTransactionCache(cacheKey string, value interface{}) {
	TransactionCacheKeys.Lock()
	TransactionCacheKeys.m[cacheKey] = struct{}{}
	TransactionCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearAllTransactionCaches() {
	TransactionCacheKeys.Lock()
	for key := range TransactionCacheKeys.m {
		Cache.Del(key)
	}
	TransactionCacheKeys.m = make(map[string]struct{})
	TransactionCacheKeys.Unlock()
}

// Dashboard Cache Functions
func SetDashboardCache(cacheKey string, value interface{}) {
	DashboardCacheKeys.Lock()
	DashboardCacheKeys.m[cacheKey] = struct{}{}
	DashboardCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearAllDashboardCaches() {
	DashboardCacheKeys.Lock()
	for key := range DashboardCacheKeys.m {
		Cache.Del(key)
	}
	DashboardCacheKeys.m = make(map[string]struct{})
	DashboardCacheKeys.Unlock()
}
