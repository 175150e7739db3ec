// Package cache provides a generic in-memory LRU with optional expiry.
//
//	products := cache.NewLRU[string, catalog.Product](512, cache.WithTTL(5*time.Minute))
//	products.Put(p.ID, p)
//	if p, ok := products.Get(id); ok {
//	    return p
//	}
//
// All methods are safe for concurrent use.
package cache
