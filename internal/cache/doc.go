// Package cache provides a bounded, thread-safe LRU cache.
//
//	c := cache.New[string, []byte](100)
//	data := c.GetOrCreate("key", func() []byte { return load("key") })
//
// The cache must not be copied after creation (it contains a mutex).
package cache
