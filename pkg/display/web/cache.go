package web

import "github.com/cespare/xxhash"

type cacheEntry struct {
	hash uint64
	data string
}

// cache is a ring of recently sent screens. Browsers keep the same
// ring, so a screen that repeats is sent as its index alone.
type cache struct {
	cache []*cacheEntry
	idx   int
	size  int
}

func newCache(size int) *cache {
	c := &cache{
		cache: make([]*cacheEntry, size),
		size:  size,
	}
	for i := 0; i < size; i++ {
		c.cache[i] = &cacheEntry{}
	}

	return c
}

// lookup returns the index of data, adding it to the cache if it
// isn't already present. hit reports whether data was found.
func (c *cache) lookup(data string) (idx int, hit bool) {
	hash := xxhash.Sum64String(data)
	if idx := c.index(hash); idx != -1 {
		return idx, true
	}

	idx = c.idx
	c.add(hash, data)
	return idx, false
}

func (c *cache) add(hash uint64, data string) {
	c.cache[c.idx].data = data
	c.cache[c.idx].hash = hash

	c.idx = (c.idx + 1) % c.size
}

func (c *cache) index(hash uint64) int {
	for i, e := range c.cache {
		if e.hash == hash && e.data != "" {
			return i
		}
	}

	return -1
}
