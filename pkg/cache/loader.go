package cache

import "context"

// LoaderFunc fetches the value for a key from the upstream source.
type LoaderFunc func(ctx context.Context, key string) ([]byte, error)

// GetOrLoad returns the cached value for key, loading it from upstream on a
// miss. Concurrent loads for the same key are collapsed into a single
// upstream call; every waiter receives the same result.
//
// The initial lookup is recorded as a hit or miss as usual. Loader failures
// are recorded as errors under the given category and returned to the
// caller; nothing is cached on failure. Loaded values are stored with the
// cache's default TTL.
func (c *Cache) GetOrLoad(ctx context.Context, key, category string, load LoaderFunc) ([]byte, error) {
	if value, ok := c.Get(key, category); ok {
		return value, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// Another flight may have populated the key while we waited.
		// peek avoids double-counting the lookup already recorded above.
		if value, ok := c.peek(key); ok {
			return value, nil
		}

		value, err := load(ctx, key)
		if err != nil {
			c.recorder.RecordError(category, "load", err)
			return nil, err
		}

		c.Set(key, category, value, 0)
		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
