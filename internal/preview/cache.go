package preview

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/alnah/go-assetpath/internal/metrics"
)

// DefaultCacheSize is the number of rendered pages kept in memory.
const DefaultCacheSize = 128

// cachedPage is a rendered page and its entity tag.
type cachedPage struct {
	Body []byte
	ETag string
}

func newCachedPage(body []byte) cachedPage {
	sum := sha256.Sum256(body)
	return cachedPage{Body: body, ETag: hex.EncodeToString(sum[:])}
}

// pageCache is an LRU of rendered pages keyed by permalink path.
// A nil cache stores nothing.
type pageCache struct {
	lru      *lru.Cache
	recorder metrics.Recorder
}

func newPageCache(size int, recorder metrics.Recorder) (*pageCache, error) {
	if size <= 0 {
		return &pageCache{recorder: recorder}, nil
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &pageCache{lru: c, recorder: recorder}, nil
}

func (c *pageCache) get(key string) (cachedPage, bool) {
	if c.lru != nil {
		if v, ok := c.lru.Get(key); ok {
			c.recorder.IncCacheResult(metrics.CacheHit)
			return v.(cachedPage), true
		}
	}
	c.recorder.IncCacheResult(metrics.CacheMiss)
	return cachedPage{}, false
}

func (c *pageCache) add(key string, page cachedPage) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, page)
	c.recorder.SetCachedPages(c.lru.Len())
}

func (c *pageCache) purge() {
	if c.lru == nil {
		return
	}
	c.lru.Purge()
	c.recorder.SetCachedPages(0)
}

func (c *pageCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

// etagMatches reports whether an If-None-Match header names etag.
func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, part := range strings.Split(ifNoneMatch, ",") {
		switch strings.TrimSpace(part) {
		case "*", `"` + etag + `"`, `W/"` + etag + `"`:
			return true
		}
	}
	return false
}
