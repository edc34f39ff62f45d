package assistant

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/patrickmn/go-cache"
)

// QueryCache deduplicates identical (question, context) pairs within a
// session. Entries live for the session's lifetime and are never evicted:
// the key space is bounded by the distinct questions actually asked.
type QueryCache struct {
	cache *cache.Cache
}

func NewQueryCache() *QueryCache {
	// No expiration and no janitor; a session tool holds few entries.
	return &QueryCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// GetOrCompute returns the cached answer for the pair, or invokes compute
// exactly once and stores its result. The second return reports a cache
// hit. Errors are not cached so a failed query can be retried manually.
func (qc *QueryCache) GetOrCompute(question string, ctx Context, compute func() (string, error)) (string, bool, error) {
	key := CacheKey(question, ctx)
	if answer, found := qc.cache.Get(key); found {
		return answer.(string), true, nil
	}

	answer, err := compute()
	if err != nil {
		return "", false, err
	}
	qc.cache.Set(key, answer, cache.NoExpiration)
	return answer, false, nil
}

// CacheKey is a stable hash over the trimmed question and the
// deterministically serialized context.
func CacheKey(question string, ctx Context) string {
	serialized, _ := json.Marshal(ctx)

	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(question)))
	h.Write([]byte{0})
	h.Write(serialized)
	return hex.EncodeToString(h.Sum(nil))
}
