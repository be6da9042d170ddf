package cache

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every key Set stores must fall under the pattern Flush scans, or
// invalidation silently deletes nothing.
func TestRedisSearchCache_KeysCoveredByFlushPattern(t *testing.T) {
	c := &RedisSearchCache{prefix: "search"}

	for _, query := range []string{"", "python", "Intro to Django"} {
		matched, err := path.Match(c.flushPattern(), c.key(query))
		require.NoError(t, err)
		assert.True(t, matched, "key %q escapes flush pattern %q", c.key(query), c.flushPattern())
	}
}

func TestRedisSearchCache_KeysDistinctPerQuery(t *testing.T) {
	c := &RedisSearchCache{prefix: "search"}

	assert.NotEqual(t, c.key("python"), c.key("go"))
	assert.Equal(t, "search:q:python", c.key("python"))
}
