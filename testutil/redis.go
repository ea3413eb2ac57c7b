package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// StartRedis runs an in-process Redis server for the duration of the test
// and returns its redis:// URL.
func StartRedis(t *testing.T) (*miniredis.Miniredis, string) {
	t.Helper()
	s := miniredis.RunT(t)
	return s, "redis://" + s.Addr()
}
