package heartbeat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no recorded heartbeat fires immediately", func(t *testing.T) {
		assert.True(t, Due(0, 4, now))
		assert.True(t, Due(-1, 4, now))
	})

	t.Run("within period stays quiet", func(t *testing.T) {
		last := now.Add(-3 * time.Hour).UnixMilli()
		assert.False(t, Due(last, 4, now))
	})

	t.Run("period elapsed fires", func(t *testing.T) {
		last := now.Add(-4 * time.Hour).UnixMilli()
		assert.True(t, Due(last, 4, now))
	})

	t.Run("zero period disables heartbeats", func(t *testing.T) {
		assert.False(t, Due(0, 0, now))
		old := now.Add(-100 * time.Hour).UnixMilli()
		assert.False(t, Due(old, 0, now))
	})

	t.Run("fractional hours", func(t *testing.T) {
		last := now.Add(-45 * time.Minute).UnixMilli()
		assert.True(t, Due(last, 0.5, now))
		assert.False(t, Due(last, 1, now))
	})
}
