package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"30s", 30 * time.Second, true},
		{"15m", 15 * time.Minute, true},
		{"1h", time.Hour, true},
		{"1d", 24 * time.Hour, true},
		{" 2H ", 2 * time.Hour, true},
		{"", 0, false},
		{"h", 0, false},
		{"0m", 0, false},
		{"-5m", 0, false},
		{"10x", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseInterval(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseInterval(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseInterval(%q)", tt.in)
	}
}

func TestInterval_RunImmediatelyThenTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewInterval(ctx, 10*time.Millisecond)
	s.RunImmediately = true

	runs := 0
	s.Start(func() {
		runs++
		if runs >= 3 {
			cancel()
		}
	})
	assert.GreaterOrEqual(t, runs, 3)
}

func TestInterval_InvalidIntervalReturnsImmediately(t *testing.T) {
	s := NewInterval(context.Background(), 0)
	done := make(chan struct{})
	go func() {
		s.Start(func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not bail out on zero interval")
	}
}
