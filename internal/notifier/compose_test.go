package notifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poswatch/internal/diff"
	"poswatch/internal/position"
)

func fptr(v float64) *float64 { return &v }

func TestCompose_NothingToSay(t *testing.T) {
	r := Report{
		Source:    "https://example.com/trader/0xabc",
		Positions: []position.Position{{Symbol: "BTC", Side: "LONG", SizeCoin: fptr(1.5)}},
	}
	assert.Empty(t, Compose(r), "steady state without a due heartbeat sends nothing")
}

func TestCompose_HeartbeatListsCurrentPositions(t *testing.T) {
	r := Report{
		Source:         "https://example.com/trader/0xabc",
		HeartbeatDue:   true,
		HeartbeatHours: 4,
		Positions: []position.Position{
			{Symbol: "BTC", Side: "LONG", SizeCoin: fptr(1.5)},
			{Symbol: "ETH", Side: "SHORT"},
		},
	}

	text := Compose(r)
	assert.True(t, strings.HasPrefix(text, "Position monitor\nhttps://example.com/trader/0xabc"))
	assert.Contains(t, text, "Scheduled report (every 4h)")
	assert.Contains(t, text, "Current positions (2):")
	assert.Contains(t, text, "• BTC LONG — 1.5 BTC")
	assert.Contains(t, text, "• ETH SHORT")
}

func TestCompose_HeartbeatWithNoPositions(t *testing.T) {
	r := Report{Source: "src", HeartbeatDue: true, HeartbeatHours: 4}
	text := Compose(r)
	assert.Contains(t, text, "Current positions (0):\n—")
}

func TestCompose_ChangeBlocksInOrder(t *testing.T) {
	r := Report{
		Source: "src",
		Positions: []position.Position{
			{Symbol: "ETH", Side: "SHORT", SizeCoin: fptr(2)},
			{Symbol: "BTC", Side: "LONG", SizeCoin: fptr(1.05)},
		},
		Changes: diff.ChangeSet{
			Opened:  []string{"ETH:SHORT"},
			Closed:  []diff.Closed{{Key: "SOL:LONG", LastSize: fptr(10)}},
			Resized: []diff.Resize{{Key: "BTC:LONG", Symbol: "BTC", Side: "LONG", Old: 1.0, New: 1.05, Delta: 0.05, DeltaPct: 5}},
		},
	}

	text := Compose(r)
	opened := strings.Index(text, "Opened positions:")
	closed := strings.Index(text, "Closed positions:")
	resized := strings.Index(text, "Size changes (coin):")
	require.True(t, opened >= 0 && closed >= 0 && resized >= 0)
	assert.Less(t, opened, closed)
	assert.Less(t, closed, resized)

	assert.Contains(t, text, "• ETH SHORT — 2 ETH")
	assert.Contains(t, text, "• SOL LONG — was 10 SOL")
	assert.Contains(t, text, "• BTC LONG: 1 → 1.05 BTC (+0.050000; +5.00%)")
}

func TestCompose_OrderBlocksOnlyWhenTracking(t *testing.T) {
	changes := diff.ChangeSet{
		OrdersPlaced: []string{"SOL:BUY:10@145.5"},
		OrdersGone:   []string{"BTC:SELL:1@61000"},
	}

	withOrders := Compose(Report{Source: "src", Changes: changes, TrackOrders: true})
	assert.Contains(t, withOrders, "New orders:\n• SOL BUY 10@145.5")
	assert.Contains(t, withOrders, "Filled or cancelled orders:\n• BTC SELL 1@61000")

	withoutOrders := Compose(Report{Source: "src", Changes: changes, TrackOrders: false})
	assert.Empty(t, withoutOrders)
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1500000, "1,500,000"},
		{1234567.891, "1,234,567.89"},
		{61000.5, "61,000.5"},
		{1.5, "1.5"},
		{12.2512345, "12.2512"},
		{0.5, "0.500000"},
		{0.000001, "0.000001"},
		{-2.5, "-2.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in), "FormatSize(%v)", tt.in)
	}
}

func TestFormatPct(t *testing.T) {
	assert.Equal(t, "+5.00%", FormatPct(5))
	assert.Equal(t, "-12.35%", FormatPct(-12.345))
	assert.Equal(t, "0.00%", FormatPct(0))
}
