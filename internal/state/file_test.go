package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poswatch/internal/position"
)

func fptr(v float64) *float64 { return &v }

func TestSnapshotEmpty(t *testing.T) {
	assert.True(t, Empty().Empty())
	assert.True(t, Snapshot{Sizes: map[string]float64{"BTC:LONG": 1}}.Empty(),
		"sizes without keys do not count as tracked entities")
	assert.False(t, Snapshot{Keys: []string{"BTC:LONG"}}.Empty())
	assert.False(t, Snapshot{OrdersKeys: []string{"SOL:BUY:10@145.5"}}.Empty())
}

func TestFileStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "last_positions.json")
	store := NewFileStore(path)

	snap := Snapshot{
		Keys:          []string{"BTC:LONG", "ETH:SHORT"},
		Sizes:         map[string]float64{"BTC:LONG": 1.5, "ETH:SHORT": 12.25},
		OrdersKeys:    []string{"SOL:BUY:10@145.5"},
		LastHeartbeat: 1735689600000,
	}
	require.NoError(t, store.Save(snap))

	got := store.Load()
	assert.Equal(t, snap, got)
}

func TestFileStore_MissingFileStartsCold(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "never_written.json"))
	got := store.Load()
	assert.True(t, got.Empty())
	assert.NotNil(t, got.Sizes, "maps must be usable without nil checks")
}

func TestFileStore_MalformedFileStartsCold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keys": [`), 0o644))

	got := NewFileStore(path).Load()
	assert.True(t, got.Empty())
}

func TestFileStore_SchemaViolationStartsCold(t *testing.T) {
	// Right shape, wrong types — e.g. a hand-edit that stringified sizes.
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keys": ["BTC:LONG"], "sizes": {"BTC:LONG": "1.5"}}`), 0o644))

	got := NewFileStore(path).Load()
	assert.True(t, got.Empty())
}

func TestFileStore_PartialDocumentFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keys": ["BTC:LONG"]}`), 0o644))

	got := NewFileStore(path).Load()
	assert.Equal(t, []string{"BTC:LONG"}, got.Keys)
	assert.NotNil(t, got.Sizes)
	assert.NotNil(t, got.OrdersKeys)
	assert.Zero(t, got.LastHeartbeat)
}

func TestNext_CarriesForwardLostSizes(t *testing.T) {
	prev := Snapshot{
		Keys:          []string{"BTC:LONG"},
		Sizes:         map[string]float64{"BTC:LONG": 1.5},
		LastHeartbeat: 42,
	}
	cur := []position.Position{
		{Symbol: "BTC", Side: "LONG"}, // size lost this run
		{Symbol: "ETH", Side: "SHORT", SizeCoin: fptr(2.0)},
	}

	next := Next(prev, cur, nil)
	assert.Equal(t, []string{"BTC:LONG", "ETH:SHORT"}, next.Keys)
	assert.Equal(t, 1.5, next.Sizes["BTC:LONG"])
	assert.Equal(t, 2.0, next.Sizes["ETH:SHORT"])
	assert.Equal(t, int64(42), next.LastHeartbeat)
}

func TestNext_DropsDepartedKeysWholesale(t *testing.T) {
	prev := Snapshot{
		Keys:  []string{"BTC:LONG"},
		Sizes: map[string]float64{"BTC:LONG": 1.5},
	}
	next := Next(prev, nil, nil)
	assert.Empty(t, next.Keys)
	assert.Empty(t, next.Sizes)
}

func TestNext_RecordsOrderKeys(t *testing.T) {
	orders := []position.Order{{Symbol: "SOL", Side: "BUY", Size: 10, Price: 145.5}}
	next := Next(Empty(), nil, orders)
	assert.Equal(t, []string{"SOL:BUY:10@145.5"}, next.OrdersKeys)
}
