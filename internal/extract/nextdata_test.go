package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDataStrategy_HydrationPayload(t *testing.T) {
	content := Content{NextData: `{
		"props": {"pageProps": {"account": {
			"assetPositions": [
				{"position": {"coin": "BTC", "szi": "1.5", "entryPx": "61000.5", "leverage": {"type": "cross"}, "isLong": true}},
				{"position": {"coin": "ETH", "szi": "-12.25", "side": "short"}}
			],
			"openOrders": [
				{"coin": "SOL", "side": "B", "limitPx": "145.5", "sz": "10"}
			]
		}}}
	}`}

	res, err := NextDataStrategy(content)
	require.NoError(t, err)
	require.Len(t, res.Positions, 2)

	byKey := map[string]RawPosition{}
	for _, p := range res.Positions {
		byKey[p.Symbol+":"+p.Side] = p
	}
	btc, ok := byKey["BTC:LONG"]
	require.True(t, ok)
	require.NotNil(t, btc.SizeCoin)
	assert.Equal(t, 1.5, *btc.SizeCoin)

	eth, ok := byKey["ETH:SHORT"]
	require.True(t, ok)
	require.NotNil(t, eth.SizeCoin)
	assert.Equal(t, 12.25, *eth.SizeCoin, "size sign is dropped, direction lives in side")

	require.Len(t, res.Orders, 1)
	assert.Equal(t, RawOrder{Symbol: "SOL", Side: "BUY", Size: 10, Price: 145.5}, res.Orders[0])
}

func TestNextDataStrategy_SizeFieldNeedsNonUSDSiblings(t *testing.T) {
	// "size" next to a notional sibling is quote currency, not coins.
	content := Content{NextData: `{
		"positions": [
			{"symbol": "BTC", "side": "long", "size": 95000.0, "notionalUsd": 95000.0},
			{"symbol": "ETH", "side": "long", "size": 3.5}
		]
	}`}

	res, err := NextDataStrategy(content)
	require.NoError(t, err)
	require.Len(t, res.Positions, 1)
	assert.Equal(t, "ETH", res.Positions[0].Symbol)
	assert.Equal(t, 3.5, *res.Positions[0].SizeCoin)
}

func TestNextDataStrategy_LastSeenWinsPerKey(t *testing.T) {
	content := Content{NextData: `{
		"stale": [{"coin": "BTC", "isLong": true, "szi": "1.0"}],
		"fresh": [{"coin": "BTC", "isLong": true, "szi": "2.0"}]
	}`}

	res, err := NextDataStrategy(content)
	require.NoError(t, err)
	require.Len(t, res.Positions, 1)
	assert.Equal(t, 2.0, *res.Positions[0].SizeCoin)
}

func TestNextDataStrategy_Rejections(t *testing.T) {
	t.Run("zero size means absent", func(t *testing.T) {
		res, err := NextDataStrategy(Content{NextData: `{"positions": [{"coin": "BTC", "isLong": true, "szi": "0"}]}`})
		require.NoError(t, err)
		assert.Empty(t, res.Positions)
	})

	t.Run("header word never becomes a symbol", func(t *testing.T) {
		res, err := NextDataStrategy(Content{NextData: `{"positions": [{"symbol": "ASSET", "side": "long", "szi": "1"}]}`})
		require.NoError(t, err)
		assert.Empty(t, res.Positions)
	})

	t.Run("no side indicator, no entity", func(t *testing.T) {
		res, err := NextDataStrategy(Content{NextData: `{"positions": [{"symbol": "BTC", "szi": "1"}]}`})
		require.NoError(t, err)
		assert.Empty(t, res.Positions)
	})

	t.Run("invalid json is a strategy error", func(t *testing.T) {
		_, err := NextDataStrategy(Content{NextData: `{"broken":`})
		assert.Error(t, err)
	})

	t.Run("empty payload yields nothing", func(t *testing.T) {
		res, err := NextDataStrategy(Content{})
		require.NoError(t, err)
		assert.True(t, res.Empty())
	})
}
