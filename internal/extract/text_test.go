package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextStrategy_JoinsSideAndSizeMaps(t *testing.T) {
	content := Content{Lines: []string{
		"BTC 20x (Long)",
		"$61,000.50",
		"1.5 BTC",
		"ETH (Short)",
		"12.25 ETH",
		"Funding 0.01%",
	}}

	res, err := TextStrategy(content)
	require.NoError(t, err)
	require.Len(t, res.Positions, 2)

	assert.Equal(t, "BTC", res.Positions[0].Symbol)
	assert.Equal(t, "LONG", res.Positions[0].Side)
	require.NotNil(t, res.Positions[0].SizeCoin)
	assert.Equal(t, 1.5, *res.Positions[0].SizeCoin)

	assert.Equal(t, "ETH", res.Positions[1].Symbol)
	assert.Equal(t, "SHORT", res.Positions[1].Side)
	require.NotNil(t, res.Positions[1].SizeCoin)
	assert.Equal(t, 12.25, *res.Positions[1].SizeCoin)
}

func TestTextStrategy_SideWithoutSize(t *testing.T) {
	res, err := TextStrategy(Content{Lines: []string{"DOGE (LONG)"}})
	require.NoError(t, err)
	require.Len(t, res.Positions, 1)
	assert.Nil(t, res.Positions[0].SizeCoin)
}

func TestTextStrategy_HeaderWordsNeverExtracted(t *testing.T) {
	res, err := TextStrategy(Content{Lines: []string{
		"ASSET (LONG)",
		"100 SIZE",
	}})
	require.NoError(t, err)
	assert.Empty(t, res.Positions)
}

func TestTextStrategy_DollarTaggedNumbersAreNotSizes(t *testing.T) {
	res, err := TextStrategy(Content{Lines: []string{
		"BTC (LONG)",
		"$500 BTC position value",
		"2.5 BTC",
	}})
	require.NoError(t, err)
	require.Len(t, res.Positions, 1)
	require.NotNil(t, res.Positions[0].SizeCoin)
	assert.Equal(t, 2.5, *res.Positions[0].SizeCoin)
}
