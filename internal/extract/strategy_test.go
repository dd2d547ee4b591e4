package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_StopsAtFirstNonEmptyStrategy(t *testing.T) {
	content := Content{
		NextData: `{"positions": [{"coin": "BTC", "isLong": true, "szi": "1.5"}]}`,
		Sections: []Section{positionsTable([][]string{{"ETH", "Short", "$1\n2 ETH"}})},
	}

	res := DefaultChain().Extract(content)
	assert.Equal(t, "next-data", res.Strategy)
	require.Len(t, res.Positions, 1)
	assert.Equal(t, "BTC", res.Positions[0].Symbol)
}

func TestChain_FallsThroughOnFailureAndEmptiness(t *testing.T) {
	// Broken hydration JSON must not kill the run; the table strategy
	// takes over.
	content := Content{
		NextData: `{"broken":`,
		Sections: []Section{positionsTable([][]string{{"ETH", "Short", "$1\n2 ETH"}})},
	}

	res := DefaultChain().Extract(content)
	assert.Equal(t, "table", res.Strategy)
	require.Len(t, res.Positions, 1)
	assert.Equal(t, "ETH", res.Positions[0].Symbol)
}

func TestChain_TextStrategyIsLastResort(t *testing.T) {
	content := Content{Lines: []string{"SOL (LONG)", "3 SOL"}}

	res := DefaultChain().Extract(content)
	assert.Equal(t, "text", res.Strategy)
	require.Len(t, res.Positions, 1)
}

func TestChain_EmptyEverywhereIsNotAnError(t *testing.T) {
	res := DefaultChain().Extract(Content{})
	assert.True(t, res.Empty())
	assert.Empty(t, res.Strategy)
}

func TestChain_PanickingStrategyIsSkipped(t *testing.T) {
	chain := NewChain(
		Strategy{Name: "explosive", Run: func(Content) (Result, error) { panic("boom") }},
		Strategy{Name: "calm", Run: func(Content) (Result, error) {
			return Result{Positions: []RawPosition{{Symbol: "BTC", Side: "LONG"}}}, nil
		}},
	)

	res := chain.Extract(Content{})
	assert.Equal(t, "calm", res.Strategy)
	require.Len(t, res.Positions, 1)
}

func TestChain_ErroringStrategyIsSkipped(t *testing.T) {
	chain := NewChain(
		Strategy{Name: "failing", Run: func(Content) (Result, error) { return Result{}, fmt.Errorf("nope") }},
		Strategy{Name: "working", Run: func(Content) (Result, error) {
			return Result{Positions: []RawPosition{{Symbol: "ETH", Side: "SHORT"}}}, nil
		}},
	)

	res := chain.Extract(Content{})
	assert.Equal(t, "working", res.Strategy)
}
