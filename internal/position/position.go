package position

import (
	"github.com/shopspring/decimal"
)

const (
	SideLong  = "LONG"
	SideShort = "SHORT"
)

// Position is a canonical open position. SizeCoin is denominated in the
// underlying asset's native unit, never in quote currency; nil means the
// scrape saw the position but could not recover its size.
type Position struct {
	Symbol   string
	Side     string
	SizeCoin *float64
}

// Key is the stable identity used to match the position across runs.
func (p Position) Key() string {
	return p.Symbol + ":" + p.Side
}

// Order is a canonical open order. Orders carry no persistent ID in the
// source, so identity is the full economic description: any size or
// price change reads as cancel+replace.
type Order struct {
	Symbol string
	Side   string
	Size   float64
	Price  float64
}

// Key rounds size to 1e-8 and price to 1e-2 so float noise from
// re-parsing the same order does not fabricate churn.
func (o Order) Key() string {
	size := decimal.NewFromFloat(o.Size).Round(8)
	price := decimal.NewFromFloat(o.Price).Round(2)
	return o.Symbol + ":" + o.Side + ":" + size.String() + "@" + price.String()
}
