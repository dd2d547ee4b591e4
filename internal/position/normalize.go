package position

import (
	"math"
	"sort"
	"strings"

	"poswatch/internal/extract"
)

// Normalize canonicalizes raw position tuples: symbols uppercased and
// stripped to the identity alphabet, sizes absolute-valued (direction is
// carried by the side, not a sign), zero sizes dropped, duplicates
// resolved last-occurrence-wins, output key-sorted for determinism.
func Normalize(raws []extract.RawPosition) []Position {
	byKey := make(map[string]Position)
	for _, r := range raws {
		symbol := extract.CleanSymbol(r.Symbol)
		if symbol == "" || extract.IsHeaderWord(symbol) {
			continue
		}
		side := strings.ToUpper(strings.TrimSpace(r.Side))
		if side == "" {
			continue
		}
		p := Position{Symbol: symbol, Side: side}
		if r.SizeCoin != nil {
			size := math.Abs(*r.SizeCoin)
			if size == 0 {
				continue
			}
			p.SizeCoin = &size
		}
		byKey[p.Key()] = p
	}
	return sortedPositions(byKey)
}

// NormalizeOrders does the same for raw orders; entries without a
// positive size or price are dropped.
func NormalizeOrders(raws []extract.RawOrder) []Order {
	byKey := make(map[string]Order)
	for _, r := range raws {
		symbol := extract.CleanSymbol(r.Symbol)
		if symbol == "" || extract.IsHeaderWord(symbol) {
			continue
		}
		side := strings.ToUpper(strings.TrimSpace(r.Side))
		if side == "" {
			continue
		}
		o := Order{
			Symbol: symbol,
			Side:   side,
			Size:   math.Abs(r.Size),
			Price:  math.Abs(r.Price),
		}
		if o.Size == 0 || o.Price == 0 {
			continue
		}
		byKey[o.Key()] = o
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Order, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

func sortedPositions(byKey map[string]Position) []Position {
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Position, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}
