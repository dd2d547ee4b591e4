package diff

import (
	"math"
	"sort"

	"poswatch/internal/position"
	"poswatch/internal/state"
)

// Tolerances gate which size changes are worth alerting on. Abs is a
// coin-size delta, Rel a fraction of the old size; exceeding either one
// triggers — erring on the side of alerting. With both unset any
// nonzero delta counts.
type Tolerances struct {
	Abs float64
	Rel float64
}

type Closed struct {
	Key      string
	LastSize *float64
}

type Resize struct {
	Key      string
	Symbol   string
	Side     string
	Old      float64
	New      float64
	Delta    float64
	DeltaPct float64
}

// ChangeSet is the ephemeral diff between the previous snapshot and the
// current scrape. It is never persisted.
type ChangeSet struct {
	Opened       []string
	Closed       []Closed
	Resized      []Resize
	OrdersPlaced []string
	OrdersGone   []string
}

func (c ChangeSet) Empty() bool {
	return len(c.Opened) == 0 && len(c.Closed) == 0 && len(c.Resized) == 0 &&
		len(c.OrdersPlaced) == 0 && len(c.OrdersGone) == 0
}

// ChangedEnough reports whether a size move clears the configured
// tolerances.
func ChangedEnough(oldV, newV float64, tol Tolerances) bool {
	abs := math.Abs(newV - oldV)
	var rel float64
	switch {
	case oldV != 0:
		rel = abs / math.Abs(oldV)
	case abs > 0:
		rel = math.Inf(1)
	}
	if tol.Abs > 0 && abs > tol.Abs {
		return true
	}
	if tol.Rel > 0 && rel > tol.Rel {
		return true
	}
	return tol.Abs == 0 && tol.Rel == 0 && abs > 0
}

// Diff computes opened/closed/resized positions and placed/gone orders
// between the previous snapshot and the current canonical entities.
// Output slices are key-sorted, so the result is deterministic.
func Diff(prev state.Snapshot, cur []position.Position, curOrders []position.Order, tol Tolerances) ChangeSet {
	prevKeys := make(map[string]struct{}, len(prev.Keys))
	for _, k := range prev.Keys {
		prevKeys[k] = struct{}{}
	}
	curByKey := make(map[string]position.Position, len(cur))
	curKeys := make([]string, 0, len(cur))
	for _, p := range cur {
		key := p.Key()
		if _, seen := curByKey[key]; !seen {
			curKeys = append(curKeys, key)
		}
		curByKey[key] = p
	}
	sort.Strings(curKeys)

	var cs ChangeSet
	for _, key := range curKeys {
		p := curByKey[key]
		if _, existed := prevKeys[key]; !existed {
			cs.Opened = append(cs.Opened, key)
			continue
		}
		oldV, hadOld := prev.Sizes[key]
		if !hadOld || p.SizeCoin == nil {
			continue
		}
		newV := *p.SizeCoin
		if ChangedEnough(oldV, newV, tol) {
			delta := newV - oldV
			pct := 0.0
			if oldV != 0 {
				pct = delta / math.Abs(oldV) * 100
			}
			cs.Resized = append(cs.Resized, Resize{
				Key:      key,
				Symbol:   p.Symbol,
				Side:     p.Side,
				Old:      oldV,
				New:      newV,
				Delta:    delta,
				DeltaPct: pct,
			})
		}
	}

	closedKeys := make([]string, 0)
	for _, k := range prev.Keys {
		if _, still := curByKey[k]; !still {
			closedKeys = append(closedKeys, k)
		}
	}
	sort.Strings(closedKeys)
	for _, k := range closedKeys {
		c := Closed{Key: k}
		if v, ok := prev.Sizes[k]; ok {
			last := v
			c.LastSize = &last
		}
		cs.Closed = append(cs.Closed, c)
	}

	cs.OrdersPlaced, cs.OrdersGone = diffOrderKeys(prev.OrdersKeys, curOrders)
	return cs
}

// Orders have no persistent ID, so their diff is a pure key-set
// comparison: a size or price change shows up as gone+placed.
func diffOrderKeys(prevKeys []string, cur []position.Order) (placed, gone []string) {
	prevSet := make(map[string]struct{}, len(prevKeys))
	for _, k := range prevKeys {
		prevSet[k] = struct{}{}
	}
	curSet := make(map[string]struct{}, len(cur))
	for _, o := range cur {
		curSet[o.Key()] = struct{}{}
	}
	for k := range curSet {
		if _, ok := prevSet[k]; !ok {
			placed = append(placed, k)
		}
	}
	for _, k := range prevKeys {
		if _, ok := curSet[k]; !ok {
			gone = append(gone, k)
		}
	}
	sort.Strings(placed)
	sort.Strings(gone)
	return placed, gone
}
