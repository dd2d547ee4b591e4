package state

import (
	"poswatch/internal/position"
)

// Snapshot is the persisted record of one run's canonical entities plus
// scheduler bookkeeping. It is read at run start and replaced wholesale
// at run end; it is never partially mutated across runs.
type Snapshot struct {
	Keys          []string           `json:"keys"`
	Sizes         map[string]float64 `json:"sizes"`
	OrdersKeys    []string           `json:"ordersKeys"`
	LastHeartbeat int64              `json:"lastHeartbeat"`
}

func Empty() Snapshot {
	return Snapshot{
		Keys:       []string{},
		Sizes:      map[string]float64{},
		OrdersKeys: []string{},
	}
}

// Empty reports whether the snapshot tracks no entities at all.
func (s Snapshot) Empty() bool {
	return len(s.Keys) == 0 && len(s.OrdersKeys) == 0
}

func (s Snapshot) HasKey(key string) bool {
	for _, k := range s.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Next builds the successor snapshot from the current canonical
// entities. A position whose size could not be re-extracted keeps its
// previously recorded size, so tolerance checks stay meaningful on the
// following run. LastHeartbeat is carried over; the caller stamps it
// when a heartbeat actually fires.
func Next(prev Snapshot, positions []position.Position, orders []position.Order) Snapshot {
	next := Empty()
	next.LastHeartbeat = prev.LastHeartbeat
	for _, p := range positions {
		key := p.Key()
		next.Keys = append(next.Keys, key)
		switch {
		case p.SizeCoin != nil:
			next.Sizes[key] = *p.SizeCoin
		default:
			if old, ok := prev.Sizes[key]; ok {
				next.Sizes[key] = old
			}
		}
	}
	for _, o := range orders {
		next.OrdersKeys = append(next.OrdersKeys, o.Key())
	}
	return next
}
