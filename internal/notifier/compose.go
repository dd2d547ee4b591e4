package notifier

import (
	"fmt"
	"strings"

	"poswatch/internal/diff"
	"poswatch/internal/position"
)

// Report is everything the composer needs to render one run's outcome.
type Report struct {
	Source         string
	HeartbeatDue   bool
	HeartbeatHours float64
	Positions      []position.Position
	Changes        diff.ChangeSet
	TrackOrders    bool
}

// Compose renders the notification text: header, heartbeat listing when
// due, then one block per non-empty change category. Returns "" when
// there is nothing to say — the caller then skips the send entirely.
func Compose(r Report) string {
	parts := []string{"Position monitor\n" + r.Source}

	if r.HeartbeatDue {
		parts = append(parts, heartbeatBlock(r))
	}
	if block := openedBlock(r); block != "" {
		parts = append(parts, block)
	}
	if block := closedBlock(r.Changes.Closed); block != "" {
		parts = append(parts, block)
	}
	if block := resizedBlock(r.Changes.Resized); block != "" {
		parts = append(parts, block)
	}
	if r.TrackOrders {
		if block := orderBlock("New orders:", r.Changes.OrdersPlaced); block != "" {
			parts = append(parts, block)
		}
		if block := orderBlock("Filled or cancelled orders:", r.Changes.OrdersGone); block != "" {
			parts = append(parts, block)
		}
	}
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, "\n\n")
}

func heartbeatBlock(r Report) string {
	var lines []string
	for _, p := range r.Positions {
		lines = append(lines, positionLine(p))
	}
	listing := "—"
	if len(lines) > 0 {
		listing = strings.Join(lines, "\n")
	}
	return fmt.Sprintf("Scheduled report (every %gh)\nCurrent positions (%d):\n%s",
		r.HeartbeatHours, len(r.Positions), listing)
}

func openedBlock(r Report) string {
	if len(r.Changes.Opened) == 0 {
		return ""
	}
	byKey := make(map[string]position.Position, len(r.Positions))
	for _, p := range r.Positions {
		byKey[p.Key()] = p
	}
	lines := make([]string, 0, len(r.Changes.Opened))
	for _, key := range r.Changes.Opened {
		if p, ok := byKey[key]; ok {
			lines = append(lines, positionLine(p))
			continue
		}
		lines = append(lines, "• "+strings.ReplaceAll(key, ":", " "))
	}
	return "Opened positions:\n" + strings.Join(lines, "\n")
}

func closedBlock(closed []diff.Closed) string {
	if len(closed) == 0 {
		return ""
	}
	lines := make([]string, 0, len(closed))
	for _, c := range closed {
		symbol, side := splitKey(c.Key)
		if c.LastSize != nil {
			lines = append(lines, fmt.Sprintf("• %s %s — was %s %s", symbol, side, FormatSize(*c.LastSize), symbol))
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s %s", symbol, side))
	}
	return "Closed positions:\n" + strings.Join(lines, "\n")
}

func resizedBlock(resized []diff.Resize) string {
	if len(resized) == 0 {
		return ""
	}
	lines := make([]string, 0, len(resized))
	for _, r := range resized {
		sign := ""
		if r.Delta > 0 {
			sign = "+"
		}
		lines = append(lines, fmt.Sprintf("• %s %s: %s → %s %s (%s%s; %s)",
			r.Symbol, r.Side, FormatSize(r.Old), FormatSize(r.New), r.Symbol,
			sign, FormatSize(r.Delta), FormatPct(r.DeltaPct)))
	}
	return "Size changes (coin):\n" + strings.Join(lines, "\n")
}

func orderBlock(title string, keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		// SYMBOL:SIDE:size@price
		pieces := strings.SplitN(key, ":", 3)
		if len(pieces) == 3 {
			lines = append(lines, fmt.Sprintf("• %s %s %s", pieces[0], pieces[1], pieces[2]))
			continue
		}
		lines = append(lines, "• "+key)
	}
	return title + "\n" + strings.Join(lines, "\n")
}

func positionLine(p position.Position) string {
	if p.SizeCoin == nil {
		return fmt.Sprintf("• %s %s", p.Symbol, p.Side)
	}
	return fmt.Sprintf("• %s %s — %s %s", p.Symbol, p.Side, FormatSize(*p.SizeCoin), p.Symbol)
}

func splitKey(key string) (symbol, side string) {
	pieces := strings.SplitN(key, ":", 2)
	if len(pieces) == 2 {
		return pieces[0], pieces[1]
	}
	return key, ""
}
