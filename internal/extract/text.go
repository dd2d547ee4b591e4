package extract

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	// "BTC ... (LONG)" style lines establish which side a symbol is on.
	textSideRe = regexp.MustCompile(`^([A-Z0-9.\-:]{2,})\b.*\((LONG|SHORT)\)`)
	// "12.5 BTC" style occurrences establish a size per symbol. A "$"
	// prefix marks a notional value, which is not a coin size.
	textSizeRe = regexp.MustCompile(`(^|[^$0-9.,])([0-9][0-9.,]*)\s+([A-Z0-9.\-:]{2,})\b`)
)

// TextStrategy is the coverage fallback: it joins a side-map and a
// size-map scanned independently from the visible text. When several
// numeric-tagged tokens share a symbol the last one wins, so this
// strategy can misattribute sizes; it only runs when the structured
// strategies found nothing.
func TextStrategy(c Content) (Result, error) {
	sides := make(map[string]string)
	sizes := make(map[string]float64)

	for _, line := range c.Lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		if upper == "" {
			continue
		}
		if m := textSideRe.FindStringSubmatch(upper); m != nil {
			symbol := CleanSymbol(m[1])
			if symbol != "" && !IsHeaderWord(symbol) {
				sides[symbol] = m[2]
			}
		}
		for _, m := range textSizeRe.FindAllStringSubmatch(upper, -1) {
			symbol := CleanSymbol(m[3])
			if symbol == "" || IsHeaderWord(symbol) {
				continue
			}
			if v, ok := parseNumber(m[2]); ok {
				sizes[symbol] = math.Abs(v)
			}
		}
	}

	symbols := make([]string, 0, len(sides))
	for sym := range sides {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var res Result
	for _, sym := range symbols {
		p := RawPosition{Symbol: sym, Side: sides[sym]}
		if v, ok := sizes[sym]; ok {
			if v == 0 {
				continue
			}
			size := v
			p.SizeCoin = &size
		}
		res.Positions = append(res.Positions, p)
	}
	return res, nil
}
