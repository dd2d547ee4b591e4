package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Content is everything the renderer could harvest from one page load.
// Strategies are pure functions over this value, which keeps them
// testable without a browser.
type Content struct {
	URL string
	// NextData is the raw text of the page's hydration payload
	// (#__NEXT_DATA__), empty when the page has none.
	NextData string
	// Sections are candidate containers that carry tabular rows, with
	// their full visible text kept for scoring.
	Sections []Section
	// Lines is the page's visible text split into trimmed lines.
	Lines []string
}

// Section is one DOM container with row/cell text. Rows keep the raw
// innerText of each cell, newlines included.
type Section struct {
	Text string
	Rows [][]string
}

// RawPosition is a position tuple as recovered by a strategy, before
// normalization. SizeCoin is nil when the strategy saw the row but could
// not recover a coin-denominated size.
type RawPosition struct {
	Symbol   string
	Side     string
	SizeCoin *float64
}

// RawOrder is an open-order tuple as recovered by a strategy.
type RawOrder struct {
	Symbol string
	Side   string
	Size   float64
	Price  float64
}

// Result is the output of one strategy (or of the whole chain).
type Result struct {
	Strategy  string
	Positions []RawPosition
	Orders    []RawOrder
}

func (r Result) Empty() bool {
	return len(r.Positions) == 0 && len(r.Orders) == 0
}

// headerWords are column-header tokens that must never be mistaken for a
// symbol, whichever strategy produced them.
var headerWords = map[string]struct{}{
	"ASSET":     {},
	"ASSETS":    {},
	"TYPE":      {},
	"SIDE":      {},
	"SIZE":      {},
	"PNL":       {},
	"POSITION":  {},
	"POSITIONS": {},
	"VALUE":     {},
	"ENTRY":     {},
	"PRICE":     {},
	"MARK":      {},
	"LIQ":       {},
	"MARGIN":    {},
	"FUNDING":   {},
	"TOTAL":     {},
	"SYMBOL":    {},
	"COIN":      {},
}

func IsHeaderWord(symbol string) bool {
	_, ok := headerWords[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}

var symbolStripRe = regexp.MustCompile(`[^A-Z0-9.\-:]`)

// CleanSymbol uppercases a token and strips everything outside the
// canonical symbol alphabet.
func CleanSymbol(token string) string {
	return symbolStripRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(token)), "")
}

// numberRe matches the first numeric run in a cell, tolerating comma
// grouping and the assorted unicode spaces dashboards render with.
var numberRe = regexp.MustCompile(`[0-9][0-9.,\s\x{00A0}\x{202F}\x{2000}-\x{200B}]*`)

var separatorRe = regexp.MustCompile(`[,\s\x{00A0}\x{202F}\x{2000}-\x{200B}]`)

// parseNumber extracts the first number from s, stripping grouping
// separators. Returns false when s carries no parseable number.
func parseNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	cleaned := separatorRe.ReplaceAllString(m, "")
	cleaned = strings.TrimRight(cleaned, ".")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
