package extract

import (
	"math"
	"regexp"
	"strings"
)

var (
	sideWordRe    = regexp.MustCompile(`\b(LONG|SHORT)\b`)
	doubleSpaceRe = regexp.MustCompile(` {2,}`)
)

// TableStrategy picks the best-scoring tabular container and parses its
// rows positionally: cell 0 symbol, cell 1 side, cell 2 coin size. The
// size cell usually renders two sub-lines (quote value and coin amount);
// the coin amount is the one naming the symbol without a "$".
func TableStrategy(c Content) (Result, error) {
	section, ok := bestSection(c.Sections)
	if !ok {
		return Result{}, nil
	}

	var res Result
	idx := make(map[string]int)
	for _, row := range section.Rows {
		if len(row) < 3 {
			continue
		}
		first := strings.Fields(strings.TrimSpace(row[0]))
		if len(first) == 0 {
			continue
		}
		symbol := CleanSymbol(first[0])
		if symbol == "" || IsHeaderWord(symbol) {
			continue
		}
		m := sideWordRe.FindString(strings.ToUpper(row[1]))
		if m == "" {
			continue
		}
		size := coinSizeFromCell(row[2], symbol)
		if size != nil && *size == 0 {
			continue
		}
		p := RawPosition{Symbol: symbol, Side: m, SizeCoin: size}
		key := symbol + ":" + m
		if at, seen := idx[key]; seen {
			res.Positions[at] = p
			continue
		}
		idx[key] = len(res.Positions)
		res.Positions = append(res.Positions, p)
	}
	return res, nil
}

// bestSection scores every harvested container and returns the most
// table-like one. Zero score means no plausible positions table at all.
func bestSection(sections []Section) (Section, bool) {
	best := -1
	var winner Section
	for _, s := range sections {
		if sc := scoreSection(s); sc > 0 && sc > best {
			best = sc
			winner = s
		}
	}
	return winner, best > 0
}

func scoreSection(s Section) int {
	t := strings.ToLower(s.Text)
	score := 0
	if strings.Contains(t, "asset positions") {
		score += 3
	}
	if strings.Contains(t, "position value / size") {
		score += 3
	}
	for _, kw := range []string{"asset", "position", "type", "size"} {
		if strings.Contains(t, kw) {
			score++
		}
	}
	if len(s.Rows) > 0 {
		score += 2
	} else {
		score = 0
	}
	return score
}

// coinSizeFromCell finds the sub-line carrying the coin amount. Cells
// render either with newlines or as one run separated by double spaces.
func coinSizeFromCell(cell, symbol string) *float64 {
	lines := splitCellLines(cell)
	sizeLine := ""
	for _, line := range lines {
		if strings.Contains(strings.ToUpper(line), symbol) && !strings.Contains(line, "$") {
			sizeLine = line
			break
		}
	}
	if sizeLine == "" {
		for _, part := range doubleSpaceRe.Split(cell, -1) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.Contains(strings.ToUpper(part), symbol) && !strings.Contains(part, "$") {
				sizeLine = part
				break
			}
		}
	}
	if sizeLine == "" {
		return nil
	}
	v, ok := parseNumber(sizeLine)
	if !ok {
		return nil
	}
	v = math.Abs(v)
	return &v
}

func splitCellLines(cell string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(cell, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
