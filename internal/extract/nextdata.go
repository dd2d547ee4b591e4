package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Field probe order matters: exchange payloads expose the coin size
// under several names, and the plain "size" field is trusted only when
// no sibling hints the object is denominated in quote currency.
var (
	symbolFields   = []string{"symbol", "coin", "asset", "token", "name"}
	coinSizeFields = []string{"szi", "sz", "positionSize", "baseSize", "qty", "contracts", "contractSize", "coinSize"}
	usdHints       = []string{"usd", "notional", "value"}
	orderPxFields  = []string{"limitPx", "px", "orderPrice"}
	orderSzFields  = []string{"sz", "size", "qty"}
)

// NextDataStrategy walks the page's hydration JSON depth-first and
// collects every object that looks like a position (symbol + side) or an
// open order (symbol + side + price). Duplicate identity keys are
// resolved last-seen-wins.
func NextDataStrategy(c Content) (Result, error) {
	raw := strings.TrimSpace(c.NextData)
	if raw == "" {
		return Result{}, nil
	}
	if !gjson.Valid(raw) {
		return Result{}, fmt.Errorf("hydration payload is not valid JSON")
	}
	w := &nextDataWalker{
		posIdx: make(map[string]int),
		ordIdx: make(map[string]int),
	}
	w.walk(gjson.Parse(raw))
	return Result{Positions: w.positions, Orders: w.orders}, nil
}

type nextDataWalker struct {
	positions []RawPosition
	orders    []RawOrder
	posIdx    map[string]int
	ordIdx    map[string]int
}

func (w *nextDataWalker) walk(v gjson.Result) {
	if v.IsObject() {
		w.visitObject(v)
	}
	if v.IsObject() || v.IsArray() {
		v.ForEach(func(_, child gjson.Result) bool {
			if child.IsObject() || child.IsArray() {
				w.walk(child)
			}
			return true
		})
	}
}

func (w *nextDataWalker) visitObject(obj gjson.Result) {
	symbol := ""
	for _, f := range symbolFields {
		if v := obj.Get(f); v.Exists() && v.Type == gjson.String {
			symbol = CleanSymbol(v.String())
			if symbol != "" {
				break
			}
		}
	}
	if symbol == "" || IsHeaderWord(symbol) {
		return
	}

	if price, ok := pickOrderPrice(obj); ok {
		w.visitOrder(obj, symbol, price)
		return
	}

	side := pickSide(obj)
	if side == "" {
		return
	}
	size, ok := pickCoinSize(obj)
	if !ok || size == 0 {
		// Zero coin size means "no position", not a zero-size position.
		return
	}
	size = math.Abs(size)
	p := RawPosition{Symbol: symbol, Side: side, SizeCoin: &size}
	key := symbol + ":" + side
	if idx, seen := w.posIdx[key]; seen {
		w.positions[idx] = p
		return
	}
	w.posIdx[key] = len(w.positions)
	w.positions = append(w.positions, p)
}

func (w *nextDataWalker) visitOrder(obj gjson.Result, symbol string, price float64) {
	side := orderSideWord(obj)
	if side == "" {
		return
	}
	var size float64
	found := false
	for _, f := range orderSzFields {
		if v, ok := numericField(obj, f); ok {
			size = math.Abs(v)
			found = true
			break
		}
	}
	if !found || size == 0 {
		return
	}
	o := RawOrder{Symbol: symbol, Side: side, Size: size, Price: price}
	key := fmt.Sprintf("%s:%s:%v@%v", symbol, side, size, price)
	if idx, seen := w.ordIdx[key]; seen {
		w.orders[idx] = o
		return
	}
	w.ordIdx[key] = len(w.orders)
	w.orders = append(w.orders, o)
}

// pickSide recovers a position side from an explicit string field or a
// boolean long/short flag.
func pickSide(obj gjson.Result) string {
	for _, f := range []string{"side", "positionSide"} {
		if v := obj.Get(f); v.Exists() && v.Type == gjson.String {
			if s := strings.ToUpper(strings.TrimSpace(v.String())); s != "" {
				return s
			}
		}
	}
	for _, f := range []string{"isLong", "long"} {
		v := obj.Get(f)
		switch v.Type {
		case gjson.True:
			return "LONG"
		case gjson.False:
			return "SHORT"
		}
	}
	return ""
}

// pickOrderPrice treats an object as an order only when it carries an
// unambiguous order-price field; a bare "price" qualifies only next to
// an order marker, so position objects with mark prices stay positions.
func pickOrderPrice(obj gjson.Result) (float64, bool) {
	for _, f := range orderPxFields {
		if v, ok := numericField(obj, f); ok {
			return v, true
		}
	}
	if obj.Get("oid").Exists() || obj.Get("orderType").Exists() {
		if v, ok := numericField(obj, "price"); ok {
			return v, true
		}
	}
	return 0, false
}

func orderSideWord(obj gjson.Result) string {
	if v := obj.Get("side"); v.Exists() && v.Type == gjson.String {
		switch s := strings.ToUpper(strings.TrimSpace(v.String())); s {
		case "B", "BID", "BUY":
			return "BUY"
		case "A", "S", "ASK", "SELL":
			return "SELL"
		case "":
			return ""
		default:
			return s
		}
	}
	return pickSide(obj)
}

// pickCoinSize tries the ordered candidate fields, then falls back to
// "size" unless a sibling field name suggests quote-currency units.
func pickCoinSize(obj gjson.Result) (float64, bool) {
	for _, f := range coinSizeFields {
		if v, ok := numericField(obj, f); ok {
			return v, true
		}
	}
	v, ok := numericField(obj, "size")
	if !ok {
		return 0, false
	}
	hasUSDSibling := false
	obj.ForEach(func(key, _ gjson.Result) bool {
		name := strings.ToLower(key.String())
		for _, hint := range usdHints {
			if strings.Contains(name, hint) {
				hasUSDSibling = true
				return false
			}
		}
		return true
	})
	if hasUSDSibling {
		return 0, false
	}
	return v, true
}

// numericField accepts both JSON numbers and numeric strings; exchange
// hydration payloads serialize sizes either way.
func numericField(obj gjson.Result, field string) (float64, bool) {
	v := obj.Get(field)
	if !v.Exists() {
		return 0, false
	}
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
