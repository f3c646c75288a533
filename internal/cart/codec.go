package cart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// encodeLines serializes the line list in the format the web storefront
// keeps in local storage.
func encodeLines(items []LineItem) (string, error) {
	if items == nil {
		items = []LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// storedLine reads a persisted line with a loosely typed quantity; the outer
// Qty shadows LineItem.Qty during decoding.
type storedLine struct {
	LineItem
	Qty any `json:"qty"`
}

// decodeLines never fails: content that is not a JSON array yields no lines,
// and entries without a string id or with unreadable fields are dropped.
// Lines sharing an id are merged so the one-line-per-id rule holds.
func decodeLines(raw string) []LineItem {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}

	items := make([]LineItem, 0, len(entries))
	index := make(map[string]int, len(entries))

	for _, e := range entries {
		var probe struct {
			ID any `json:"id"`
		}
		if err := json.Unmarshal(e, &probe); err != nil {
			continue
		}
		if _, ok := probe.ID.(string); !ok {
			continue
		}

		var sl storedLine
		if err := json.Unmarshal(e, &sl); err != nil {
			continue
		}

		line := sl.LineItem
		line.Qty = coerceQty(sl.Qty)

		if i, ok := index[line.ID]; ok {
			items[i].Qty += line.Qty
			continue
		}
		index[line.ID] = len(items)
		items = append(items, line)
	}

	return items
}

// coerceQty turns whatever was stored under qty into an integer >= 1.
func coerceQty(v any) int {
	var f float64
	switch q := v.(type) {
	case float64:
		f = q
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil {
			return 1
		}
		f = parsed
	case bool:
		if q {
			f = 1
		}
	default:
		return 1
	}
	return clampQty(f)
}

// clampQty floors f and clamps it to at least 1. NaN and infinities count as 1.
func clampQty(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	f = math.Floor(f)
	if f < 1 {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
