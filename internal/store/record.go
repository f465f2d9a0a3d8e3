package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one row of a collection, keyed by column name.
// Values held by a Store are always nil or the canonical cell text.
type Record map[string]any

// Get returns the cell text for col; ok is false when the cell is null or missing.
func (r Record) Get(col string) (string, bool) {
	v, exists := r[col]
	if !exists || v == nil {
		return "", false
	}
	s, null := cellText(v)
	return s, !null
}

// String returns the cell text for col, or "" when null.
func (r Record) String(col string) string {
	s, _ := r.Get(col)
	return s
}

func (r Record) IsNull(col string) bool {
	_, ok := r.Get(col)
	return !ok
}

// Int parses the cell as an integer. Decimal cells ("85.0") are rounded.
func (r Record) Int(col string) (int, bool) {
	s, ok := r.Get(col)
	if !ok {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

func (r Record) Float(col string) (float64, bool) {
	s, ok := r.Get(col)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool accepts true/false in any case, 1/0 and yes/no.
func (r Record) Bool(col string) (bool, bool) {
	s, ok := r.Get(col)
	if !ok {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// cellText renders a scalar as CSV cell text. null is true for nil and for
// values that render as the empty string, since a CSV cell cannot tell them apart.
func cellText(v any) (text string, null bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		t = unixNewlines(t)
		return t, t == ""
	case *string:
		if t == nil {
			return "", true
		}
		s := unixNewlines(*t)
		return s, s == ""
	case bool:
		return strconv.FormatBool(t), false
	case int:
		return strconv.Itoa(t), false
	case int8:
		return strconv.FormatInt(int64(t), 10), false
	case int16:
		return strconv.FormatInt(int64(t), 10), false
	case int32:
		return strconv.FormatInt(int64(t), 10), false
	case int64:
		return strconv.FormatInt(t, 10), false
	case uint:
		return strconv.FormatUint(uint64(t), 10), false
	case uint8:
		return strconv.FormatUint(uint64(t), 10), false
	case uint16:
		return strconv.FormatUint(uint64(t), 10), false
	case uint32:
		return strconv.FormatUint(uint64(t), 10), false
	case uint64:
		return strconv.FormatUint(t, 10), false
	case float32:
		return formatFloat(float64(t), 32)
	case float64:
		return formatFloat(t, 64)
	case *int:
		if t == nil {
			return "", true
		}
		return strconv.Itoa(*t), false
	case time.Time:
		if t.IsZero() {
			return "", true
		}
		return t.Format(time.RFC3339), false
	case fmt.Stringer:
		s := unixNewlines(t.String())
		return s, s == ""
	default:
		s := unixNewlines(fmt.Sprint(t))
		return s, s == ""
	}
}

var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// unixNewlines stores line breaks the way encoding/csv reads them back.
func unixNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	return newlineReplacer.Replace(s)
}

func formatFloat(f float64, bits int) (string, bool) {
	if math.IsNaN(f) {
		return "", true
	}
	return strconv.FormatFloat(f, 'f', -1, bits), false
}

// normalize converts every value in r to nil or canonical cell text.
func normalize(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		s, null := cellText(v)
		if null {
			out[k] = nil
		} else {
			out[k] = s
		}
	}
	return out
}
