package book

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Epoch is day zero of the spreadsheet date serial. Dates on or before it are
// treated as absent.
var Epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const secondsPerDay = 24 * 60 * 60

// MaxSerial is the serial of 9999-12-31, the last date a spreadsheet can hold.
const MaxSerial = 2958465

// DateOf truncates t to its calendar date, expressed at UTC midnight.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToSerial encodes the calendar date of t as a day serial. The zero time
// encodes as 0.
func ToSerial(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	days := (DateOf(t).Unix() - Epoch.Unix()) / secondsPerDay
	if days < 0 {
		return 0
	}
	return int(days)
}

// FromSerial decodes a day serial. Serials <= 0 or past MaxSerial decode to
// the zero time.
func FromSerial(n int) time.Time {
	if n <= 0 || n > MaxSerial {
		return time.Time{}
	}
	return Epoch.AddDate(0, 0, n)
}

// ParseSerial decodes a loosely typed stored date value. Numbers, numeric
// strings and ISO dates are accepted; anything else decodes to the zero time.
// Fractional serials (time of day) are floored.
func ParseSerial(v any) time.Time {
	switch x := v.(type) {
	case nil:
		return time.Time{}
	case int:
		return FromSerial(x)
	case int64:
		return FromSerial(int(x))
	case float64:
		if math.IsNaN(x) || x < 1 || x > MaxSerial {
			return time.Time{}
		}
		return FromSerial(int(math.Floor(x)))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}
		}
		return ParseSerial(f)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return ParseSerial(f)
		}
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			return DateOf(t)
		}
		return time.Time{}
	case time.Time:
		return DateOf(x)
	default:
		return time.Time{}
	}
}
