package table

import (
	"fmt"
	"strings"
	"time"
)

// Type is the logical type of a column.
type Type int

const (
	// String holds Go string cells.
	String Type = iota
	// Int64 holds int64 cells.
	Int64
	// Float64 holds float64 cells.
	Float64
	// Bool holds bool cells.
	Bool
	// Date holds time.Time cells truncated to midnight UTC.
	Date
	// Timestamp holds time.Time cells.
	Timestamp
)

var typeNames = map[Type]string{
	String:    "string",
	Int64:     "int64",
	Float64:   "float64",
	Bool:      "bool",
	Date:      "date",
	Timestamp: "timestamp",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType is the inverse of Type.String.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown column type %q", s)
}

// Column is one entry of a Table schema.
type Column struct {
	Name string `yaml:"name" json:"name"`
	Type Type   `yaml:"type" json:"type"`
}

func (c Column) String() string {
	return c.Name + " " + c.Type.String()
}

// MarshalText renders the type by name in reports.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a type name.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Row is a tuple of cells positionally aligned with the schema. A nil cell is NULL.
type Row []any

// CheckValue verifies that v is a legal cell for a column of type t.
func CheckValue(t Type, v any) error {
	if v == nil {
		return nil
	}
	ok := false
	switch t {
	case String:
		_, ok = v.(string)
	case Int64:
		_, ok = v.(int64)
	case Float64:
		_, ok = v.(float64)
	case Bool:
		_, ok = v.(bool)
	case Date:
		var ts time.Time
		if ts, ok = v.(time.Time); ok && (ts.Location() != time.UTC || !ts.Equal(ToDate(ts))) {
			return fmt.Errorf("date %v is not midnight UTC", ts)
		}
	case Timestamp:
		var ts time.Time
		if ts, ok = v.(time.Time); ok && (ts.Location() != time.UTC || ts.Nanosecond()%int(time.Microsecond) != 0) {
			return fmt.Errorf("timestamp %v is not UTC at microsecond precision", ts)
		}
	}
	if !ok {
		return fmt.Errorf("value %v of Go type %T is not a valid %s", v, v, t)
	}
	return nil
}

// Coerce converts common Go representations into the canonical cell type for t.
func Coerce(t Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case Int64:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int8:
			return int64(n), nil
		case int16:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case uint8:
			return int64(n), nil
		case uint16:
			return int64(n), nil
		case uint32:
			return int64(n), nil
		}
	case Float64:
		switch n := v.(type) {
		case float32:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case int:
			return float64(n), nil
		}
	case Date:
		if ts, ok := v.(time.Time); ok {
			return ToDate(ts), nil
		}
	case Timestamp:
		if ts, ok := v.(time.Time); ok {
			return ToTimestamp(ts), nil
		}
	}
	if err := CheckValue(t, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ToDate truncates a timestamp to its calendar date at midnight UTC. The
// date is the one on the wall clock of ts's own location.
func ToDate(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ToTimestamp converts ts to UTC and truncates it to microseconds, the
// precision artifacts store.
func ToTimestamp(ts time.Time) time.Time {
	return ts.UTC().Truncate(time.Microsecond)
}
