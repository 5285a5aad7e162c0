package assetkey

import (
	"slices"
	"strings"
)

// String serializes the key into its canonical dotted form.
func (k Key) String() string {
	return strings.Join(k.Path, ".")
}

// Equal reports whether two keys have identical segments.
func (k Key) Equal(other Key) bool {
	return slices.Equal(k.Path, other.Path)
}

// MarshalText implements encoding.TextMarshaler so keys render as strings in reports.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
