package assetkey

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex accepts names usable both as file stems and SQL identifiers.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Parse creates a Key from its dotted representation.
func Parse(raw string) (Key, error) {
	if raw == "" {
		return Key{}, fmt.Errorf("asset key cannot be empty")
	}

	var key Key
	for _, segment := range strings.Split(raw, ".") {
		if err := ValidateSegment(segment); err != nil {
			return Key{}, fmt.Errorf("asset key %q: %w", raw, err)
		}
		key.Path = append(key.Path, segment)
	}
	return key, nil
}

// MustParse is Parse for keys known at compile time.
func MustParse(raw string) Key {
	key, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return key
}

// ValidateSegment checks a single path segment.
func ValidateSegment(segment string) error {
	if segment == "" {
		return fmt.Errorf("empty segment")
	}
	if segment == "-" {
		return fmt.Errorf("invalid segment name: %q", segment)
	}
	if !segmentRegex.MatchString(segment) {
		return fmt.Errorf("invalid segment format: %q", segment)
	}
	return nil
}

// ParseList parses a comma-separated list of keys, ignoring blanks.
func ParseList(raw string) ([]Key, error) {
	var keys []Key
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, err := Parse(part)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
