package engine

import (
	"strings"

	"github.com/vk/medallion/internal/assetkey"
)

// Selection names the assets a run should materialize.
type Selection struct {
	all  bool
	keys []assetkey.Key
}

// All selects every node of the graph.
func All() Selection {
	return Selection{all: true}
}

// Keys selects the given assets (and, implicitly, their dependencies).
func Keys(keys ...assetkey.Key) Selection {
	return Selection{keys: keys}
}

// ParseSelection reads a comma-separated key list. An empty string or "all"
// selects everything.
func ParseSelection(raw string) (Selection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "all" {
		return All(), nil
	}
	keys, err := assetkey.ParseList(raw)
	if err != nil {
		return Selection{}, err
	}
	return Keys(keys...), nil
}

// IsAll reports whether the selection is the "all" sentinel.
func (s Selection) IsAll() bool {
	return s.all
}

func (s Selection) String() string {
	if s.all {
		return "all"
	}
	parts := make([]string, len(s.keys))
	for i, k := range s.keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ",")
}
