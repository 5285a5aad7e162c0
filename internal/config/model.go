package config

import (
	"github.com/hashicorp/hcl/v2"
)

// FormatParquet is the only artifact format the storage layer writes.
const FormatParquet = "parquet"

// DefaultLayers are used for any storage class the declaration does not name.
var DefaultLayers = map[string]string{
	"bronze": "data/bronze/parquet",
	"silver": "data/silver",
	"gold":   "data/gold",
}

// Model is the unified, format-agnostic representation of a pipeline.
type Model struct {
	Layers   []*Layer
	Extracts []*Extract
	// Assets keeps declaration order; it breaks ties in execution order.
	Assets []*Asset
}

// Layer configures the storage of one storage class.
type Layer struct {
	Name     string
	BasePath string
	Format   string
}

// Extract describes one raw-file extraction source.
type Extract struct {
	Name      string
	Kind      string
	URL       string
	Files     []string
	Extension string
	Dest      string
}

// Asset is the format-agnostic representation of an `asset` block.
type Asset struct {
	Layer        string
	Name         string
	StorageClass string
	Compute      string
	Inputs       []string
	Description  string
	Arguments    hcl.Body
	// Source is the file the asset was declared in, for diagnostics.
	Source string
}

// Key returns the dotted asset key, e.g. "silver.orders".
func (a *Asset) Key() string {
	return a.Layer + "." + a.Name
}

// Layer returns the declared layer with the given name, falling back to
// DefaultLayers. The second result is false when neither knows the name.
func (m *Model) Layer(name string) (*Layer, bool) {
	for _, l := range m.Layers {
		if l.Name == name {
			return l, true
		}
	}
	if base, ok := DefaultLayers[name]; ok {
		return &Layer{Name: name, BasePath: base, Format: FormatParquet}, true
	}
	return nil, false
}

// StorageClasses lists every storage class referenced by the model: declared
// layers first, then classes only referenced by assets, each once.
func (m *Model) StorageClasses() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, l := range m.Layers {
		add(l.Name)
	}
	for _, a := range m.Assets {
		add(a.StorageClass)
	}
	return out
}

// Extract returns the extraction source with the given name.
func (m *Model) Extract(name string) (*Extract, bool) {
	for _, e := range m.Extracts {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}
