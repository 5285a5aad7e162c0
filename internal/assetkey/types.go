package assetkey

// Key is the structured representation of an asset identifier.
type Key struct {
	Path []string
}

// New builds a key from already-validated segments.
func New(segments ...string) Key {
	path := make([]string, len(segments))
	copy(path, segments)
	return Key{Path: path}
}

// Name returns the last segment, used as the artifact and relation name.
func (k Key) Name() string {
	if len(k.Path) == 0 {
		return ""
	}
	return k.Path[len(k.Path)-1]
}

// Prefix returns the first segment, conventionally the layer.
func (k Key) Prefix() string {
	if len(k.Path) == 0 {
		return ""
	}
	return k.Path[0]
}

// IsZero reports whether the key has no segments.
func (k Key) IsZero() bool {
	return len(k.Path) == 0
}
