package testutil

import "github.com/vk/medallion/internal/registry"

// SimpleModule is a test helper for easily creating a mock module that
// registers a single transform.
type SimpleModule struct {
	Name      string
	Transform *registry.RegisteredTransform
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.Name != "" && m.Transform != nil {
		r.RegisterTransform(m.Name, m.Transform)
	}
}
