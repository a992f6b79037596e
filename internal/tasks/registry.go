// Package tasks tracks external asynchronous jobs. A registry of known
// task kinds is loaded from embedded YAML, and a tracker polls the
// remote service, applying each kind's completion side effect under a
// guarded status transition.
package tasks

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// KindSpec describes one known task kind. Name is the stored task_name
// value; Correlates names the entity the task's id columns point at.
type KindSpec struct {
	Name        string `yaml:"-" json:"name"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`
	Correlates  string `yaml:"correlates" json:"correlates"`
}

type kindsFile struct {
	Kinds map[string]KindSpec `yaml:"kinds"`
}

// Registry holds the known task kinds.
type Registry struct {
	kinds map[string]KindSpec
	mu    sync.RWMutex
}

// NewRegistry loads the embedded task-kind YAML.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/tasks.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded tasks.yaml: %w", err)
	}

	var file kindsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tasks.yaml: %w", err)
	}

	r := &Registry{kinds: make(map[string]KindSpec, len(file.Kinds))}
	for name, spec := range file.Kinds {
		spec.Name = name
		r.kinds[name] = spec
	}

	return r, nil
}

// GetKind returns the KindSpec for a task kind.
func (r *Registry) GetKind(name string) (KindSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.kinds[name]
	if !ok {
		return KindSpec{}, fmt.Errorf("unknown task kind: %s", name)
	}
	return spec, nil
}

// Known reports whether a task kind is registered.
func (r *Registry) Known(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.kinds[name]
	return ok
}
