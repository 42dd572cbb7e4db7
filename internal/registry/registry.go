// Package registry binds shape kind ids to factories, driven by a
// declarative manifest.
package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/planer/planer/internal/shape"
)

// Factory constructs a shape of one kind from its four coordinates.
type Factory func(c shape.Coords) shape.Shape

// Impls maps manifest implementation refs to factories. Manifests can
// only name refs present in the table handed to Load.
type Impls map[string]Factory

// Builtins returns the implementation table of the built-in kinds.
func Builtins() Impls {
	return Impls{
		"shape.Rectangle":     func(c shape.Coords) shape.Shape { return shape.NewRectangle(c) },
		"shape.Square":        func(c shape.Coords) shape.Shape { return shape.NewSquare(c) },
		"shape.RightTriangle": func(c shape.Coords) shape.Shape { return shape.NewRightTriangle(c) },
		"shape.Circle":        func(c shape.Coords) shape.Shape { return shape.NewCircle(c) },
	}
}

// MenuItem is a node of the presentation tree: a kind entry or a group.
type MenuItem struct {
	Kind  string     `json:"kind,omitempty"`
	Label string     `json:"label"`
	Items []MenuItem `json:"items,omitempty"`
}

// Registry is read-only once loaded and safe for concurrent use.
type Registry struct {
	factories map[string]Factory
	names     map[string]string
	order     []string
	menu      []MenuItem
	warnings  []error
}

// Load resolves every leaf of m against impls. Unusable entries are
// skipped and kept as warnings; a registry without any kind is an error.
func Load(m *Manifest, impls Impls) (*Registry, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil manifest", ErrRegistryLoad)
	}
	if err := validateNodes(m.Shapes, ""); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistryLoad, err)
	}

	r := &Registry{
		factories: make(map[string]Factory),
		names:     make(map[string]string),
	}
	r.menu = r.walk(m.Shapes, impls)

	for _, w := range r.warnings {
		slog.Warn("skipping shape kind", "error", w)
	}
	if len(r.order) == 0 {
		return nil, fmt.Errorf("%w: no usable shape kinds", ErrRegistryLoad)
	}
	return r, nil
}

// LoadFile reads the manifest at path and loads it against impls. An
// empty path selects the built-in manifest.
func LoadFile(path string, impls Impls) (*Registry, error) {
	m := DefaultManifest()
	if path != "" {
		var err error
		if m, err = ReadManifest(path); err != nil {
			return nil, err
		}
	}
	return Load(m, impls)
}

// Default returns the registry of the built-in manifest and kinds.
func Default() *Registry {
	r, err := Load(DefaultManifest(), Builtins())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) walk(nodes []Node, impls Impls) []MenuItem {
	var items []MenuItem
	for _, n := range nodes {
		if n.IsGroup() {
			children := r.walk(n.Shapes, impls)
			if len(children) > 0 {
				items = append(items, MenuItem{Label: n.Name, Items: children})
			}
			continue
		}

		name, err := r.bind(n, impls)
		if err != nil {
			r.warnings = append(r.warnings, err)
			continue
		}
		if n.Label != "" {
			name = n.Label
		}
		items = append(items, MenuItem{Kind: n.Name, Label: name})
	}
	return items
}

func (r *Registry) bind(n Node, impls Impls) (string, error) {
	if _, ok := r.factories[n.Name]; ok {
		return "", &KindError{Kind: n.Name, Impl: n.Impl, Err: ErrDuplicateKind}
	}
	f, ok := impls[n.Impl]
	if !ok || f == nil {
		return "", &KindError{Kind: n.Name, Impl: n.Impl, Err: ErrKindResolution}
	}
	name, err := probe(n.Name, f)
	if err != nil {
		return "", &KindError{Kind: n.Name, Impl: n.Impl, Err: err}
	}

	r.factories[n.Name] = f
	r.names[n.Name] = name
	r.order = append(r.order, n.Name)
	return name, nil
}

// probe builds one throwaway shape to check the factory before the kind
// is exposed.
func probe(kind string, f Factory) (name string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: factory panicked: %v", ErrContractViolation, p)
		}
	}()

	s := f(shape.C(0, 0, 1, 1))
	switch {
	case s == nil:
		return "", fmt.Errorf("%w: factory returned nil", ErrContractViolation)
	case s.KindID() != kind:
		return "", fmt.Errorf("%w: factory builds kind %q", ErrContractViolation, s.KindID())
	case s.DisplayName() == "":
		return "", fmt.Errorf("%w: empty display name", ErrContractViolation)
	}
	return s.DisplayName(), nil
}

// Create builds a shape of the given kind with committed coordinates c.
func (r *Registry) Create(kind string, c shape.Coords) (shape.Shape, error) {
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return f(c), nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, ok := r.factories[kind]
	return ok
}

// Kinds returns the kind ids in manifest declaration order.
func (r *Registry) Kinds() []string {
	return slices.Clone(r.order)
}

// DefaultKind is the first declared kind.
func (r *Registry) DefaultKind() string {
	return r.order[0]
}

// DisplayName returns the human name of kind, or "" if unknown.
func (r *Registry) DisplayName(kind string) string {
	return r.names[kind]
}

// DisplayNames returns kind id to display name for every kind.
func (r *Registry) DisplayNames() map[string]string {
	return maps.Clone(r.names)
}

// Menu returns the presentation tree.
func (r *Registry) Menu() []MenuItem {
	return slices.Clone(r.menu)
}

// Warnings returns the entries skipped during load.
func (r *Registry) Warnings() []error {
	return slices.Clone(r.warnings)
}

