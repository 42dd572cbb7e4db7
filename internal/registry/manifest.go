package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultManifest []byte

// Manifest is the declarative list of available shape kinds.
type Manifest struct {
	Shapes []Node `yaml:"shapes" toml:"shapes" json:"shapes"`
}

// Node is either a leaf declaring a kind (Impl set) or a presentation
// group (Shapes set). For a leaf Name is the kind id, for a group it is
// the menu label.
type Node struct {
	Name   string `yaml:"name" toml:"name" json:"name"`
	Impl   string `yaml:"impl,omitempty" toml:"impl,omitempty" json:"impl,omitempty"`
	Label  string `yaml:"label,omitempty" toml:"label,omitempty" json:"label,omitempty"`
	Shapes []Node `yaml:"shapes,omitempty" toml:"shapes,omitempty" json:"shapes,omitempty"`
}

// IsGroup reports whether the node groups other nodes.
func (n Node) IsGroup() bool { return n.Impl == "" && len(n.Shapes) > 0 }

// Format names a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the manifest encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: unsupported manifest extension %q", ErrRegistryLoad, filepath.Ext(path))
	}
}

// DecodeManifest reads and validates a manifest.
func DecodeManifest(r io.Reader, format Format) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %w", ErrRegistryLoad, err)
	}

	var m Manifest
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&m)
		if err == io.EOF {
			err = errors.New("empty document")
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&m)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %w", ErrRegistryLoad, err)
	}

	if err := validateNodes(m.Shapes, ""); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistryLoad, err)
	}
	return &m, nil
}

// ReadManifest loads a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistryLoad, err)
	}
	defer f.Close()
	return DecodeManifest(f, format)
}

// DefaultManifest returns the built-in manifest.
func DefaultManifest() *Manifest {
	m, err := DecodeManifest(bytes.NewReader(defaultManifest), FormatYAML)
	if err != nil {
		panic(err)
	}
	return m
}

func validateNodes(nodes []Node, parent string) error {
	for i, n := range nodes {
		where := fmt.Sprintf("%sshapes[%d]", parent, i)
		if n.Name == "" {
			return fmt.Errorf("%s: missing name", where)
		}
		switch {
		case n.Impl != "" && len(n.Shapes) > 0:
			return fmt.Errorf("%s (%s): node has both impl and shapes", where, n.Name)
		case n.Impl == "" && len(n.Shapes) == 0:
			return fmt.Errorf("%s (%s): node has neither impl nor shapes", where, n.Name)
		}
		if err := validateNodes(n.Shapes, where+"."); err != nil {
			return err
		}
	}
	return nil
}
