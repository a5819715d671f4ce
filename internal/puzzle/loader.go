package puzzle

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// BuiltinPath names the puzzle shipped inside the binary.
const BuiltinPath = "builtin/valentine.yaml"

// Load reads a puzzle definition from path, or the builtin puzzle when path
// is empty, and builds its index.
func Load(path string) (*Index, error) {
	var (
		b   []byte
		err error
	)
	if path == "" {
		b, err = builtinFS.ReadFile(BuiltinPath)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read puzzle: %w", err)
	}
	def, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("load puzzle %s: %w", firstNonEmpty(path, BuiltinPath), err)
	}
	def.Path = path
	return NewIndex(def)
}

// Parse decodes a YAML puzzle definition without validating it.
func Parse(b []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(b, &def); err != nil {
		return nil, err
	}
	def.normalize()
	return &def, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
