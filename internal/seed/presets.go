package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yml
var builtinPresets []byte

// Presets maps preset names to plans.
type Presets map[string]Plan

// ParsePresets decodes a YAML document of the form
//
//	presets:
//	  name: {users: 10, posts: 40, ...}
func ParsePresets(raw []byte) (Presets, error) {
	var doc struct {
		Presets Presets `yaml:"presets"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	out := make(Presets, len(doc.Presets))
	for name, plan := range doc.Presets {
		if plan.Users < 0 || plan.Posts < 0 {
			return nil, fmt.Errorf("preset %q: counts must not be negative", name)
		}
		out[strings.ToLower(name)] = plan
	}
	return out, nil
}

// BuiltinPresets returns the presets shipped with the binary.
func BuiltinPresets() (Presets, error) {
	return ParsePresets(builtinPresets)
}

// LoadPresets reads presets from path, layered over the built-in ones.
func LoadPresets(path string) (Presets, error) {
	presets, err := BuiltinPresets()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return presets, nil
	}
	raw, err := os.ReadFile(path) // #nosec G304: operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	extra, err := ParsePresets(raw)
	if err != nil {
		return nil, err
	}
	for name, plan := range extra {
		presets[name] = plan
	}
	return presets, nil
}

// Names lists preset names in order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset runs the named preset.
func (s *Seeder) ApplyPreset(ctx context.Context, presets Presets, name string) (Result, error) {
	plan, ok := presets[strings.ToLower(name)]
	if !ok {
		return Result{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(presets.Names(), ", "))
	}
	return s.Run(ctx, plan)
}
