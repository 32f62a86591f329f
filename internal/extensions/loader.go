// Package extensions loads Substrait simple-extension YAML documents into
// function entries for the signature store.
//
// Only the subset of the simple-extensions schema needed for signature
// resolution is read: function names, implementations, argument types and
// options, variadic behavior, nullability handling and return types.
// Implementations using syntax outside that subset (derivation expressions,
// user-defined types) are skipped with a warning rather than failing the
// whole document, since upstream extension files are still a little loose.
package extensions

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/westonpace/substrait-expr/internal/registry"
	"github.com/westonpace/substrait-expr/pkg/types"
)

// document mirrors the top-level simple-extensions YAML layout.
type document struct {
	ScalarFunctions    []functionDoc `yaml:"scalar_functions"`
	AggregateFunctions []functionDoc `yaml:"aggregate_functions"`
	WindowFunctions    []functionDoc `yaml:"window_functions"`
}

type functionDoc struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Impls       []implDoc `yaml:"impls"`
}

type implDoc struct {
	Args        []argDoc     `yaml:"args"`
	Variadic    *variadicDoc `yaml:"variadic"`
	Nullability string       `yaml:"nullability"`
	Return      typeRef      `yaml:"return"`
}

type variadicDoc struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type argDoc struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Value       typeRef  `yaml:"value"`
	Options     []string `yaml:"options"`
}

// typeRef accepts the two spellings upstream documents use for a type: a
// plain scalar string, or a mapping with a value key.
type typeRef struct {
	raw string
}

func (t *typeRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		t.raw = node.Value
		return nil
	case yaml.MappingNode:
		var wrapper struct {
			Value string `yaml:"value"`
		}
		if err := node.Decode(&wrapper); err != nil {
			return err
		}
		t.raw = wrapper.Value
		return nil
	}
	return fmt.Errorf("line %d: unsupported type reference", node.Line)
}

// Result holds the entries loaded from one document plus warnings for any
// implementations that were skipped.
type Result struct {
	Entries  []*registry.FunctionEntry
	Warnings []string
}

// LoadFile reads and parses a simple-extension document from disk. The URI
// names the namespace the document's functions are registered under, which
// is conventionally the published URI of the YAML itself.
func LoadFile(uri, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading extension %s: %w", path, err)
	}
	result, err := Load(uri, data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return result, nil
}

// Load parses a simple-extension document.
func Load(uri string, data []byte) (*Result, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing extension document: %w", err)
	}

	result := &Result{}
	for _, group := range [][]functionDoc{doc.ScalarFunctions, doc.AggregateFunctions, doc.WindowFunctions} {
		for _, fn := range group {
			entry, warnings := buildEntry(uri, fn)
			result.Warnings = append(result.Warnings, warnings...)
			if entry != nil {
				result.Entries = append(result.Entries, entry)
			}
		}
	}
	return result, nil
}

// RegisterAll registers every loaded entry with the store.
func RegisterAll(store *registry.Store, result *Result) error {
	for _, entry := range result.Entries {
		if err := store.Register(entry); err != nil {
			return err
		}
	}
	return nil
}

func buildEntry(uri string, fn functionDoc) (*registry.FunctionEntry, []string) {
	var warnings []string
	entry := &registry.FunctionEntry{
		URI:         uri,
		Name:        fn.Name,
		Description: fn.Description,
	}
	for i, impl := range fn.Impls {
		variant, err := buildVariant(impl)
		if err != nil {
			warnings = append(warnings,
				fmt.Sprintf("%s: skipping impl %d of %s: %v", uri, i, fn.Name, err))
			continue
		}
		entry.Variants = append(entry.Variants, variant)
	}
	if len(entry.Variants) == 0 {
		warnings = append(warnings,
			fmt.Sprintf("%s: function %s has no usable implementations", uri, fn.Name))
		return nil, warnings
	}
	return entry, warnings
}

func buildVariant(impl implDoc) (*registry.Variant, error) {
	variant := &registry.Variant{}

	for _, arg := range impl.Args {
		if len(arg.Options) > 0 {
			variant.Args = append(variant.Args, registry.ArgumentSpec{
				Name:    arg.Name,
				Options: arg.Options,
			})
			continue
		}
		if arg.Value.raw == "" {
			return nil, fmt.Errorf("argument %q has neither a value type nor options", arg.Name)
		}
		argType, err := types.Parse(arg.Value.raw)
		if err != nil {
			return nil, err
		}
		variant.Args = append(variant.Args, registry.ArgumentSpec{
			Name: arg.Name,
			Type: argType,
		})
	}

	if impl.Variadic != nil {
		variant.Variadic = &registry.VariadicBehavior{
			Min: impl.Variadic.Min,
			Max: impl.Variadic.Max,
		}
	}

	mode, err := parseNullability(impl.Nullability)
	if err != nil {
		return nil, err
	}
	variant.Nullability = mode

	if impl.Return.raw == "" {
		return nil, fmt.Errorf("implementation has no return type")
	}
	ret, err := types.Parse(impl.Return.raw)
	if err != nil {
		return nil, err
	}
	variant.Return = ret
	return variant, nil
}

func parseNullability(raw string) (registry.NullabilityMode, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "MIRROR":
		return registry.NullabilityMirror, nil
	case "DECLARED_OUTPUT":
		return registry.NullabilityDeclaredOutput, nil
	case "DISCRETE":
		return registry.NullabilityDiscrete, nil
	}
	return 0, fmt.Errorf("unknown nullability handling %q", raw)
}
