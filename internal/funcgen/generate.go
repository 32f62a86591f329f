// Package funcgen turns a populated signature store into typed builder
// entry points: one constructible Go function per registered variant.
//
// Generation happens in two passes. Generate walks the store and produces
// language-neutral builder definitions; Render turns those definitions into
// formatted Go source. Both passes are deterministic, so running the
// generator twice over an unchanged store yields byte-identical output.
package funcgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/westonpace/substrait-expr/internal/registry"
	"github.com/westonpace/substrait-expr/pkg/types"
)

// ParamDef is one fixed parameter of a builder entry point.
type ParamDef struct {
	// Name is a valid Go parameter name derived from the declared argument
	// name.
	Name string
	// Type is the declared argument type (or the option list for enum
	// arguments), rendered for documentation.
	Type string
}

// BuilderDef describes one builder entry point to emit: the variant anchor
// it references, its parameter list, and its return-type expression.
type BuilderDef struct {
	URI      string
	FuncName string
	// GoName is the exported Go identifier for the entry point, unique
	// within the module.
	GoName string
	Anchor string
	Params []ParamDef
	// Variadic adds a trailing ...expr.Expression parameter covering the
	// repeating tail.
	Variadic bool
	// Generic marks variants whose argument specs contain class-vars or
	// free parameters. Generic entry points accept any argument types
	// satisfying the declared constraints and re-derive the return type by
	// resolving at the call site.
	Generic bool
	// Return is the declared return type expression, rendered for
	// documentation.
	Return string
	// Signature is the variant's declared signature, for the doc comment.
	Signature string
}

// Module is the set of builder definitions generated from one extension
// namespace, emitted as one Go source file.
type Module struct {
	// Name is the file stem, derived from the last path segment of the URI.
	Name string
	URI  string
	Defs []BuilderDef
}

// Generate walks every entry in the store and produces one builder
// definition per variant, grouped by namespace. Any inconsistency (a name
// that cannot be rendered, a collision between generated identifiers) fails
// the whole run; generated code must be complete and internally consistent,
// so per-entry skipping is not an option.
func Generate(store *registry.Store) ([]Module, error) {
	byURI := make(map[string]*Module)
	var uris []string

	for _, entry := range store.Entries() {
		mod, ok := byURI[entry.URI]
		if !ok {
			mod = &Module{Name: moduleName(entry.URI), URI: entry.URI}
			byURI[entry.URI] = mod
			uris = append(uris, entry.URI)
		}
		defs, err := entryDefs(entry)
		if err != nil {
			return nil, err
		}
		mod.Defs = append(mod.Defs, defs...)
	}

	sort.Strings(uris)
	modules := make([]Module, 0, len(uris))
	seenNames := make(map[string]string) // module name -> uri
	// Every module renders into the same output package, so entry point
	// names must be unique across all namespaces, not just within one.
	seenDefs := make(map[string]string) // go name -> uri#anchor
	for _, uri := range uris {
		mod := byURI[uri]
		if prior, dup := seenNames[mod.Name]; dup {
			return nil, fmt.Errorf("generating %s: module name %q collides with %s", uri, mod.Name, prior)
		}
		seenNames[mod.Name] = uri
		for _, def := range mod.Defs {
			key := def.URI + "#" + def.Anchor
			if prior, dup := seenDefs[def.GoName]; dup {
				return nil, fmt.Errorf("generating %s: entry point %s for %s collides with %s in the shared output package",
					uri, def.GoName, key, prior)
			}
			seenDefs[def.GoName] = key
		}
		modules = append(modules, *mod)
	}
	return modules, nil
}

func entryDefs(entry *registry.FunctionEntry) ([]BuilderDef, error) {
	defs := make([]BuilderDef, 0, len(entry.Variants))
	base := exportedName(entry.Name)
	if base == "" {
		return nil, fmt.Errorf("generating %s#%s: name yields no Go identifier", entry.URI, entry.Name)
	}

	for _, v := range entry.Variants {
		goName := base
		if len(entry.Variants) > 1 {
			goName = base + anchorSuffix(v.Anchor())
		}

		def := BuilderDef{
			URI:       entry.URI,
			FuncName:  entry.Name,
			GoName:    goName,
			Anchor:    v.Anchor(),
			Variadic:  v.IsVariadic(),
			Generic:   isGeneric(v),
			Return:    v.Return.String(),
			Signature: v.Signature(),
		}

		fixed := len(v.Args)
		if v.IsVariadic() {
			fixed--
		}
		used := map[string]bool{"b": true, "rest": true, "args": true}
		for i := 0; i < fixed; i++ {
			def.Params = append(def.Params, ParamDef{
				Name: paramName(v.Args[i].Name, i, used),
				Type: v.Args[i].String(),
			})
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// isGeneric reports whether any argument spec still contains free variables,
// in which case the emitted entry point defers resolution to the call site.
func isGeneric(v *registry.Variant) bool {
	for _, a := range v.Args {
		if a.IsEnum() {
			continue
		}
		if len(types.FreeVars(a.Type)) > 0 {
			return true
		}
	}
	return false
}

// moduleName derives a file stem from the extension URI: the last path
// segment with its extension dropped and non-identifier characters folded
// to underscores.
func moduleName(uri string) string {
	segment := uri
	if idx := strings.LastIndex(segment, "/"); idx >= 0 {
		segment = segment[idx+1:]
	}
	if idx := strings.Index(segment, "."); idx >= 0 {
		segment = segment[:idx]
	}
	var b strings.Builder
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "functions"
	}
	// A *_test.go filename would be excluded from the output package's
	// regular build.
	if strings.HasSuffix(name, "_test") {
		name += "gen"
	}
	return name
}

// exportedName converts a function or argument name to an exported Go
// identifier: "is_not_distinct_from" -> "IsNotDistinctFrom".
func exportedName(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			upperNext = true
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			upperNext = true
		case upperNext && r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
			upperNext = false
		case !upperNext && r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			b.WriteRune(r)
			upperNext = false
		}
	}
	return b.String()
}

// anchorSuffix renders the signature half of a compound name as an
// identifier suffix: "add:i32_i32" -> "I32I32".
func anchorSuffix(anchor string) string {
	sig := anchor
	if idx := strings.Index(sig, ":"); idx >= 0 {
		sig = sig[idx+1:]
	}
	sig = strings.ReplaceAll(sig, "#", "_v")
	if sig == "" {
		return "Niladic"
	}
	return exportedName(strings.ReplaceAll(sig, "_", " "))
}

// paramName derives a Go parameter name from the declared argument name,
// falling back to positional names and deduplicating within the variant.
func paramName(declared string, index int, used map[string]bool) string {
	name := lowerCamel(declared)
	if name == "" {
		name = fmt.Sprintf("arg%d", index)
	}
	for used[name] {
		name = fmt.Sprintf("%s%d", name, index)
	}
	used[name] = true
	return name
}

func lowerCamel(name string) string {
	exported := exportedName(name)
	if exported == "" {
		return ""
	}
	runes := []rune(exported)
	if runes[0] >= 'A' && runes[0] <= 'Z' {
		runes[0] += 'a' - 'A'
	}
	candidate := string(runes)
	if goReserved[candidate] {
		candidate += "Arg"
	}
	return candidate
}

var goReserved = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}
