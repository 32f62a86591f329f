// Package registry implements the signature store: the immutable catalog of
// extension function variants that resolution and code generation run
// against. The store is populated once from loaded extension documents and
// is safe for concurrent lookup afterwards.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/westonpace/substrait-expr/pkg/types"
)

// NullabilityMode controls how a variant treats argument and return
// nullability.
type NullabilityMode int

const (
	// NullabilityMirror accepts arguments of either nullability and makes
	// the return type nullable iff any argument is nullable. This is the
	// default for extension documents.
	NullabilityMirror NullabilityMode = iota
	// NullabilityDeclaredOutput accepts arguments of either nullability and
	// returns exactly the declared return nullability.
	NullabilityDeclaredOutput
	// NullabilityDiscrete enforces the declared nullability of every
	// argument and the return exactly.
	NullabilityDiscrete
)

func (m NullabilityMode) String() string {
	switch m {
	case NullabilityMirror:
		return "MIRROR"
	case NullabilityDeclaredOutput:
		return "DECLARED_OUTPUT"
	case NullabilityDiscrete:
		return "DISCRETE"
	}
	return fmt.Sprintf("nullability(%d)", int(m))
}

// ArgumentSpec describes one declared argument position. An argument is
// either a value argument with a declared type (possibly containing
// class-vars) or an enum argument restricted to a closed set of string
// options.
type ArgumentSpec struct {
	// Name is the documented argument name. Consumers do not depend on it.
	Name string
	// Type is the declared type of a value argument. Nil for enum arguments.
	Type types.Type
	// Options is the closed set of accepted values for an enum argument.
	Options []string
}

// IsEnum reports whether the argument is an enum option argument.
func (a ArgumentSpec) IsEnum() bool {
	return len(a.Options) > 0
}

func (a ArgumentSpec) String() string {
	if a.IsEnum() {
		return "[" + strings.Join(a.Options, "|") + "]"
	}
	return a.Type.String()
}

// VariadicBehavior bounds how many times a variant's trailing argument spec
// may repeat at the call site.
type VariadicBehavior struct {
	Min int
	// Max of zero means unbounded.
	Max int
}

// Variant is one overload of an extension function: an ordered argument
// pattern, a return type expression over the same class-vars, and a stable
// anchor assigned at registration.
type Variant struct {
	Args []ArgumentSpec
	// Variadic, when non-nil, marks the last argument spec as the tail of a
	// variadic repetition.
	Variadic    *VariadicBehavior
	Return      types.Type
	Nullability NullabilityMode
	Description string

	anchor string
	uri    string
	name   string
	index  int
}

// Anchor returns the variant's stable identifier, a Substrait compound
// signature name such as "add:i32_i32". Assigned during registration.
func (v *Variant) Anchor() string { return v.anchor }

// URI returns the namespace of the owning function entry.
func (v *Variant) URI() string { return v.uri }

// Name returns the simple function name of the owning entry.
func (v *Variant) Name() string { return v.name }

// Index returns the declaration position of the variant within its entry.
// Used as a deterministic tie-break, by convention only.
func (v *Variant) Index() int { return v.index }

// IsVariadic reports whether the variant has a trailing variadic spec.
func (v *Variant) IsVariadic() bool { return v.Variadic != nil }

// Signature renders the declared argument pattern and return type for
// error messages, e.g. "(i32, i32) -> i32".
func (v *Variant) Signature() string {
	parts := make([]string, len(v.Args))
	for i, a := range v.Args {
		parts[i] = a.String()
	}
	if v.IsVariadic() && len(parts) > 0 {
		parts[len(parts)-1] += "..."
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), v.Return)
}

// FunctionEntry is the declared variant list for one (namespace, name).
type FunctionEntry struct {
	// URI is the namespace the function was declared in, normally the URI
	// of the extension document itself.
	URI         string
	Name        string
	Description string
	Variants    []*Variant
}

// Store holds registered function entries keyed by (namespace, name). It is
// built once during initialization and frozen before any concurrent use;
// lookups never mutate it.
type Store struct {
	entries map[string]*FunctionEntry
	frozen  bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*FunctionEntry)}
}

func storeKey(uri, name string) string {
	return uri + "#" + name
}

// Register inserts a function entry. Entries for an already-known
// (namespace, name) are merged variant-by-variant. Registration fails with
// DuplicateDefinitionError when a new variant's argument pattern is
// indistinguishable from an already-registered one, and with
// UnresolvableReturnTypeError when a return-type class-var has no binding
// source among the arguments.
func (s *Store) Register(entry *FunctionEntry) error {
	if s.frozen {
		return fmt.Errorf("registering %s#%s: store is frozen", entry.URI, entry.Name)
	}
	if entry.Name == "" {
		return fmt.Errorf("registering entry from %s: function name is empty", entry.URI)
	}
	if len(entry.Variants) == 0 {
		return fmt.Errorf("registering %s#%s: entry has no variants", entry.URI, entry.Name)
	}

	key := storeKey(entry.URI, entry.Name)
	existing, ok := s.entries[key]
	if !ok {
		existing = &FunctionEntry{URI: entry.URI, Name: entry.Name, Description: entry.Description}
		s.entries[key] = existing
	}

	patterns := make(map[string]string) // canonical pattern -> anchor
	anchors := make(map[string]bool)
	for _, v := range existing.Variants {
		patterns[canonicalPattern(v)] = v.anchor
		anchors[v.anchor] = true
	}

	for _, v := range entry.Variants {
		if err := validateVariant(entry, v); err != nil {
			return err
		}

		v.uri = entry.URI
		v.name = entry.Name
		v.index = len(existing.Variants)
		v.anchor = compoundName(entry.Name, v)
		// Distinguishable variants can still share a compound name (e.g.
		// two decimal overloads differing only in bound parameters); keep
		// anchors unique within the entry.
		if anchors[v.anchor] {
			v.anchor = fmt.Sprintf("%s#%d", v.anchor, v.index)
		}

		pattern := canonicalPattern(v)
		if prior, dup := patterns[pattern]; dup {
			return &DuplicateDefinitionError{
				URI:      entry.URI,
				Name:     entry.Name,
				Anchor:   v.anchor,
				Existing: prior,
			}
		}
		patterns[pattern] = v.anchor
		anchors[v.anchor] = true
		existing.Variants = append(existing.Variants, v)
	}
	return nil
}

// Freeze marks the end of the initialization phase. Further registration
// fails; lookups are safe for concurrent use.
func (s *Store) Freeze() {
	s.frozen = true
}

// Lookup returns the declared variants for (namespace, name), in declaration
// order. An unknown function returns an empty result, not an error;
// reporting UnknownFunction is the resolver's job.
func (s *Store) Lookup(uri, name string) []*Variant {
	entry, ok := s.entries[storeKey(uri, name)]
	if !ok {
		return nil
	}
	return entry.Variants
}

// Entries returns every registered entry ordered by (namespace, name), for
// deterministic iteration by the generator.
func (s *Store) Entries() []*FunctionEntry {
	entries := make([]*FunctionEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].URI != entries[j].URI {
			return entries[i].URI < entries[j].URI
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Len returns the number of registered entries.
func (s *Store) Len() int {
	return len(s.entries)
}

func validateVariant(entry *FunctionEntry, v *Variant) error {
	if len(v.Args) == 0 && v.IsVariadic() {
		return fmt.Errorf("registering %s#%s: variadic variant has no argument specs", entry.URI, entry.Name)
	}
	if v.IsVariadic() {
		last := v.Args[len(v.Args)-1]
		if last.IsEnum() {
			return fmt.Errorf("registering %s#%s: variadic tail cannot be an enum argument", entry.URI, entry.Name)
		}
		if v.Variadic.Max > 0 && v.Variadic.Max < v.Variadic.Min {
			return fmt.Errorf("registering %s#%s: variadic max %d is below min %d",
				entry.URI, entry.Name, v.Variadic.Max, v.Variadic.Min)
		}
	}
	for i, a := range v.Args {
		if a.IsEnum() {
			continue
		}
		if a.Type == nil {
			return fmt.Errorf("registering %s#%s: argument %d has neither a type nor options",
				entry.URI, entry.Name, i)
		}
	}
	if v.Return == nil {
		return fmt.Errorf("registering %s#%s: variant has no return type", entry.URI, entry.Name)
	}

	// Every class-var and parameter variable in the return type needs a
	// binding source in some argument position, or the variant could never
	// produce a concrete return type.
	bound := make(map[string]bool)
	for _, a := range v.Args {
		if a.IsEnum() {
			continue
		}
		for _, name := range types.FreeVars(a.Type) {
			bound[name] = true
		}
	}
	for _, name := range types.FreeVars(v.Return) {
		if !bound[name] {
			return &UnresolvableReturnTypeError{
				URI:      entry.URI,
				Name:     entry.Name,
				Variable: name,
				Return:   v.Return.String(),
			}
		}
	}
	return nil
}

// compoundName renders the Substrait compound signature name for a variant:
// the function name, a colon, and the short names of the argument types.
// Variadic tails are listed once; enum arguments render as "req".
func compoundName(name string, v *Variant) string {
	parts := make([]string, len(v.Args))
	for i, a := range v.Args {
		if a.IsEnum() {
			parts[i] = "req"
			continue
		}
		parts[i] = a.Type.ShortName()
	}
	return name + ":" + strings.Join(parts, "_")
}

// canonicalPattern renders an argument pattern with class-vars and parameter
// variables alpha-renamed by first occurrence. Two variants with equal
// canonical patterns are indistinguishable for every possible input, which
// the data model forbids. Under DISCRETE nullability handling, matching is
// strict about nullable flags, so the pattern keeps them; other modes ignore
// nullability while matching and the pattern drops it.
func canonicalPattern(v *Variant) string {
	strict := v.Nullability == NullabilityDiscrete
	classIdx := make(map[string]int)
	paramIdx := make(map[string]int)
	parts := make([]string, 0, len(v.Args)+2)
	for _, a := range v.Args {
		if a.IsEnum() {
			parts = append(parts, "enum["+strings.Join(a.Options, "|")+"]")
			continue
		}
		parts = append(parts, canonicalType(a.Type, classIdx, paramIdx, strict))
	}
	if v.IsVariadic() {
		parts = append(parts, fmt.Sprintf("...%d", v.Variadic.Min))
		if v.Variadic.Max > 0 {
			parts = append(parts, fmt.Sprintf("..<%d", v.Variadic.Max))
		}
	}
	if strict {
		parts = append(parts, "!discrete")
	}
	return strings.Join(parts, ",")
}

func canonicalType(t types.Type, classIdx, paramIdx map[string]int, strict bool) string {
	canonParam := func(p types.IntParam) string {
		if !p.IsVar() {
			return p.String()
		}
		idx, ok := paramIdx[p.Var]
		if !ok {
			idx = len(paramIdx)
			paramIdx[p.Var] = idx
		}
		return fmt.Sprintf("#%d", idx)
	}
	var rendered string
	switch v := t.(type) {
	case types.ClassVar:
		idx, ok := classIdx[v.Name]
		if !ok {
			idx = len(classIdx)
			classIdx[v.Name] = idx
		}
		base := strings.ToLower(strings.TrimRight(v.Name, "0123456789"))
		rendered = fmt.Sprintf("%s$%d", base, idx)
	case types.FixedChar:
		rendered = "fchar<" + canonParam(v.Length) + ">"
	case types.VarChar:
		rendered = "vchar<" + canonParam(v.Length) + ">"
	case types.FixedBinary:
		rendered = "fbin<" + canonParam(v.Length) + ">"
	case types.Decimal:
		rendered = "dec<" + canonParam(v.Precision) + "," + canonParam(v.Scale) + ">"
	case types.List:
		rendered = "list<" + canonicalType(v.Elem, classIdx, paramIdx, strict) + ">"
	case types.Map:
		rendered = "map<" + canonicalType(v.Key, classIdx, paramIdx, strict) + "," +
			canonicalType(v.Value, classIdx, paramIdx, strict) + ">"
	case types.Struct:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = canonicalType(f, classIdx, paramIdx, strict)
		}
		rendered = "struct<" + strings.Join(fields, ",") + ">"
	default:
		rendered = t.WithNullable(false).String()
	}
	if strict && t.IsNullable() {
		rendered += "?"
	}
	return rendered
}
