package registry

import (
	"errors"
	"testing"

	"github.com/westonpace/substrait-expr/pkg/types"
)

const testURI = "https://example.com/functions_test.yaml"

func entryWith(name string, variants ...*Variant) *FunctionEntry {
	return &FunctionEntry{URI: testURI, Name: name, Variants: variants}
}

func variant(ret string, args ...string) *Variant {
	v := &Variant{Return: types.MustParse(ret)}
	for i, a := range args {
		v.Args = append(v.Args, ArgumentSpec{
			Name: "arg" + string(rune('a'+i)),
			Type: types.MustParse(a),
		})
	}
	return v
}

func TestRegisterAndLookup(t *testing.T) {
	store := NewStore()
	if err := store.Register(entryWith("add",
		variant("i32", "i32", "i32"),
		variant("fp64", "fp64", "fp64"),
	)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	variants := store.Lookup(testURI, "add")
	if len(variants) != 2 {
		t.Fatalf("Lookup returned %d variants, want 2", len(variants))
	}
	if variants[0].Anchor() != "add:i32_i32" {
		t.Errorf("anchor = %q, want add:i32_i32", variants[0].Anchor())
	}
	if variants[1].Anchor() != "add:fp64_fp64" {
		t.Errorf("anchor = %q, want add:fp64_fp64", variants[1].Anchor())
	}
	if variants[0].Index() != 0 || variants[1].Index() != 1 {
		t.Errorf("indexes = %d, %d, want 0, 1", variants[0].Index(), variants[1].Index())
	}

	if got := store.Lookup(testURI, "subtract"); got != nil {
		t.Errorf("Lookup of unknown name = %v, want nil", got)
	}
	if got := store.Lookup("https://other.example.com", "add"); got != nil {
		t.Errorf("Lookup under wrong namespace = %v, want nil", got)
	}
}

func TestRegisterMergesSameName(t *testing.T) {
	store := NewStore()
	if err := store.Register(entryWith("add", variant("i32", "i32", "i32"))); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := store.Register(entryWith("add", variant("i64", "i64", "i64"))); err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if got := len(store.Lookup(testURI, "add")); got != 2 {
		t.Errorf("merged entry has %d variants, want 2", got)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d entries, want 1", store.Len())
	}
}

func TestRegisterDuplicatePattern(t *testing.T) {
	tests := []struct {
		name string
		a, b *Variant
		dup  bool
	}{
		{
			name: "identical concrete",
			a:    variant("i32", "i32", "i32"),
			b:    variant("i64", "i32", "i32"),
			dup:  true,
		},
		{
			name: "alpha-renamed class vars",
			a:    variant("any1", "any1", "any1"),
			b:    variant("any2", "any2", "any2"),
			dup:  true,
		},
		{
			name: "different variable structure",
			a:    variant("any1", "any1", "any1"),
			b:    variant("any1", "any1", "any2"),
			dup:  false,
		},
		{
			name: "alpha-renamed params",
			a:    variant("decimal<P,S>", "decimal<P,S>"),
			b:    variant("decimal<A,B>", "decimal<A,B>"),
			dup:  true,
		},
		{
			name: "bound versus free params",
			a:    variant("decimal<P,S>", "decimal<P,S>"),
			b:    variant("decimal<38,6>", "decimal<38,6>"),
			dup:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			if err := store.Register(entryWith("f", tt.a)); err != nil {
				t.Fatalf("first Register: %v", err)
			}
			err := store.Register(entryWith("f", tt.b))
			var dup *DuplicateDefinitionError
			if tt.dup && !errors.As(err, &dup) {
				t.Errorf("Register = %v, want DuplicateDefinitionError", err)
			}
			if !tt.dup && err != nil {
				t.Errorf("Register = %v, want success", err)
			}
		})
	}
}

func TestRegisterDiscreteNullabilityDistinguishes(t *testing.T) {
	discrete := func(ret string, args ...string) *Variant {
		v := variant(ret, args...)
		v.Nullability = NullabilityDiscrete
		return v
	}

	// Strict matching tells nullable and non-nullable arguments apart, so
	// DISCRETE variants differing only in declared nullability coexist.
	store := NewStore()
	if err := store.Register(entryWith("fill",
		discrete("i32", "i32?", "i32"),
		discrete("i32", "i32", "i32"),
	)); err != nil {
		t.Fatalf("Register of distinct DISCRETE variants: %v", err)
	}

	// Outside DISCRETE, matching ignores nullability, so the same pair is
	// indistinguishable.
	store = NewStore()
	err := store.Register(entryWith("fill",
		variant("i32", "i32?", "i32"),
		variant("i32", "i32", "i32"),
	))
	var dup *DuplicateDefinitionError
	if !errors.As(err, &dup) {
		t.Errorf("Register = %v, want DuplicateDefinitionError", err)
	}

	// A DISCRETE variant accepts a strict subset of what its MIRROR twin
	// accepts, so the two remain distinguishable.
	store = NewStore()
	if err := store.Register(entryWith("fill",
		variant("i32", "i32", "i32"),
		discrete("i32", "i32", "i32"),
	)); err != nil {
		t.Errorf("Register of MIRROR and DISCRETE twins: %v", err)
	}
}

func TestRegisterUnresolvableReturn(t *testing.T) {
	store := NewStore()
	err := store.Register(entryWith("broken", variant("any2", "any1")))
	var unresolvable *UnresolvableReturnTypeError
	if !errors.As(err, &unresolvable) {
		t.Fatalf("Register = %v, want UnresolvableReturnTypeError", err)
	}
	if unresolvable.Variable != "any2" {
		t.Errorf("variable = %q, want any2", unresolvable.Variable)
	}

	// A return parameter bound by an argument is fine.
	if err := store.Register(entryWith("ok", variant("decimal<P,S>", "decimal<P,S>"))); err != nil {
		t.Errorf("Register with bound return vars: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	store := NewStore()

	noReturn := &Variant{Args: []ArgumentSpec{{Name: "x", Type: types.MustParse("i32")}}}
	if err := store.Register(entryWith("f", noReturn)); err == nil {
		t.Error("variant without return type should fail")
	}

	badVariadic := variant("i64", "i64")
	badVariadic.Variadic = &VariadicBehavior{Min: 3, Max: 2}
	if err := store.Register(entryWith("g", badVariadic)); err == nil {
		t.Error("variadic max below min should fail")
	}

	if err := store.Register(&FunctionEntry{URI: testURI, Name: "h"}); err == nil {
		t.Error("entry without variants should fail")
	}
}

func TestAnchorCollisionGetsSuffix(t *testing.T) {
	// Two decimal overloads differ in bound parameters but share short names,
	// so the compound name collides while the patterns stay distinguishable.
	store := NewStore()
	if err := store.Register(entryWith("cast",
		variant("decimal<10,2>", "decimal<10,2>"),
		variant("decimal<38,6>", "decimal<38,6>"),
	)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	variants := store.Lookup(testURI, "cast")
	if variants[0].Anchor() != "cast:dec" {
		t.Errorf("first anchor = %q, want cast:dec", variants[0].Anchor())
	}
	if variants[1].Anchor() != "cast:dec#1" {
		t.Errorf("second anchor = %q, want cast:dec#1", variants[1].Anchor())
	}
}

func TestEnumSignatureRendersReq(t *testing.T) {
	store := NewStore()
	v := &Variant{
		Args: []ArgumentSpec{
			{Name: "rounding", Options: []string{"TIE_TO_EVEN", "FLOOR"}},
			{Name: "x", Type: types.MustParse("fp64")},
		},
		Return: types.MustParse("fp64"),
	}
	if err := store.Register(entryWith("round", v)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got := store.Lookup(testURI, "round")[0].Anchor()
	if got != "round:req_fp64" {
		t.Errorf("anchor = %q, want round:req_fp64", got)
	}
}

func TestFreeze(t *testing.T) {
	store := NewStore()
	if err := store.Register(entryWith("add", variant("i32", "i32", "i32"))); err != nil {
		t.Fatalf("Register: %v", err)
	}
	store.Freeze()
	if err := store.Register(entryWith("sub", variant("i32", "i32", "i32"))); err == nil {
		t.Error("Register after Freeze should fail")
	}
	if got := len(store.Lookup(testURI, "add")); got != 1 {
		t.Errorf("Lookup after Freeze returned %d variants, want 1", got)
	}
}

func TestEntriesOrdered(t *testing.T) {
	store := NewStore()
	otherURI := "https://a.example.com/functions.yaml"
	for _, name := range []string{"zebra", "add"} {
		if err := store.Register(entryWith(name, variant("i32", "i32"))); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}
	if err := store.Register(&FunctionEntry{
		URI: otherURI, Name: "mul", Variants: []*Variant{variant("i32", "i32", "i32")},
	}); err != nil {
		t.Fatalf("Register mul: %v", err)
	}

	entries := store.Entries()
	want := []QualifiedName{
		{URI: otherURI, Name: "mul"},
		{URI: testURI, Name: "add"},
		{URI: testURI, Name: "zebra"},
	}
	if len(entries) != len(want) {
		t.Fatalf("Entries returned %d, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.URI != want[i].URI || e.Name != want[i].Name {
			t.Errorf("entries[%d] = %s#%s, want %s", i, e.URI, e.Name, want[i])
		}
	}
}
