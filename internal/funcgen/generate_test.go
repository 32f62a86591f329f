package funcgen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/westonpace/substrait-expr/internal/registry"
	"github.com/westonpace/substrait-expr/internal/resolver"
	"github.com/westonpace/substrait-expr/pkg/types"
)

const testURI = "https://example.com/functions_test.yaml"

func buildStore(t *testing.T) *registry.Store {
	t.Helper()
	store := registry.NewStore()

	add := &registry.FunctionEntry{URI: testURI, Name: "add", Variants: []*registry.Variant{
		{
			Args: []registry.ArgumentSpec{
				{Name: "x", Type: types.MustParse("i32")},
				{Name: "y", Type: types.MustParse("i32")},
			},
			Return: types.MustParse("i32"),
		},
		{
			Args: []registry.ArgumentSpec{
				{Name: "x", Type: types.MustParse("fp64")},
				{Name: "y", Type: types.MustParse("fp64")},
			},
			Return: types.MustParse("fp64"),
		},
	}}
	concat := &registry.FunctionEntry{URI: testURI, Name: "concat", Variants: []*registry.Variant{
		{
			Args:     []registry.ArgumentSpec{{Name: "s", Type: types.MustParse("string")}},
			Variadic: &registry.VariadicBehavior{Min: 0},
			Return:   types.MustParse("string"),
		},
	}}
	cast := &registry.FunctionEntry{URI: testURI, Name: "cast_decimal", Variants: []*registry.Variant{
		{
			Args:   []registry.ArgumentSpec{{Name: "x", Type: types.MustParse("decimal<P,S>")}},
			Return: types.MustParse("decimal<P,S>"),
		},
	}}

	for _, entry := range []*registry.FunctionEntry{add, concat, cast} {
		if err := store.Register(entry); err != nil {
			t.Fatalf("Register %s: %v", entry.Name, err)
		}
	}
	store.Freeze()
	return store
}

func defByName(t *testing.T, mod Module, goName string) BuilderDef {
	t.Helper()
	for _, def := range mod.Defs {
		if def.GoName == goName {
			return def
		}
	}
	t.Fatalf("no definition named %s in %s", goName, mod.URI)
	return BuilderDef{}
}

func TestGenerate(t *testing.T) {
	modules, err := Generate(buildStore(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(modules) != 1 {
		t.Fatalf("generated %d modules, want 1", len(modules))
	}
	mod := modules[0]
	if mod.Name != "functions_testgen" {
		t.Errorf("module name = %q, want functions_testgen", mod.Name)
	}
	if len(mod.Defs) != 4 {
		t.Fatalf("generated %d definitions, want 4", len(mod.Defs))
	}

	addI32 := defByName(t, mod, "AddI32I32")
	if addI32.Generic {
		t.Error("AddI32I32 should be concrete")
	}
	if addI32.Anchor != "add:i32_i32" {
		t.Errorf("anchor = %q, want add:i32_i32", addI32.Anchor)
	}
	if len(addI32.Params) != 2 || addI32.Params[0].Name != "x" || addI32.Params[1].Name != "y" {
		t.Errorf("params = %+v, want x and y", addI32.Params)
	}

	defByName(t, mod, "AddFp64Fp64")

	concat := defByName(t, mod, "Concat")
	if !concat.Variadic {
		t.Error("Concat should be variadic")
	}
	if len(concat.Params) != 0 {
		t.Errorf("params = %+v, want none before the variadic tail", concat.Params)
	}

	cast := defByName(t, mod, "CastDecimal")
	if !cast.Generic {
		t.Error("CastDecimal carries free parameters and should be generic")
	}
}

func TestGenerateNaming(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "add", want: "Add"},
		{input: "is_not_distinct_from", want: "IsNotDistinctFrom"},
		{input: "extract", want: "Extract"},
		{input: "char_length", want: "CharLength"},
	}
	for _, tt := range tests {
		if got := exportedName(tt.input); got != tt.want {
			t.Errorf("exportedName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	suffixes := []struct {
		anchor string
		want   string
	}{
		{anchor: "add:i32_i32", want: "I32I32"},
		{anchor: "round:req_fp64", want: "ReqFp64"},
		{anchor: "cast:dec#1", want: "DecV1"},
	}
	for _, tt := range suffixes {
		if got := anchorSuffix(tt.anchor); got != tt.want {
			t.Errorf("anchorSuffix(%q) = %q, want %q", tt.anchor, got, tt.want)
		}
	}
}

func TestGenerateRejectsCrossNamespaceCollision(t *testing.T) {
	// All modules render into one output package, so a function name shared
	// by two namespaces would emit two files both defining the same Go
	// function.
	store := registry.NewStore()
	entries := []*registry.FunctionEntry{
		{URI: "https://example.com/functions_a.yaml", Name: "add", Variants: []*registry.Variant{
			{
				Args: []registry.ArgumentSpec{
					{Name: "x", Type: types.MustParse("i32")},
					{Name: "y", Type: types.MustParse("i32")},
				},
				Return: types.MustParse("i32"),
			},
		}},
		{URI: "https://example.com/functions_b.yaml", Name: "add", Variants: []*registry.Variant{
			{
				Args: []registry.ArgumentSpec{
					{Name: "x", Type: types.MustParse("decimal<P,S>")},
					{Name: "y", Type: types.MustParse("decimal<P,S>")},
				},
				Return: types.MustParse("decimal<P,S>"),
			},
		}},
	}
	for _, entry := range entries {
		if err := store.Register(entry); err != nil {
			t.Fatalf("Register %s: %v", entry.URI, err)
		}
	}
	store.Freeze()

	_, err := Generate(store)
	if err == nil {
		t.Fatal("two namespaces both generating Add should fail the run")
	}
	if !strings.Contains(err.Error(), "Add") {
		t.Errorf("error %q should name the colliding entry point", err)
	}
}

func TestGenerateModuleNames(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{uri: "https://example.com/functions_arithmetic.yaml", want: "functions_arithmetic"},
		{uri: "https://example.com/Functions-String.yaml", want: "functions_string"},
		{uri: "urn:example", want: "urn_example"},
		// A bare _test stem would render a file the build treats as a test
		// file and drops from the output package.
		{uri: "https://example.com/functions_test.yaml", want: "functions_testgen"},
	}
	for _, tt := range tests {
		if got := moduleName(tt.uri); got != tt.want {
			t.Errorf("moduleName(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	store := buildStore(t)
	modules, err := Generate(store)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	first, err := Render(modules, Options{Package: "functions"})
	if err != nil {
		t.Fatalf("first Render: %v", err)
	}

	modules, err = Generate(store)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	second, err := Render(modules, Options{Package: "functions"})
	if err != nil {
		t.Fatalf("second Render: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("file counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Filename != second[i].Filename {
			t.Errorf("filenames differ: %q vs %q", first[i].Filename, second[i].Filename)
		}
		if !bytes.Equal(first[i].Content, second[i].Content) {
			t.Errorf("%s: repeated rendering is not byte-identical", first[i].Filename)
		}
	}
}

func TestRenderContent(t *testing.T) {
	modules, err := Generate(buildStore(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	files, err := Render(modules, Options{Package: "functions"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("rendered %d files, want 1", len(files))
	}
	if files[0].Filename != "functions_testgen.go" {
		t.Errorf("filename = %q, want functions_testgen.go", files[0].Filename)
	}

	content := string(files[0].Content)
	for _, want := range []string{
		"// Code generated by funcgen. DO NOT EDIT.",
		"Store fingerprint: " + Fingerprint(modules),
		"package functions",
		`"add:i32_i32"`,
		"func AddI32I32(b *expr.Builder, x expr.Expression, y expr.Expression) (expr.Expression, error)",
		"func Concat(b *expr.Builder, rest ...expr.Expression) (expr.Expression, error)",
		// Generic entry points resolve at the call site instead of pinning
		// an anchor.
		`b.Call(functionsTestgenURI, "cast_decimal", x)`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("generated file missing %q\n%s", want, content)
		}
	}
}

func TestFingerprintTracksStore(t *testing.T) {
	store := buildStore(t)
	modules, err := Generate(store)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	base := Fingerprint(modules)
	if again := Fingerprint(modules); again != base {
		t.Errorf("fingerprint not stable: %s vs %s", base, again)
	}

	bigger := registry.NewStore()
	for _, entry := range store.Entries() {
		if err := bigger.Register(entry); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	if err := bigger.Register(&registry.FunctionEntry{
		URI: testURI, Name: "subtract", Variants: []*registry.Variant{
			{
				Args: []registry.ArgumentSpec{
					{Name: "x", Type: types.MustParse("i32")},
					{Name: "y", Type: types.MustParse("i32")},
				},
				Return: types.MustParse("i32"),
			},
		},
	}); err != nil {
		t.Fatalf("Register subtract: %v", err)
	}
	biggerModules, err := Generate(bigger)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if Fingerprint(biggerModules) == base {
		t.Error("fingerprint should change when the registered signatures change")
	}
}

func TestGeneratedDefsRoundTrip(t *testing.T) {
	store := buildStore(t)
	modules, err := Generate(store)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, def := range modules[0].Defs {
		if def.Generic || def.Variadic {
			continue
		}
		args := make([]types.Type, len(def.Params))
		for i, p := range def.Params {
			args[i] = types.MustParse(p.Type)
		}
		res, err := resolver.Resolve(store, def.URI, def.FuncName, args)
		if err != nil {
			t.Errorf("%s: declared argument types do not resolve: %v", def.GoName, err)
			continue
		}
		if res.Variant.Anchor() != def.Anchor {
			t.Errorf("%s: resolved to %s, want the originating variant %s",
				def.GoName, res.Variant.Anchor(), def.Anchor)
		}
	}
}
