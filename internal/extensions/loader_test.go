package extensions

import (
	"strings"
	"testing"

	"github.com/westonpace/substrait-expr/internal/registry"
)

const testURI = "https://example.com/functions_test.yaml"

const sampleDoc = `
scalar_functions:
  - name: add
    description: Add two values.
    impls:
      - args:
          - name: x
            value: i32
          - name: y
            value: i32
        return: i32
      - args:
          - name: x
            value: fp64
          - name: y
            value: fp64
        nullability: DECLARED_OUTPUT
        return: fp64?
  - name: concat
    impls:
      - args:
          - name: s
            value: string
        variadic:
          min: 0
        return: string
  - name: round
    impls:
      - args:
          - name: rounding
            options:
              - TIE_TO_EVEN
              - FLOOR
          - name: x
            value:
              value: fp64
        return:
          value: fp64
`

func TestLoad(t *testing.T) {
	result, err := Load(testURI, []byte(sampleDoc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("warnings: %v", result.Warnings)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("loaded %d entries, want 3", len(result.Entries))
	}

	store := registry.NewStore()
	if err := RegisterAll(store, result); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}

	add := store.Lookup(testURI, "add")
	if len(add) != 2 {
		t.Fatalf("add has %d variants, want 2", len(add))
	}
	if add[0].Anchor() != "add:i32_i32" {
		t.Errorf("anchor = %q, want add:i32_i32", add[0].Anchor())
	}
	if add[1].Nullability != registry.NullabilityDeclaredOutput {
		t.Errorf("nullability = %v, want DECLARED_OUTPUT", add[1].Nullability)
	}
	if !add[1].Return.IsNullable() {
		t.Error("declared return fp64? should parse as nullable")
	}

	concat := store.Lookup(testURI, "concat")[0]
	if !concat.IsVariadic() || concat.Variadic.Min != 0 {
		t.Errorf("concat variadic = %+v, want min 0", concat.Variadic)
	}

	round := store.Lookup(testURI, "round")[0]
	if !round.Args[0].IsEnum() {
		t.Error("rounding argument should be an enum")
	}
	if len(round.Args[0].Options) != 2 {
		t.Errorf("options = %v, want two", round.Args[0].Options)
	}
}

func TestLoadSkipsBadImpls(t *testing.T) {
	doc := `
scalar_functions:
  - name: mostly_fine
    impls:
      - args:
          - name: x
            value: i32
        return: i32
      - args:
          - name: x
            value: "not a type!"
        return: i32
  - name: hopeless
    impls:
      - args:
          - name: x
            value: "also not a type!"
        return: i32
`
	result, err := Load(testURI, []byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("loaded %d entries, want only the salvageable one", len(result.Entries))
	}
	if got := result.Entries[0].Name; got != "mostly_fine" {
		t.Errorf("entry = %q, want mostly_fine", got)
	}
	if len(result.Entries[0].Variants) != 1 {
		t.Errorf("variants = %d, want the bad impl skipped", len(result.Entries[0].Variants))
	}
	if len(result.Warnings) != 3 {
		t.Errorf("warnings = %v, want skip warnings for both bad impls plus the empty function", result.Warnings)
	}
	for _, w := range result.Warnings[:1] {
		if !strings.Contains(w, "mostly_fine") {
			t.Errorf("warning %q should name the function", w)
		}
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := Load(testURI, []byte("scalar_functions: [")); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestLoadAggregateAndWindowGroups(t *testing.T) {
	doc := `
aggregate_functions:
  - name: sum
    impls:
      - args:
          - name: x
            value: i64
        return: i64
window_functions:
  - name: row_number
    impls:
      - return: i64
`
	result, err := Load(testURI, []byte(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("loaded %d entries, want 2", len(result.Entries))
	}
}
