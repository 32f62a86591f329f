package resolver

import (
	"github.com/westonpace/substrait-expr/internal/registry"
	"github.com/westonpace/substrait-expr/pkg/types"
)

// Per-position specificity levels. A concrete declared type beats a
// parameterized type still containing free variables, which beats a bare
// class-var. (A level below specClass is reserved for matches that would
// need an implicit cast; the type model performs none today.)
const (
	specClass = iota + 1
	specTemplated
	specConcrete
)

// rank picks the most specific match or fails with AmbiguousSignatureError.
//
// Candidates are compared position-by-position across all call positions
// simultaneously: a candidate wins outright only if it dominates every other
// (at least as specific everywhere, strictly more specific somewhere).
// Among non-dominated candidates the one with fewer class-var positions
// wins; candidates with identical specificity at every position fall back to
// declaration order, a deterministic convention rather than a claim of best
// semantic fit. Anything else is ambiguous.
func rank(uri, name string, args []types.Type, matches []*Resolution) (*Resolution, error) {
	vectors := make([][]int, len(matches))
	for i, m := range matches {
		vectors[i] = specVector(m.Variant, len(args))
	}

	// Keep the candidates no other candidate dominates.
	var maximal []int
	for i := range matches {
		dominated := false
		for j := range matches {
			if i != j && dominates(vectors[j], vectors[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			maximal = append(maximal, i)
		}
	}
	if len(maximal) == 1 {
		return matches[maximal[0]], nil
	}

	// Tie-break (a): fewer class-var positions.
	best := make([]int, 0, len(maximal))
	bestCount := -1
	for _, i := range maximal {
		count := classVarPositions(vectors[i])
		switch {
		case bestCount == -1 || count < bestCount:
			bestCount = count
			best = best[:0]
			best = append(best, i)
		case count == bestCount:
			best = append(best, i)
		}
	}
	if len(best) == 1 {
		return matches[best[0]], nil
	}

	// Tie-break (b): identical specificity everywhere resolves to the
	// variant declared first. Incomparable vectors stay ambiguous.
	identical := true
	for _, i := range best[1:] {
		if !equalVectors(vectors[best[0]], vectors[i]) {
			identical = false
			break
		}
	}
	if identical {
		winner := best[0]
		for _, i := range best[1:] {
			if matches[i].Variant.Index() < matches[winner].Variant.Index() {
				winner = i
			}
		}
		return matches[winner], nil
	}

	anchors := make([]string, len(best))
	for i, idx := range best {
		anchors[i] = matches[idx].Variant.Anchor()
	}
	return nil, &AmbiguousSignatureError{
		URI:      uri,
		Name:     name,
		ArgTypes: types.FormatList(args),
		Anchors:  anchors,
	}
}

// specVector scores the declared spec governing each call position.
func specVector(v *registry.Variant, argCount int) []int {
	vec := make([]int, argCount)
	for i := 0; i < argCount; i++ {
		spec := specAt(v, i)
		vec[i] = specOf(spec)
	}
	return vec
}

func specOf(spec registry.ArgumentSpec) int {
	if spec.IsEnum() {
		return specConcrete
	}
	if _, ok := spec.Type.(types.ClassVar); ok {
		return specClass
	}
	if len(types.FreeVars(spec.Type)) > 0 {
		return specTemplated
	}
	return specConcrete
}

// dominates reports whether a is at least as specific as b at every position
// and strictly more specific at one.
func dominates(a, b []int) bool {
	strict := false
	for i := range a {
		if a[i] < b[i] {
			return false
		}
		if a[i] > b[i] {
			strict = true
		}
	}
	return strict
}

func classVarPositions(vec []int) int {
	count := 0
	for _, s := range vec {
		if s == specClass {
			count++
		}
	}
	return count
}

func equalVectors(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
