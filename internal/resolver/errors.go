package resolver

import (
	"fmt"
	"strings"
)

// UnknownFunctionError reports a resolution against a name with no entry in
// the store.
type UnknownFunctionError struct {
	URI  string
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %s#%s", e.URI, e.Name)
}

// NoMatchingSignatureError reports that the function exists but no variant's
// argument pattern matches the attempted argument types. The declared
// candidates are included so the failure can be diagnosed without re-running
// resolution.
type NoMatchingSignatureError struct {
	URI        string
	Name       string
	ArgTypes   string
	Candidates []string
}

func (e *NoMatchingSignatureError) Error() string {
	return fmt.Sprintf("no variant of %s#%s matches arguments (%s); declared variants:\n  %s",
		e.URI, e.Name, e.ArgTypes, strings.Join(e.Candidates, "\n  "))
}

// AmbiguousSignatureError reports two or more matching variants that remain
// equally specific after ranking.
type AmbiguousSignatureError struct {
	URI      string
	Name     string
	ArgTypes string
	Anchors  []string
}

func (e *AmbiguousSignatureError) Error() string {
	return fmt.Sprintf("ambiguous call to %s#%s with arguments (%s): %s are equally specific",
		e.URI, e.Name, e.ArgTypes, strings.Join(e.Anchors, ", "))
}
