package expr

import (
	"fmt"

	"github.com/westonpace/substrait-expr/internal/registry"
	"github.com/westonpace/substrait-expr/internal/resolver"
	"github.com/westonpace/substrait-expr/pkg/types"
)

// Builder constructs scalar function call expressions against a frozen
// signature store. Generated builder entry points funnel through Call and
// CallVariant; both re-derive the return type from the actual argument
// types, so supplying incompatible arguments fails here, at construction
// time.
type Builder struct {
	store   *registry.Store
	anchors *registry.AnchorRegistry
}

// NewBuilder creates a builder over a populated store with a fresh anchor
// registry for the plan under construction.
func NewBuilder(store *registry.Store) *Builder {
	return &Builder{store: store, anchors: registry.NewAnchorRegistry()}
}

// Anchors exposes the plan's anchor registry for serialization.
func (b *Builder) Anchors() *registry.AnchorRegistry {
	return b.anchors
}

// Call resolves (uri, name) against the argument expressions' output types
// and builds the call node. Generated entry points for templated variants
// use this, deferring concrete-type resolution to the call site.
func (b *Builder) Call(uri, name string, args ...Expression) (Expression, error) {
	res, err := resolver.Resolve(b.store, uri, name, outputTypes(args))
	if err != nil {
		return nil, err
	}
	return b.build(res, args)
}

// CallVariant builds a call against one specific variant identified by its
// anchor. Generated entry points for fully concrete variants use this.
func (b *Builder) CallVariant(uri, name, anchor string, args ...Expression) (Expression, error) {
	variant := b.findVariant(uri, name, anchor)
	if variant == nil {
		return nil, fmt.Errorf("building call to %s#%s: no variant with anchor %s", uri, name, anchor)
	}
	res, err := resolver.ResolveVariant(variant, outputTypes(args))
	if err != nil {
		return nil, err
	}
	return b.build(res, args)
}

func (b *Builder) findVariant(uri, name, anchor string) *registry.Variant {
	for _, v := range b.store.Lookup(uri, name) {
		if v.Anchor() == anchor {
			return v
		}
	}
	return nil
}

// build converts a resolution plus the original argument expressions into a
// call node, validating enum option arguments against their declared value
// sets.
func (b *Builder) build(res *resolver.Resolution, args []Expression) (Expression, error) {
	variant := res.Variant
	callArgs := make([]Argument, len(args))
	for i, arg := range args {
		spec := variant.Args[min(i, len(variant.Args)-1)]
		if !spec.IsEnum() {
			callArgs[i] = Argument{Value: arg}
			continue
		}
		option, err := enumOption(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %s of %s: %w", spec.Name, variant.Anchor(), err)
		}
		if !contains(spec.Options, option) {
			return nil, fmt.Errorf("argument %s of %s: %q is not one of the declared options",
				spec.Name, variant.Anchor(), option)
		}
		callArgs[i] = Argument{Enum: option}
	}

	return ScalarCall{
		URI:         variant.URI(),
		Name:        variant.Name(),
		Anchor:      variant.Anchor(),
		FunctionRef: b.anchors.RegisterFunction(variant.URI(), variant.Name()),
		Args:        callArgs,
		Type:        res.ReturnType,
	}, nil
}

// enumOption extracts the option string for an enum argument, which must be
// supplied as a string literal.
func enumOption(arg Expression) (string, error) {
	lit, ok := arg.(Literal)
	if !ok {
		return "", fmt.Errorf("enum arguments require a string literal, got %s", arg)
	}
	s, ok := lit.Value.(string)
	if !ok {
		return "", fmt.Errorf("enum arguments require a string literal, got %s of type %s", arg, lit.Type)
	}
	return s, nil
}

func outputTypes(args []Expression) []types.Type {
	argTypes := make([]types.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.OutputType()
	}
	return argTypes
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
