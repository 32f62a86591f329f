package registry

import "sync"

// QualifiedName pairs an extension URI with a simple name.
type QualifiedName struct {
	URI  string
	Name string
}

func (q QualifiedName) String() string {
	return q.URI + "#" + q.Name
}

// AnchorRegistry tracks the numeric anchors a serialized plan uses in place
// of uri/name pairs. Anchors are handed out from a counter starting at 1;
// registering the same qualified name twice returns the same anchor.
//
// Unlike the signature store, the anchor registry stays mutable for the
// lifetime of a plan under construction, so all access goes through a
// RWMutex.
type AnchorRegistry struct {
	mu               sync.RWMutex
	functions        map[QualifiedName]uint32
	functionsInverse map[uint32]QualifiedName
	types            map[QualifiedName]uint32
	typesInverse     map[uint32]QualifiedName
	counter          uint32
}

// NewAnchorRegistry creates an empty anchor registry.
func NewAnchorRegistry() *AnchorRegistry {
	return &AnchorRegistry{
		functions:        make(map[QualifiedName]uint32),
		functionsInverse: make(map[uint32]QualifiedName),
		types:            make(map[QualifiedName]uint32),
		typesInverse:     make(map[uint32]QualifiedName),
		counter:          1,
	}
}

// RegisterFunction returns the anchor for a function, assigning a new one on
// first registration.
func (r *AnchorRegistry) RegisterFunction(uri, name string) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return register(QualifiedName{URI: uri, Name: name}, r.functions, r.functionsInverse, &r.counter)
}

// RegisterType returns the anchor for a user-defined type, assigning a new
// one on first registration.
func (r *AnchorRegistry) RegisterType(uri, name string) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return register(QualifiedName{URI: uri, Name: name}, r.types, r.typesInverse, &r.counter)
}

// LookupFunction returns the qualified name for a function anchor.
func (r *AnchorRegistry) LookupFunction(anchor uint32) (QualifiedName, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.functionsInverse[anchor]
	return q, ok
}

// LookupType returns the qualified name for a type anchor.
func (r *AnchorRegistry) LookupType(anchor uint32) (QualifiedName, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.typesInverse[anchor]
	return q, ok
}

func register(q QualifiedName, forward map[QualifiedName]uint32, inverse map[uint32]QualifiedName, counter *uint32) uint32 {
	if anchor, ok := forward[q]; ok {
		return anchor
	}
	anchor := *counter
	*counter++
	forward[q] = anchor
	inverse[anchor] = q
	return anchor
}
