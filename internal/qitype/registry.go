package qitype

import (
	"sync"

	"github.com/relaymesh/dynatype/internal/qilog"
)

var registryLog = qilog.NewCategory("qitype.type")

// tupleKey is the memoization key for synthesized tuple types: ordered
// member TypeInfos plus the declared class name and element names.
type tupleKey struct {
	members      string // joined TypeInfo strings, order-sensitive
	className    string
	elementNames string
}

// Registry is the process-wide mapping from TypeInfo to Type, plus the
// memoization tables for the default container factories. A single
// mutex serializes all of it, per spec.md §9's explicit requirement
// that the factory maps — "not thread-safe" in the original — be made
// safe by implementers.
type Registry struct {
	mu sync.Mutex

	types map[TypeInfo]Type // nil entry means "looked up before registered"

	lists  map[TypeInfo]Type    // elementTypeInfo -> list Type
	maps   map[[2]TypeInfo]Type // (keyTypeInfo, elemTypeInfo) -> map Type
	tuples map[tupleKey]Type    // (member types, name, element names) -> tuple Type
}

// NewRegistry returns an empty, ready-to-use Registry. Most callers
// should use DefaultRegistry; NewRegistry exists so tests and the
// protobuf bridge can work against a scratch instance.
func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[TypeInfo]Type),
		lists:  make(map[TypeInfo]Type),
		maps:   make(map[[2]TypeInfo]Type),
		tuples: make(map[tupleKey]Type),
	}
}

// DefaultRegistry is the process-wide registry analogous to qitype's
// function-local static typeFactory().
var DefaultRegistry = NewRegistry()

// Get returns the registered descriptor for ti, or (nil, false) if
// none was ever registered. A lookup miss is recorded: a subsequent
// Register for the same identity will be logged as a late
// registration, matching "we create-if-not-exist on purpose: to detect
// access that occurs before registration".
func (r *Registry) Get(ti TypeInfo) (Type, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[ti]
	if !ok {
		r.types[ti] = nil
		registryLog.Debug("access to type factory before registration detected", "type", ti.String())
	}
	return t, t != nil
}

// Register installs t under ti. If a prior non-nil descriptor already
// existed, the previous registration is logged at Verbose and the new
// one wins — last writer wins, always returning true, exactly as
// spec.md §4.1 specifies. If Get already recorded a miss for ti, the
// late registration is logged at Verbose.
func (r *Registry) Register(ti TypeInfo, t Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.types[ti]; ok && prev != nil {
		registryLog.Verbose("previous registration present", "type", ti.String(), "kind", prev.Kind().String())
	} else if ok {
		registryLog.Verbose("access before registration detected", "type", ti.String())
	}
	r.types[ti] = t
	registryLog.Debug("registerType", "type", ti.String(), "kind", t.Kind().String())
	return true
}
