package qitype

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type defaultTupleStorage struct {
	members []Storage
}

// DefaultTupleType is the synthesized Tuple Type backing values
// created from a "(E1 E2 ... En)<name,elt1,...>" signature, or built
// directly via MakeGenericTuple. Memoized by (member TypeInfos,
// className, elementNames).
type DefaultTupleType struct {
	types        []Type
	className    string
	elementNames []string
	info         TypeInfo
}

func tupleMemoKey(types []Type, className string, elementNames []string) tupleKey {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Info().String()
	}
	return tupleKey{
		members:      strings.Join(names, "\x1f"),
		className:    className,
		elementNames: strings.Join(elementNames, "\x1f"),
	}
}

// NewTupleType returns the memoized tuple Type for the given member
// types, class name, and per-element names, creating it on first use.
// Two requests with an identical key return the identical descriptor,
// per spec.md's testable property 5.
func (r *Registry) NewTupleType(types []Type, className string, elementNames []string) Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := tupleMemoKey(types, className, elementNames)
	if t, ok := r.tuples[key]; ok {
		return t
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Info().String()
	}
	display := fmt.Sprintf("DefaultTupleType<%s>(%s)", strings.Join(names, ","), uuid.NewString())
	t := &DefaultTupleType{
		types:        append([]Type(nil), types...),
		className:    className,
		elementNames: append([]string(nil), elementNames...),
		info:         NamedTypeInfo(display),
	}
	r.tuples[key] = t
	return t
}

func (t *DefaultTupleType) Info() TypeInfo { return t.info }
func (t *DefaultTupleType) Kind() Kind     { return Tuple }

func (t *DefaultTupleType) backend(s Storage) *defaultTupleStorage {
	return s.Value().(*defaultTupleStorage)
}

// InitializeStorage allocates each member's default storage. When seed
// is a []Storage of exactly len(t.types), those storages are adopted
// (not cloned) rather than freshly initialized — the path
// MakeGenericTuplePtr uses. A seed of the wrong length fails with
// ErrStorageShapeMismatch, per spec.md §4.9.
func (t *DefaultTupleType) InitializeStorage(seed any) (Storage, error) {
	if seed != nil {
		adopted, ok := seed.([]Storage)
		if !ok || len(adopted) != len(t.types) {
			return Storage{}, ErrStorageShapeMismatch
		}
		return NewStorage(&defaultTupleStorage{members: append([]Storage(nil), adopted...)}), nil
	}
	members := make([]Storage, len(t.types))
	for i, mt := range t.types {
		s, err := mt.InitializeStorage(nil)
		if err != nil {
			return Storage{}, err
		}
		members[i] = s
	}
	return NewStorage(&defaultTupleStorage{members: members}), nil
}

func (t *DefaultTupleType) Clone(storage Storage) (Storage, error) {
	src := t.backend(storage)
	dst := make([]Storage, len(t.types))
	for i, mt := range t.types {
		c, err := mt.Clone(src.members[i])
		if err != nil {
			return Storage{}, err
		}
		dst[i] = c
	}
	return NewStorage(&defaultTupleStorage{members: dst}), nil
}

func (t *DefaultTupleType) Destroy(storage Storage) error {
	src := t.backend(storage)
	for i, mt := range t.types {
		if err := mt.Destroy(src.members[i]); err != nil {
			return err
		}
	}
	return nil
}

func (t *DefaultTupleType) Less(a, b Storage) bool {
	as, bs := t.backend(a), t.backend(b)
	for i, mt := range t.types {
		if mt.Less(as.members[i], bs.members[i]) {
			return true
		}
		if mt.Less(bs.members[i], as.members[i]) {
			return false
		}
	}
	return false
}

func (t *DefaultTupleType) PtrFromStorage(storage Storage) any { return t.backend(storage) }

func (t *DefaultTupleType) MemberTypes() []Type    { return t.types }
func (t *DefaultTupleType) ElementNames() []string { return t.elementNames }
func (t *DefaultTupleType) ClassName() string      { return t.className }

// Get returns member index's storage. Unlike the original
// DefaultTupleType::get, which silently grows the backing vector and
// returns a null slot for an out-of-range index, this fails with
// ErrOutOfRange — the redesign spec.md §9 calls for explicitly, since
// the auto-growth behavior is "likely a latent bug".
func (t *DefaultTupleType) Get(storage Storage, index int) (Storage, error) {
	src := t.backend(storage)
	if index < 0 || index >= len(src.members) {
		return Storage{}, ErrOutOfRange
	}
	return src.members[index], nil
}

func (t *DefaultTupleType) Set(storage Storage, index int, valueStorage Storage) error {
	src := t.backend(storage)
	if index < 0 || index >= len(src.members) {
		return ErrOutOfRange
	}
	cloned, err := t.types[index].Clone(valueStorage)
	if err != nil {
		return err
	}
	if !src.members[index].IsZero() {
		if err := t.types[index].Destroy(src.members[index]); err != nil {
			return err
		}
	}
	src.members[index] = cloned
	return nil
}
