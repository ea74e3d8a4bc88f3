package qitype

import (
	"fmt"

	"github.com/google/uuid"
)

// defaultListStorage is the concrete payload behind a DefaultListType's
// Storage: an ordered sequence of element storages, matching the
// original's std::vector<void*> backend.
type defaultListStorage struct {
	elems []Storage
}

// DefaultListType is the synthesized List Type backing values created
// from a "[E]" signature alone, memoized one instance per element
// TypeInfo on the owning Registry.
type DefaultListType struct {
	elementType Type
	info        TypeInfo
}

// NewListType returns the memoized default list Type whose elements
// are of elem, creating and registering it on first use. Guarded by
// the same mutex as the rest of the registry per spec.md §9.
func (r *Registry) NewListType(elem Type) Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := elem.Info()
	if t, ok := r.lists[key]; ok {
		return t
	}
	name := fmt.Sprintf("DefaultListType<%s>(%s)", elem.Info().String(), uuid.NewString())
	t := &DefaultListType{elementType: elem, info: NamedTypeInfo(name)}
	r.lists[key] = t
	return t
}

func (t *DefaultListType) Info() TypeInfo { return t.info }
func (t *DefaultListType) Kind() Kind     { return List }

func (t *DefaultListType) InitializeStorage(seed any) (Storage, error) {
	if seed != nil {
		elems, ok := seed.([]Storage)
		if !ok {
			return Storage{}, ErrStorageShapeMismatch
		}
		cp := append([]Storage(nil), elems...)
		return NewStorage(&defaultListStorage{elems: cp}), nil
	}
	return NewStorage(&defaultListStorage{}), nil
}

func (t *DefaultListType) backend(s Storage) *defaultListStorage {
	return s.Value().(*defaultListStorage)
}

func (t *DefaultListType) Clone(storage Storage) (Storage, error) {
	src := t.backend(storage)
	dst := make([]Storage, len(src.elems))
	for i, e := range src.elems {
		c, err := t.elementType.Clone(e)
		if err != nil {
			return Storage{}, err
		}
		dst[i] = c
	}
	return NewStorage(&defaultListStorage{elems: dst}), nil
}

func (t *DefaultListType) Destroy(storage Storage) error {
	src := t.backend(storage)
	for _, e := range src.elems {
		if err := t.elementType.Destroy(e); err != nil {
			return err
		}
	}
	return nil
}

func (t *DefaultListType) Less(a, b Storage) bool {
	as, bs := t.backend(a), t.backend(b)
	n := len(as.elems)
	if len(bs.elems) < n {
		n = len(bs.elems)
	}
	for i := 0; i < n; i++ {
		if t.elementType.Less(as.elems[i], bs.elems[i]) {
			return true
		}
		if t.elementType.Less(bs.elems[i], as.elems[i]) {
			return false
		}
	}
	return len(as.elems) < len(bs.elems)
}

func (t *DefaultListType) PtrFromStorage(storage Storage) any { return t.backend(storage) }

func (t *DefaultListType) ElementType() Type { return t.elementType }

func (t *DefaultListType) PushBack(storage Storage, valueStorage Storage) (Storage, error) {
	src := t.backend(storage)
	cloned, err := t.elementType.Clone(valueStorage)
	if err != nil {
		return Storage{}, err
	}
	src.elems = append(src.elems, cloned)
	return storage, nil
}

func (t *DefaultListType) Element(storage Storage, index int) (Storage, error) {
	src := t.backend(storage)
	if index < 0 || index >= len(src.elems) {
		return Storage{}, ErrOutOfRange
	}
	return src.elems[index], nil
}

func (t *DefaultListType) Begin(storage Storage) IteratorType {
	return &defaultListIterator{elementType: t.elementType, elems: t.backend(storage).elems, pos: 0}
}

func (t *DefaultListType) End(storage Storage) IteratorType {
	elems := t.backend(storage).elems
	return &defaultListIterator{elementType: t.elementType, elems: elems, pos: len(elems)}
}

// defaultListIterator walks a defaultListStorage by index. It
// implements Iterator directly rather than going through a separate
// memoized iterator Type the way the original does (it synthesizes a
// DefaultListIteratorType purely to give the iterator a TypeInfo for
// dispatch) — in Go, Iterator is its own interface so no such
// indirection, or its associated uniqueness bookkeeping, is needed.
type defaultListIterator struct {
	elementType Type
	elems       []Storage
	pos         int
}

func (it *defaultListIterator) Dereference() GenericValuePtr {
	return GenericValuePtr{Type: it.elementType, Storage: it.elems[it.pos]}
}

func (it *defaultListIterator) Next() IteratorType {
	return &defaultListIterator{elementType: it.elementType, elems: it.elems, pos: it.pos + 1}
}

func (it *defaultListIterator) Equals(other IteratorType) bool {
	o, ok := other.(*defaultListIterator)
	return ok && o.pos == it.pos
}
