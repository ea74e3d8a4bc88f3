package qitype

import (
	"fmt"

	"github.com/google/uuid"
)

// defaultMapStorage holds an ordered sequence of (key, value) pair
// tuples, kept sorted by the key Type's Less so that iteration order
// matches spec.md §5's "stable, key Type's less order" guarantee. This
// plays the role of the original's std::map<GenericValuePtr, void*>;
// Go has no ordered-map-by-custom-comparator in the standard library,
// so the sorted-slice representation is the direct substitute.
type defaultMapStorage struct {
	pairs []Storage // each is a storage produced by pairType
}

// DefaultMapType is the synthesized Map Type backing values created
// from a "{K V}" signature, memoized one instance per (key, element)
// TypeInfo pair on the owning Registry.
type DefaultMapType struct {
	keyType     Type
	elementType Type
	pairType    *DefaultTupleType
	info        TypeInfo
}

// NewMapType returns the memoized default map Type over (key, elem),
// creating and registering it on first use.
func (r *Registry) NewMapType(key, elem Type) Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	mkey := [2]TypeInfo{key.Info(), elem.Info()}
	if t, ok := r.maps[mkey]; ok {
		return t
	}
	pairKey := tupleMemoKey([]Type{key, elem}, "", nil)
	pairType, ok := r.tuples[pairKey]
	if !ok {
		display := fmt.Sprintf("DefaultTupleType<%s,%s>(%s)", key.Info().String(), elem.Info().String(), uuid.NewString())
		pt := &DefaultTupleType{types: []Type{key, elem}, info: NamedTypeInfo(display)}
		r.tuples[pairKey] = pt
		pairType = pt
	}
	name := fmt.Sprintf("DefaultMapType<%s,%s>(%s)", key.Info().String(), elem.Info().String(), uuid.NewString())
	t := &DefaultMapType{
		keyType:     key,
		elementType: elem,
		pairType:    pairType.(*DefaultTupleType),
		info:        NamedTypeInfo(name),
	}
	r.maps[mkey] = t
	return t
}

func (t *DefaultMapType) Info() TypeInfo { return t.info }
func (t *DefaultMapType) Kind() Kind     { return Map }

func (t *DefaultMapType) backend(s Storage) *defaultMapStorage {
	return s.Value().(*defaultMapStorage)
}

func (t *DefaultMapType) InitializeStorage(seed any) (Storage, error) {
	if seed != nil {
		return Storage{}, ErrStorageShapeMismatch
	}
	return NewStorage(&defaultMapStorage{}), nil
}

func (t *DefaultMapType) Clone(storage Storage) (Storage, error) {
	src := t.backend(storage)
	dst := make([]Storage, len(src.pairs))
	for i, p := range src.pairs {
		c, err := t.pairType.Clone(p)
		if err != nil {
			return Storage{}, err
		}
		dst[i] = c
	}
	return NewStorage(&defaultMapStorage{pairs: dst}), nil
}

func (t *DefaultMapType) Destroy(storage Storage) error {
	src := t.backend(storage)
	for _, p := range src.pairs {
		if err := t.pairType.Destroy(p); err != nil {
			return err
		}
	}
	return nil
}

func (t *DefaultMapType) Less(a, b Storage) bool {
	as, bs := t.backend(a), t.backend(b)
	n := len(as.pairs)
	if len(bs.pairs) < n {
		n = len(bs.pairs)
	}
	for i := 0; i < n; i++ {
		if t.pairType.Less(as.pairs[i], bs.pairs[i]) {
			return true
		}
		if t.pairType.Less(bs.pairs[i], as.pairs[i]) {
			return false
		}
	}
	return len(as.pairs) < len(bs.pairs)
}

func (t *DefaultMapType) PtrFromStorage(storage Storage) any { return t.backend(storage) }

func (t *DefaultMapType) KeyType() Type     { return t.keyType }
func (t *DefaultMapType) ElementType() Type { return t.elementType }

// find returns the index of the pair whose key equals keyStorage (by
// neither Less(a,b) nor Less(b,a) holding), and whether it was found.
// The insertion point (for a miss) is also returned so Insert can
// splice without a second scan.
func (t *DefaultMapType) find(pairs []Storage, keyStorage Storage) (idx int, found bool) {
	for i, p := range pairs {
		k, _ := t.pairType.Get(p, 0)
		if !t.keyType.Less(keyStorage, k) && !t.keyType.Less(k, keyStorage) {
			return i, true
		}
		if t.keyType.Less(keyStorage, k) {
			return i, false
		}
	}
	return len(pairs), false
}

func (t *DefaultMapType) Insert(storage Storage, keyStorage, valueStorage Storage) error {
	src := t.backend(storage)
	idx, found := t.find(src.pairs, keyStorage)
	if found {
		if err := t.pairType.Set(src.pairs[idx], 1, valueStorage); err != nil {
			return err
		}
		return nil
	}
	pairStorage, err := t.newPair(keyStorage, valueStorage)
	if err != nil {
		return err
	}
	src.pairs = append(src.pairs, Storage{})
	copy(src.pairs[idx+1:], src.pairs[idx:])
	src.pairs[idx] = pairStorage
	return nil
}

func (t *DefaultMapType) newPair(keyStorage, valueStorage Storage) (Storage, error) {
	pairStorage, err := t.pairType.InitializeStorage(nil)
	if err != nil {
		return Storage{}, err
	}
	if err := t.pairType.Set(pairStorage, 0, keyStorage); err != nil {
		return Storage{}, err
	}
	if err := t.pairType.Set(pairStorage, 1, valueStorage); err != nil {
		return Storage{}, err
	}
	return pairStorage, nil
}

func (t *DefaultMapType) Element(storage Storage, keyStorage Storage, autoInsert bool) (GenericValuePtr, error) {
	src := t.backend(storage)
	idx, found := t.find(src.pairs, keyStorage)
	if found {
		v, err := t.pairType.Get(src.pairs[idx], 1)
		if err != nil {
			return GenericValuePtr{}, err
		}
		return GenericValuePtr{Type: t.elementType, Storage: v}, nil
	}
	if !autoInsert {
		return GenericValuePtr{}, nil
	}
	defVal, err := t.elementType.InitializeStorage(nil)
	if err != nil {
		return GenericValuePtr{}, err
	}
	pairStorage, err := t.newPair(keyStorage, defVal)
	if err != nil {
		return GenericValuePtr{}, err
	}
	src.pairs = append(src.pairs, Storage{})
	copy(src.pairs[idx+1:], src.pairs[idx:])
	src.pairs[idx] = pairStorage
	v, _ := t.pairType.Get(pairStorage, 1)
	return GenericValuePtr{Type: t.elementType, Storage: v}, nil
}

func (t *DefaultMapType) Size(storage Storage) int {
	return len(t.backend(storage).pairs)
}

func (t *DefaultMapType) Begin(storage Storage) IteratorType {
	return &defaultMapIterator{pairType: t.pairType, pairs: t.backend(storage).pairs, pos: 0}
}

func (t *DefaultMapType) End(storage Storage) IteratorType {
	pairs := t.backend(storage).pairs
	return &defaultMapIterator{pairType: t.pairType, pairs: pairs, pos: len(pairs)}
}

// defaultMapIterator dereferences to the (key, value) pair tuple,
// exactly as the original DefaultMapIteratorType does by constructing
// its GenericValuePtr with type _pairType.
type defaultMapIterator struct {
	pairType *DefaultTupleType
	pairs    []Storage
	pos      int
}

func (it *defaultMapIterator) Dereference() GenericValuePtr {
	return GenericValuePtr{Type: it.pairType, Storage: it.pairs[it.pos]}
}

func (it *defaultMapIterator) Next() IteratorType {
	return &defaultMapIterator{pairType: it.pairType, pairs: it.pairs, pos: it.pos + 1}
}

func (it *defaultMapIterator) Equals(other IteratorType) bool {
	o, ok := other.(*defaultMapIterator)
	return ok && o.pos == it.pos
}
