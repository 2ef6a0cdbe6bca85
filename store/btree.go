package store

import (
	"bytes"

	"github.com/google/btree"
)

const (
	// DefaultFreeListSize is the size we hold for free node in btree
	DefaultFreeListSize = btree.DefaultFreeListSize
)

// BTreeStore keeps all data in memory, ordered by key.
// There is no persistence here.
type BTreeStore struct {
	bt *btree.BTree
}

var _ KVStore = (*BTreeStore)(nil)

// MemStore returns a simple implementation useful for tests and one off
// command line runs.
func MemStore() *BTreeStore {
	free := btree.NewFreeList(DefaultFreeListSize)
	return &BTreeStore{bt: btree.NewWithFreeList(2, free)}
}

// Get returns nil iff key doesn't exist.
func (b *BTreeStore) Get(key []byte) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	res := b.bt.Get(bkey{key})
	if res == nil {
		return nil, nil
	}
	return res.(item).value, nil
}

// Has returns true if a value is stored under given key.
func (b *BTreeStore) Has(key []byte) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	return b.bt.Has(bkey{key}), nil
}

// Set stores a copy of given value.
func (b *BTreeStore) Set(key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	b.bt.ReplaceOrInsert(newItem(key, value))
	return nil
}

// Delete removes the key. Deleting a missing key is a noop.
func (b *BTreeStore) Delete(key []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	b.bt.Delete(bkey{key})
	return nil
}

// Iterator over a domain of keys in ascending order. Nil start or end
// leaves that side of the domain open.
//
// The iterator works on a copy of the matching items, so it is not affected
// by writes done while it is open.
func (b *BTreeStore) Iterator(start, end []byte) (Iterator, error) {
	var res []Model
	collect := func(i btree.Item) bool {
		it := i.(item)
		res = append(res, Pair(it.key, it.value))
		return true
	}

	switch {
	case start == nil && end == nil:
		b.bt.Ascend(collect)
	case start == nil:
		b.bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		b.bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		b.bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return NewSliceIterator(res), nil
}

/////////////////////////////////////////////////////////
// Items to write to btree

// we enforce all data in our btree implements keyer so we
// can compare nicely
type keyer interface {
	Key() []byte
}

// bkey implements keyer and btree.Item
// and may be used for queries or embedded in data to store
type bkey struct {
	key []byte
}

var _ keyer = bkey{}
var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than first
//
// panics if the item to compare doesn't implement keyer.
func (k bkey) Less(i btree.Item) bool {
	cmp := i.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

type item struct {
	bkey
	value []byte
}

func newItem(key, value []byte) item {
	k := make([]byte, len(key))
	copy(k, key)
	v := make([]byte, len(value))
	copy(v, value)
	return item{bkey{k}, v}
}
