package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/perfkit/dashboard/dashtest/assert"
	"github.com/perfkit/dashboard/errors"
)

/**
TestSuite provides many methods that can be called in package-specific test code.
We just customize the store being tested (pass in constructor), the rest of the
logic is generic to the KVStore interface.

This is intended in particular to remove duplication between btree_test.go,
db_test.go and iavl/adapter_test.go, but can be used for any implementation of
KVStore.
*/
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a new, empty store and a function releasing
// all its resources.
type TestStoreConstructor func() (base KVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our store.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// overwrite
	v2 := []byte("toast")
	assert.Nil(t, base.Set(k, v2))
	s.AssertGetHas(t, base, k, v2, true)

	k2, v3 := []byte("LA"), []byte("Dodgers")
	assert.Nil(t, base.Set(k2, v3))
	s.AssertGetHas(t, base, k2, v3, true)

	assert.Nil(t, base.Delete(k))
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v3, true)

	// deleting a missing key is fine
	assert.Nil(t, base.Delete([]byte("Bayern")))
}

// EmptyKey makes sure an empty key is rejected.
func (s *TestSuite) EmptyKey(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	err := base.Set(nil, []byte("x"))
	if !errors.ErrInput.Is(err) {
		t.Fatalf("want ErrInput, got %+v", err)
	}
	_, err = base.Get([]byte{})
	if !errors.ErrInput.Is(err) {
		t.Fatalf("want ErrInput, got %+v", err)
	}
}

// Iteration makes sure the iterator returns all items in key order,
// honoring the range limits.
func (s *TestSuite) Iteration(t *testing.T) {
	const size = 30

	toSet := randModels(size, 8, 40)
	toDel := toSet[:5]
	expect := sortModels(toSet[5:])

	cases := map[string]rangeQuery{
		"no limits":    {nil, nil, expect},
		"start limit":  {expect[10].Key, nil, expect[10:]},
		"end limit":    {nil, expect[size-12].Key, expect[:size-12]},
		"both limits":  {expect[7].Key, expect[18].Key, expect[7:18]},
		"empty domain": {expect[7].Key, expect[7].Key, nil},
	}

	for testName, q := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range makeSetOps(toSet...) {
				assert.Nil(t, op.Apply(base))
			}
			for _, op := range makeDelOps(toDel...) {
				assert.Nil(t, op.Apply(base))
			}
			q.verify(t, base)
		})
	}
}

// Batch makes sure that batched writes are applied only on Write.
func (s *TestSuite) Batch(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	a, b := randModels(1, 8, 20)[0], randModels(1, 8, 20)[0]
	assert.Nil(t, base.Set(a.Key, a.Value))

	batch := NewNonAtomicBatch(base)
	assert.Nil(t, batch.Set(b.Key, b.Value))
	assert.Nil(t, batch.Delete(a.Key))
	assert.Equal(t, 2, batch.Len())

	s.AssertGetHas(t, base, a.Key, a.Value, true)
	s.AssertGetHas(t, base, b.Key, nil, false)

	assert.Nil(t, batch.Write())
	assert.Equal(t, 0, batch.Len())
	s.AssertGetHas(t, base, a.Key, nil, false)
	s.AssertGetHas(t, base, b.Key, b.Value, true)
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

//nolint
func randBytes(length int) []byte {
	res := make([]byte, length)
	rand.Read(res)
	return res
}

// randKeys returns a slice of count keys, all of a given size
func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := 0; i < count; i++ {
		res[i] = randBytes(size)
	}
	return res
}

// randModels produces a random set of models
func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := 0; i < count; i++ {
		models[i].Key = randBytes(keySize)
		models[i].Value = randBytes(valueSize)
	}
	return models
}

// rangeQuery checks the results of iteration
type rangeQuery struct {
	start    []byte
	end      []byte
	expected []Model
}

func (q rangeQuery) verify(t testing.TB, kv ReadOnlyKVStore) {
	t.Helper()
	iter, err := kv.Iterator(q.start, q.end)
	assert.Nil(t, err)
	defer iter.Close()

	for i := 0; i < len(q.expected); i++ {
		if !iter.Valid() {
			t.Fatalf("iterator done after %d items, want %d", i, len(q.expected))
		}
		if !bytes.Equal(q.expected[i].Key, iter.Key()) {
			t.Fatalf("Expected key: %X\nGot keys %d = %X", q.expected[i].Key, i, iter.Key())
		}
		assert.Equal(t, q.expected[i].Value, iter.Value())
		iter.Next()
	}
	if iter.Valid() {
		t.Fatalf("iterator returned more than %d items", len(q.expected))
	}
}

// sortModels returns a copy of the models sorted by key
func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
