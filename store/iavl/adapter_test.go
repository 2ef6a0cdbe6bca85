package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/perfkit/dashboard/dashtest/assert"
	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/store"
)

func makeBase() (store.KVStore, func()) {
	return MockCommitStore(), func() {}
}

func makeCommitStore(t testing.TB) (*CommitStore, string, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	commit, err := NewCommitStore(tmpDir, "base")
	assert.Nil(t, err)
	return commit, tmpDir, func() { os.RemoveAll(tmpDir) }
}

func TestCommitStoreSuite(t *testing.T) {
	suite := store.NewTestSuite(makeBase)
	t.Run("get set", suite.GetSet)
	t.Run("empty key", suite.EmptyKey)
	t.Run("iteration", suite.Iteration)
	t.Run("batch", suite.Batch)
}

func TestCommitRevisions(t *testing.T) {
	s := MockCommitStore()
	assert.Equal(t, int64(0), s.LatestVersion())

	key := []byte("dashboard:perf")
	assert.Nil(t, s.Set(key, []byte(`{"version":"3"}`)))
	v1, err := s.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), v1)

	assert.Nil(t, s.Set(key, []byte(`{"version":"5"}`)))
	got, err := s.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, []byte(`{"version":"5"}`), got)

	// uncommitted writes are not part of a revision
	got, err = s.GetVersioned(key, 1)
	assert.Nil(t, err)
	assert.Equal(t, []byte(`{"version":"3"}`), got)

	v2, err := s.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), v2)
	assert.Equal(t, int64(2), s.LatestVersion())

	got, err = s.GetVersioned(key, 2)
	assert.Nil(t, err)
	assert.Equal(t, []byte(`{"version":"5"}`), got)
	got, err = s.GetVersioned(key, 1)
	assert.Nil(t, err)
	assert.Equal(t, []byte(`{"version":"3"}`), got)

	_, err = s.GetVersioned(key, 7)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestCommitStoreReload(t *testing.T) {
	s, dir, cleanup := makeCommitStore(t)
	defer cleanup()

	assert.Nil(t, s.Set([]byte("a"), []byte("1")))
	_, err := s.Commit()
	assert.Nil(t, err)
	assert.Nil(t, s.Set([]byte("b"), []byte("2")))
	assert.Nil(t, s.Close())

	// only the committed state is loaded
	reloaded, err := NewCommitStore(dir, "base")
	assert.Nil(t, err)
	defer reloaded.Close()
	assert.Equal(t, int64(1), reloaded.LatestVersion())
	got, err := reloaded.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), got)
	has, err := reloaded.Has([]byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}
