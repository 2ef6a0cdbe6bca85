package iavl

import (
	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// cacheSize is the number of tree nodes kept in memory.
const cacheSize = 10000

// CommitStore keeps a history of committed revisions in an iavl tree. Reads
// and writes work on the uncommitted working tree, GetVersioned reads a
// committed revision.
type CommitStore struct {
	db      dbm.DB
	tree    *iavl.MutableTree
	version int64
	dirty   bool
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore opens a goleveldb backed tree stored in dir/name.db and
// loads its latest revision.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return NewCommitStoreFromDB(db)
}

// MockCommitStore returns a commit store backed by an in memory database.
func MockCommitStore() *CommitStore {
	s, err := NewCommitStoreFromDB(dbm.NewMemDB())
	if err != nil {
		panic(err)
	}
	return s
}

// NewCommitStoreFromDB loads the latest revision of a tree stored in given
// database.
func NewCommitStoreFromDB(db dbm.DB) (s *CommitStore, err error) {
	defer recoverTree(&err)
	tree := iavl.NewMutableTree(db, cacheSize)
	ver, err := tree.Load()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &CommitStore{db: db, tree: tree, version: ver}, nil
}

// Get returns nil iff key doesn't exist.
func (s *CommitStore) Get(key []byte) (value []byte, err error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	defer recoverTree(&err)
	_, value = s.tree.Get(key)
	return value, nil
}

// Has returns true if a value is stored under given key.
func (s *CommitStore) Has(key []byte) (has bool, err error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	defer recoverTree(&err)
	return s.tree.Has(key), nil
}

// Set writes to the working tree.
func (s *CommitStore) Set(key, value []byte) (err error) {
	if err := checkKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	defer recoverTree(&err)
	s.tree.Set(key, value)
	s.dirty = true
	return nil
}

// Delete removes the key from the working tree.
func (s *CommitStore) Delete(key []byte) (err error) {
	if err := checkKey(key); err != nil {
		return err
	}
	defer recoverTree(&err)
	if _, removed := s.tree.Remove(key); removed {
		s.dirty = true
	}
	return nil
}

// Iterator over a domain of keys of the working tree in ascending order.
// The iterator works on a copy of the matching items.
func (s *CommitStore) Iterator(start, end []byte) (it store.Iterator, err error) {
	defer recoverTree(&err)
	var res []store.Model
	s.tree.IterateRange(start, end, true, func(key []byte, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(res), nil
}

// Commit saves the working tree as a new revision.
func (s *CommitStore) Commit() (version int64, err error) {
	defer recoverTree(&err)
	_, version, err = s.tree.SaveVersion()
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.version = version
	s.dirty = false
	return version, nil
}

// LatestVersion returns the last committed revision. Zero means nothing was
// committed yet.
func (s *CommitStore) LatestVersion() int64 {
	return s.version
}

// Dirty returns true if there are writes that were not committed yet.
func (s *CommitStore) Dirty() bool {
	return s.dirty
}

// GetVersioned returns the value stored under given key at given committed
// revision.
func (s *CommitStore) GetVersioned(key []byte, version int64) (value []byte, err error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	defer recoverTree(&err)
	if !s.tree.VersionExists(version) {
		return nil, errors.Wrapf(errors.ErrNotFound, "revision %d", version)
	}
	_, value = s.tree.GetVersioned(key, version)
	return value, nil
}

// Close releases the underlying database. Uncommitted writes are lost.
func (s *CommitStore) Close() (err error) {
	defer recoverTree(&err)
	s.db.Close()
	return nil
}

func checkKey(key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrInput, "empty key")
	}
	return nil
}

func recoverTree(err *error) {
	if r := recover(); r != nil {
		*err = errors.Wrapf(errors.ErrDatabase, "%v", r)
	}
}
