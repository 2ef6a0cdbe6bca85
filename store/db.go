package store

import (
	"path/filepath"
	"strings"

	"github.com/perfkit/dashboard/errors"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DBStore adapts a tendermint database to the KVStore interface. Database
// implementations panic on failure, DBStore reports those as ErrDatabase.
type DBStore struct {
	db dbm.DB
}

var _ KVStore = (*DBStore)(nil)

// NewDBStore returns a store writing directly to given database.
func NewDBStore(db dbm.DB) *DBStore {
	return &DBStore{db: db}
}

// OpenDB opens a goleveldb database stored in a directory ending with ".db",
// for example "/var/lib/dashmig/dashboards.db". Use "memdb" to get an in
// memory database.
func OpenDB(path string) (*DBStore, error) {
	if path == "memdb" {
		return NewDBStore(dbm.NewMemDB()), nil
	}
	dir, name, err := SplitDBPath(path)
	if err != nil {
		return nil, err
	}
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return NewDBStore(db), nil
}

// SplitDBPath returns the directory and the database name of a database
// directory path. The path must end with ".db", which is not part of the
// name.
func SplitDBPath(path string) (dir, name string, err error) {
	path = strings.TrimSuffix(filepath.Clean(path), string(filepath.Separator))
	if !strings.HasSuffix(path, ".db") {
		return "", "", errors.Wrapf(errors.ErrInput, "database directory must end with .db: %q", path)
	}
	dir, name = filepath.Split(strings.TrimSuffix(path, ".db"))
	if name == "" {
		return "", "", errors.Wrapf(errors.ErrInput, "database name missing: %q", path)
	}
	if dir == "" {
		dir = "."
	}
	return dir, name, nil
}

// Get returns nil iff key doesn't exist.
func (s *DBStore) Get(key []byte) (value []byte, err error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	defer recoverDB(&err)
	return s.db.Get(key), nil
}

// Has returns true if a value is stored under given key.
func (s *DBStore) Has(key []byte) (has bool, err error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	defer recoverDB(&err)
	return s.db.Has(key), nil
}

// Set writes the value to the database.
func (s *DBStore) Set(key, value []byte) (err error) {
	if err := checkKey(key); err != nil {
		return err
	}
	defer recoverDB(&err)
	s.db.Set(key, value)
	return nil
}

// Delete removes the key from the database.
func (s *DBStore) Delete(key []byte) (err error) {
	if err := checkKey(key); err != nil {
		return err
	}
	defer recoverDB(&err)
	s.db.Delete(key)
	return nil
}

// Iterator over a domain of keys in ascending order. Nil start or end
// leaves that side of the domain open.
func (s *DBStore) Iterator(start, end []byte) (it Iterator, err error) {
	defer recoverDB(&err)
	return s.db.Iterator(start, end), nil
}

// Close releases the database.
func (s *DBStore) Close() (err error) {
	defer recoverDB(&err)
	s.db.Close()
	return nil
}

func recoverDB(err *error) {
	if r := recover(); r != nil {
		*err = errors.Wrapf(errors.ErrDatabase, "%v", r)
	}
}
