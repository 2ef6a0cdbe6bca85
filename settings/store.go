package settings

import (
	"github.com/perfkit/dashboard/errors"
)

// ReadStore is a subset of dashboard.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of dashboard.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is implemented by object that can serialize itself to a
// binary representation. You must add your own Validate method.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is implemented by object that can load their state from given
// binary representation.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is a singleton that can be stored in the database.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// Save will Validate the object, before writing it to a special
// "configuration" singleton for given name.
func Save(db Store, name string, src ValidMarshaler) error {
	key := configKey(name)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key)
	}
	return db.Set(key, raw)
}

// Load reads the configuration singleton stored under given name. It fails
// with ErrNotFound if nothing was saved yet.
func Load(db ReadStore, name string, dst Unmarshaler) error {
	key := configKey(name)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal: key %q", key)
	}
	return nil
}

func configKey(name string) []byte {
	return []byte("_c:" + name)
}
