package docstore

import (
	"bytes"
	"strings"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/errors"
)

// Prefix is prepended to a dashboard id to build its database key.
const Prefix = "dashboard:"

// Bucket is a storage engine for dashboard documents. Documents are stored
// as the JSON they were saved with.
type Bucket struct {
	prefix []byte
}

// NewBucket returns a bucket storing documents under the default prefix.
func NewBucket() Bucket {
	return Bucket{prefix: []byte(Prefix)}
}

// Fetch returns the document stored under given id. It fails with
// ErrNotFound if no such document exists.
func (b Bucket) Fetch(db dashboard.ReadOnlyKVStore, id string) (*dashboard.Document, error) {
	key, err := b.dbKey(id)
	if err != nil {
		return nil, err
	}
	raw, err := db.Get(key)
	if err != nil {
		return nil, errors.Wrapf(err, "get %q", id)
	}
	if raw == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "dashboard %q", id)
	}
	doc, err := dashboard.NewDocument(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "stored dashboard %q", id)
	}
	return doc, nil
}

// Save writes the document under given id, replacing any previous one.
func (b Bucket) Save(db dashboard.SetDeleter, id string, doc *dashboard.Document) error {
	key, err := b.dbKey(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return errors.Wrap(errors.ErrEmpty, "document")
	}
	if err := db.Set(key, doc.Bytes()); err != nil {
		return errors.Wrapf(err, "set %q", id)
	}
	return nil
}

// Delete removes the document stored under given id. It fails with
// ErrNotFound if no such document exists.
func (b Bucket) Delete(db dashboard.KVStore, id string) error {
	key, err := b.dbKey(id)
	if err != nil {
		return err
	}
	has, err := db.Has(key)
	if err != nil {
		return errors.Wrapf(err, "has %q", id)
	}
	if !has {
		return errors.Wrapf(errors.ErrNotFound, "dashboard %q", id)
	}
	return db.Delete(key)
}

// IDs returns ids of all stored documents in ascending order.
func (b Bucket) IDs(db dashboard.ReadOnlyKVStore) ([]string, error) {
	start, end := prefixRange(b.prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "prefix scan")
	}
	defer it.Close()

	var ids []string
	for ; it.Valid(); it.Next() {
		ids = append(ids, string(bytes.TrimPrefix(it.Key(), b.prefix)))
	}
	return ids, nil
}

func (b Bucket) dbKey(id string) ([]byte, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "dashboard id")
	}
	return append(append([]byte{}, b.prefix...), id...), nil
}

// prefixRange returns the iterator range of all keys starting with given
// prefix.
func prefixRange(prefix []byte) (start, end []byte) {
	start = prefix
	end = make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return start, end[:i+1]
		}
	}
	// All bytes are 0xff, there is no upper limit.
	return start, nil
}
