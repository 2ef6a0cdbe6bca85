package docstore

import (
	"testing"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/migration"
	"github.com/perfkit/dashboard/store"
	"github.com/perfkit/dashboard/store/iavl"
	"github.com/perfkit/dashboard/versions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	legacyDoc  = `{"children":[{"id":"w1","datasource":{"query":"","config":{"results":{"date_group":"Weekly"}}}}]}`
	currentDoc = `{"version":"5","children":[]}`
	brokenDoc  = `{"version":"3","children":[{"id":"w1","datasource":{}}]}`
)

func newMigratingBucket() MigratingBucket {
	return NewMigratingBucket(migration.NewRunner(versions.NewRegister(nil), nil), nil)
}

func TestMigratingBucketFetch(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, NewBucket().Save(db, "perf", dashboard.MustNewDocument(legacyDoc)))

	mb := newMigratingBucket()
	doc, err := mb.Fetch(db, "perf")
	require.NoError(t, err)
	assert.Equal(t, "5", doc.Get("version").String())
	assert.Equal(t, "WEEK", doc.Get("children.0.datasource.config.results.date_group").String())

	// reading does not write
	raw, err := db.Get([]byte("dashboard:perf"))
	require.NoError(t, err)
	assert.Equal(t, legacyDoc, string(raw))

	_, err = mb.Fetch(db, "missing")
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestMigratingBucketSave(t *testing.T) {
	db := store.MemStore()
	mb := newMigratingBucket()

	require.NoError(t, mb.Save(db, "perf", dashboard.MustNewDocument(legacyDoc)))
	stored, err := NewBucket().Fetch(db, "perf")
	require.NoError(t, err)
	v, ok := stored.Version()
	assert.True(t, ok)
	assert.EqualValues(t, 5, v)

	err = mb.Save(db, "broken", dashboard.MustNewDocument(brokenDoc))
	assert.True(t, errors.ErrStructure.Is(err), "unexpected error: %+v", err)
	has, err := db.Has([]byte("dashboard:broken"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMigrateAll(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	require.NoError(t, b.Save(db, "legacy", dashboard.MustNewDocument(legacyDoc)))
	require.NoError(t, b.Save(db, "current", dashboard.MustNewDocument(currentDoc)))
	require.NoError(t, b.Save(db, "broken", dashboard.MustNewDocument(brokenDoc)))
	require.NoError(t, b.Save(db, "future", dashboard.MustNewDocument(`{"version":"9"}`)))

	results, err := newMigratingBucket().MigrateAll(db)
	require.NoError(t, err)
	require.Len(t, results, 4)

	byID := make(map[string]Result)
	for _, r := range results {
		byID[r.ID] = r
	}

	assert.True(t, byID["legacy"].Migrated())
	assert.EqualValues(t, 0, byID["legacy"].From)
	assert.EqualValues(t, 5, byID["legacy"].To)

	assert.False(t, byID["current"].Migrated())
	assert.NoError(t, byID["current"].Err)

	assert.False(t, byID["future"].Migrated())
	assert.NoError(t, byID["future"].Err)
	assert.EqualValues(t, 9, byID["future"].To)

	assert.False(t, byID["broken"].Migrated())
	assert.True(t, errors.ErrStructure.Is(byID["broken"].Err))
	assert.EqualValues(t, 3, byID["broken"].To)

	raw, err := db.Get([]byte("dashboard:broken"))
	require.NoError(t, err)
	assert.Equal(t, brokenDoc, string(raw))

	legacy, err := b.Fetch(db, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "5", legacy.Get("version").String())

	// a second run has nothing to do
	results, err = newMigratingBucket().MigrateAll(db)
	require.NoError(t, err)
	for _, r := range results {
		assert.False(t, r.Migrated(), r.ID)
	}
}

func TestMigrateAllKeepsPreviousRevision(t *testing.T) {
	db := iavl.MockCommitStore()
	b := NewBucket()
	require.NoError(t, b.Save(db, "legacy", dashboard.MustNewDocument(legacyDoc)))
	before, err := db.Commit()
	require.NoError(t, err)

	_, err = newMigratingBucket().MigrateAll(db)
	require.NoError(t, err)
	_, err = db.Commit()
	require.NoError(t, err)

	old, err := db.GetVersioned([]byte("dashboard:legacy"), before)
	require.NoError(t, err)
	assert.Equal(t, legacyDoc, string(old))

	migrated, err := b.Fetch(db, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "5", migrated.Get("version").String())
}
