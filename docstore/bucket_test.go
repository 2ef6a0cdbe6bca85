package docstore

import (
	"testing"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/dashtest/assert"
	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/store"
)

func TestBucketSaveFetch(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()

	_, err := b.Fetch(db, "perf")
	assert.IsErr(t, errors.ErrNotFound, err)

	doc := dashboard.MustNewDocument(`{"title": "perf", "children": []}`)
	assert.Nil(t, b.Save(db, "perf", doc))

	got, err := b.Fetch(db, "perf")
	assert.Nil(t, err)
	assert.Equal(t, doc.String(), got.String())

	raw, err := db.Get([]byte("dashboard:perf"))
	assert.Nil(t, err)
	assert.Equal(t, []byte(`{"title": "perf", "children": []}`), raw)
}

func TestBucketInvalidInput(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()

	err := b.Save(db, " ", dashboard.MustNewDocument(`{}`))
	assert.IsErr(t, errors.ErrEmpty, err)
	err = b.Save(db, "perf", nil)
	assert.IsErr(t, errors.ErrEmpty, err)
	_, err = b.Fetch(db, "")
	assert.IsErr(t, errors.ErrEmpty, err)

	// Documents written behind the bucket's back are validated on read.
	assert.Nil(t, db.Set([]byte("dashboard:broken"), []byte(`{"title": `)))
	_, err = b.Fetch(db, "broken")
	assert.IsErr(t, errors.ErrInput, err)
}

func TestBucketDeleteAndIDs(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()

	for _, id := range []string{"net", "cpu", "disk"} {
		assert.Nil(t, b.Save(db, id, dashboard.MustNewDocument(`{}`)))
	}
	// keys outside of the bucket
	assert.Nil(t, db.Set([]byte("_c:settings"), []byte(`{}`)))
	assert.Nil(t, db.Set([]byte("dashboard;x"), []byte(`{}`)))
	assert.Nil(t, db.Set([]byte("dashboards"), []byte(`{}`)))

	ids, err := b.IDs(db)
	assert.Nil(t, err)
	assert.Equal(t, []string{"cpu", "disk", "net"}, ids)

	assert.Nil(t, b.Delete(db, "disk"))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, "disk"))

	ids, err = b.IDs(db)
	assert.Nil(t, err)
	assert.Equal(t, []string{"cpu", "net"}, ids)
}

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix    []byte
		wantStart []byte
		wantEnd   []byte
	}{
		"simple":       {[]byte("dashboard:"), []byte("dashboard:"), []byte("dashboard;")},
		"trailing max": {[]byte{'a', 0xff}, []byte{'a', 0xff}, []byte{'b'}},
		"all max":      {[]byte{0xff, 0xff}, []byte{0xff, 0xff}, nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}
