package migration

import (
	"math"

	"github.com/google/btree"
	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/errors"
)

// Schema is a single version of the dashboard document schema.
type Schema interface {
	// Version returns the version number this schema upgrades documents
	// to.
	Version() uint32

	// Verify returns true if the document already satisfies all the
	// requirements this version introduced.
	Verify(doc *dashboard.Document) (bool, error)

	// Update rewrites the document in place so that it satisfies this
	// version requirements.
	Update(doc *dashboard.Document) error
}

// Register is an ordered collection of schema versions. Versions must be
// registered sequentially, starting with 1.
//
// Register is not safe for concurrent modification. Build it once during the
// program startup and only read it afterwards.
type Register struct {
	versions *btree.BTree
}

// NewRegister returns an empty register.
func NewRegister() *Register {
	return &Register{
		versions: btree.New(2),
	}
}

// schemaItem references a schema at a given version.
type schemaItem struct {
	version uint32
	schema  Schema
}

func (a schemaItem) Less(b btree.Item) bool {
	return a.version < b.(schemaItem).version
}

// MustRegister is like Register but panics on error.
func (r *Register) MustRegister(s Schema) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Register adds a schema version. It fails if the version was already
// registered or if it is not the version following the latest registered
// one.
func (r *Register) Register(s Schema) error {
	v := s.Version()
	if v == 0 {
		return errors.Wrap(errors.ErrInput, "schema version must be greater than zero")
	}
	if r.versions.Has(schemaItem{version: v}) {
		return errors.Wrapf(errors.ErrDuplicate, "already registered: %d", v)
	}
	if latest := r.Latest(); v != latest+1 {
		return errors.Wrapf(errors.ErrInput, "migration to version %d missing", latest+1)
	}
	r.versions.ReplaceOrInsert(schemaItem{version: v, schema: s})
	return nil
}

// Latest returns the highest registered version or 0 if the register is
// empty.
func (r *Register) Latest() uint32 {
	last := r.versions.Max()
	if last == nil {
		return 0
	}
	return last.(schemaItem).version
}

// Schema returns the schema registered for given version.
func (r *Register) Schema(version uint32) (Schema, bool) {
	it := r.versions.Get(schemaItem{version: version})
	if it == nil {
		return nil, false
	}
	return it.(schemaItem).schema, true
}

// Versions returns all registered versions in ascending order.
func (r *Register) Versions() []uint32 {
	res := make([]uint32, 0, r.versions.Len())
	r.versions.Ascend(func(it btree.Item) bool {
		res = append(res, it.(schemaItem).version)
		return true
	})
	return res
}

// ascend calls fn for every schema with a version greater than given one,
// in ascending order, until fn returns false.
func (r *Register) ascend(after uint32, fn func(Schema) bool) {
	if after == math.MaxUint32 {
		return
	}
	r.versions.AscendGreaterOrEqual(schemaItem{version: after + 1}, func(it btree.Item) bool {
		return fn(it.(schemaItem).schema)
	})
}
