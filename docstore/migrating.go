package docstore

import (
	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/migration"
	"github.com/perfkit/dashboard/store"
	"github.com/tendermint/tendermint/libs/log"
)

// MigratingBucket is a Bucket that requires schema versioning. Every document
// is migrated to the latest schema version before it is returned or saved.
type MigratingBucket struct {
	Bucket
	runner *migration.Runner
	logger log.Logger
}

// NewMigratingBucket returns a schema aware bucket using given runner.
func NewMigratingBucket(runner *migration.Runner, logger log.Logger) MigratingBucket {
	return MigratingBucket{
		Bucket: NewBucket(),
		runner: runner,
		logger: dashboard.LoggerOrDefault(logger),
	}
}

// Fetch returns the migrated document. The stored document is not updated.
func (mb MigratingBucket) Fetch(db dashboard.ReadOnlyKVStore, id string) (*dashboard.Document, error) {
	doc, err := mb.Bucket.Fetch(db, id)
	if err != nil {
		return nil, err
	}
	if _, err := mb.runner.Migrate(doc); err != nil {
		return nil, errors.Wrapf(err, "migrate %q", id)
	}
	return doc, nil
}

// Save migrates the document and writes it. Nothing is written if the
// migration fails.
func (mb MigratingBucket) Save(db dashboard.SetDeleter, id string, doc *dashboard.Document) error {
	if doc == nil {
		return errors.Wrap(errors.ErrEmpty, "document")
	}
	if _, err := mb.runner.Migrate(doc); err != nil {
		return errors.Wrapf(err, "migrate %q", id)
	}
	return mb.Bucket.Save(db, id, doc)
}

// Result describes the outcome of migrating a single stored document.
type Result struct {
	ID string
	// From is the version the document was stored with.
	From uint32
	// To is the version the document has after the migration. It is equal
	// to From when nothing was applied.
	To uint32
	// Err is set when the document could not be migrated. Such document is
	// left in the store unchanged.
	Err error
}

// Migrated returns true if a newer version was written for the document.
func (r Result) Migrated() bool {
	return r.Err == nil && r.To > r.From
}

// MigrateAll migrates every stored document and writes back those that
// changed. A document that fails to migrate is reported in its result and
// does not stop the others.
//
// The returned error is set only if the store itself failed.
func (mb MigratingBucket) MigrateAll(db dashboard.KVStore) ([]Result, error) {
	ids, err := mb.IDs(db)
	if err != nil {
		return nil, err
	}

	batch := store.NewNonAtomicBatch(db)
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		res := mb.migrateOne(db, batch, id)
		if res.Err != nil && !isDocumentErr(res.Err) {
			return results, res.Err
		}
		results = append(results, res)
	}

	if err := batch.Write(); err != nil {
		return results, errors.Wrap(err, "write migrated dashboards")
	}
	return results, nil
}

func (mb MigratingBucket) migrateOne(db dashboard.ReadOnlyKVStore, batch *store.NonAtomicBatch, id string) Result {
	res := Result{ID: id}
	doc, err := mb.Bucket.Fetch(db, id)
	if err != nil {
		res.Err = err
		return res
	}
	from, known := doc.Version()
	res.From, res.To = from, from
	if !known || len(mb.runner.Pending(doc)) == 0 {
		return res
	}

	if _, err := mb.runner.Migrate(doc); err != nil {
		mb.logger.Info("dashboard migration failed", "id", id, "err", err.Error())
		res.Err = err
		return res
	}
	res.To, _ = doc.Version()
	mb.logger.Debug("dashboard migrated", "id", id, "from", res.From, "to", res.To)

	if err := mb.Bucket.Save(batch, id, doc); err != nil {
		res.Err = err
	}
	return res
}

// isDocumentErr returns true if the error is caused by the content of a
// single document rather than by the store.
func isDocumentErr(err error) bool {
	for _, kind := range []*errors.Error{
		errors.ErrStructure,
		errors.ErrMigrationInvariant,
		errors.ErrInput,
		errors.ErrPanic,
		errors.ErrState,
	} {
		if kind.Is(err) {
			return true
		}
	}
	return false
}
