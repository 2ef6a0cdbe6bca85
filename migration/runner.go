package migration

import (
	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Runner brings documents up to the latest registered schema version.
//
// A runner holds no per document state and can migrate many documents at the
// same time, as long as no document is migrated by two callers at once.
type Runner struct {
	reg    *Register
	logger log.Logger
}

// NewRunner returns a runner applying schema versions of given register.
func NewRunner(reg *Register, logger log.Logger) *Runner {
	return &Runner{
		reg:    reg,
		logger: dashboard.LoggerOrDefault(logger),
	}
}

// Register returns the register this runner applies versions from.
func (r *Runner) Register() *Register {
	return r.reg
}

// Latest returns the version documents are migrated to.
func (r *Runner) Latest() uint32 {
	return r.reg.Latest()
}

// Pending returns versions that Migrate would process for given document, in
// the order they would be processed. A document with an unrecognized or a
// future version has no pending versions.
func (r *Runner) Pending(doc *dashboard.Document) []uint32 {
	current, ok := doc.Version()
	if !ok {
		return nil
	}
	var pending []uint32
	r.reg.ascend(current, func(s Schema) bool {
		pending = append(pending, s.Version())
		return true
	})
	return pending
}

// Migrate updates given document in place by applying all registered schema
// versions greater than the document version, in ascending order. After each
// version the document is stamped with that version number. The same
// document is returned.
//
// A version that is already satisfied is only stamped. Otherwise it is
// updated and verified again. A version that does not hold after its update
// fails with ErrMigrationInvariant.
//
// A document with an unrecognized or a future version is returned unchanged.
//
// Because changes are applied directly on the passed document, a failure
// leaves all versions completed before the failing one applied. The failing
// version itself is rolled back.
func (r *Runner) Migrate(doc *dashboard.Document) (*dashboard.Document, error) {
	current, ok := doc.Version()
	if !ok {
		r.logger.Info("unrecognized document version, no migration applied",
			"version", doc.Get(dashboard.VersionKey).Raw)
		return doc, nil
	}

	var err error
	r.reg.ascend(current, func(s Schema) bool {
		err = r.apply(doc, s)
		return err == nil
	})
	return doc, err
}

func (r *Runner) apply(doc *dashboard.Document, s Schema) (err error) {
	v := s.Version()
	snapshot := doc.Snapshot()
	defer func() {
		if err != nil {
			doc.Restore(snapshot)
			err = errors.Wrapf(err, "migration to version %d", v)
		}
	}()
	defer errors.Recover(&err)

	ok, err := s.Verify(doc)
	if err != nil {
		return errors.Wrap(err, "verify")
	}
	if !ok {
		if err := s.Update(doc); err != nil {
			return errors.Wrap(err, "update")
		}
		ok, err = s.Verify(doc)
		if err != nil {
			return errors.Wrap(err, "verify after update")
		}
		if !ok {
			return errors.Wrap(errors.ErrMigrationInvariant, "schema does not hold after update")
		}
		r.logger.Debug("document updated", "version", v)
	}
	return doc.SetVersion(v)
}
