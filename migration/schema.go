package migration

import (
	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/walker"
)

// WidgetSchema is a schema version whose requirements are checked and
// established one widget at a time.
type WidgetSchema struct {
	// Number is the version this schema upgrades documents to.
	Number uint32
	// Container limits the schema to a single container. Empty path
	// addresses the whole document.
	Container walker.Path
	Walker    *walker.Walker
	// Require must return an ErrSchema error for a widget that does not
	// satisfy this version.
	Require walker.Check
	// Upgrade is called for every widget. It must leave widgets that
	// already satisfy this version unchanged.
	Upgrade walker.Visitor
}

var _ Schema = (*WidgetSchema)(nil)

// Version implements Schema.
func (s *WidgetSchema) Version() uint32 {
	return s.Number
}

// Verify implements Schema.
func (s *WidgetSchema) Verify(doc *dashboard.Document) (bool, error) {
	return s.Walker.VerifyDashboard(doc, s.Container, s.Require)
}

// Update implements Schema.
func (s *WidgetSchema) Update(doc *dashboard.Document) error {
	return s.Walker.ForEachWidget(doc, s.Container, s.Upgrade)
}

// RequireResult returns a check that requires given results field to be
// defined. A widget without a results object fails with ErrStructure.
func RequireResult(field string) walker.Check {
	return func(w *dashboard.Widget) error {
		res, err := w.Results()
		if err != nil {
			return err
		}
		if !res.Has(field) {
			return errors.Field(w.Path(), errors.ErrSchema, "results.%s is missing", field)
		}
		return nil
	}
}

// RequireWidget returns a check that requires a value to be defined under
// given path relative to the widget.
func RequireWidget(rel string) walker.Check {
	return func(w *dashboard.Widget) error {
		if !w.Has(rel) {
			return errors.Field(w.Path(), errors.ErrSchema, "%s is missing", rel)
		}
		return nil
	}
}

// NoModification is an upgrade visitor for versions that only bump the
// document version.
func NoModification(*dashboard.Widget) error {
	return nil
}
