package migration

import (
	"testing"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/dashtest/assert"
	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/walker"
)

func TestWidgetSchemaContainer(t *testing.T) {
	scoped := &WidgetSchema{
		Number:    1,
		Container: walker.ParsePath("overview"),
		Walker:    walker.New(nil),
		Require:   RequireWidget("reviewed"),
		Upgrade: func(w *dashboard.Widget) error {
			if w.Has("reviewed") {
				return nil
			}
			return w.Set("reviewed", true)
		},
	}
	runner := newTestRunner(scoped)

	const raw = `{"children":[` +
		`{"id":"overview","children":[{"id":"w1"},{"id":"w2","reviewed":false}]},` +
		`{"id":"w3"}]}`
	doc := dashboard.MustNewDocument(raw)

	ok, err := scoped.Verify(doc)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	_, err = runner.Migrate(doc)
	assert.Nil(t, err)
	assert.Equal(t, `{"children":[`+
		`{"id":"overview","children":[{"id":"w1","reviewed":true},{"id":"w2","reviewed":false}]},`+
		`{"id":"w3"}],"version":"1"}`, doc.String())

	// widgets outside of the container are not required to hold
	ok, err = scoped.Verify(doc)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	assert.Equal(t, false, doc.Get("children.1.reviewed").Exists())
}

func TestWidgetSchemaMissingContainer(t *testing.T) {
	scoped := &WidgetSchema{
		Number:    1,
		Container: walker.ParsePath("gone"),
		Walker:    walker.New(nil),
		Require:   RequireWidget("reviewed"),
		Upgrade:   NoModification,
	}
	runner := newTestRunner(scoped)

	const raw = `{"children":[{"id":"w1"}]}`
	doc := dashboard.MustNewDocument(raw)
	_, err := runner.Migrate(doc)
	assert.IsErr(t, errors.ErrStructure, err)
	assert.Equal(t, raw, doc.String())
}
