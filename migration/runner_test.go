package migration

import (
	"strings"
	"testing"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/dashtest/assert"
	"github.com/perfkit/dashboard/errors"
)

func newTestRunner(schemas ...Schema) *Runner {
	reg := NewRegister()
	for _, s := range schemas {
		reg.MustRegister(s)
	}
	return NewRunner(reg, nil)
}

func TestMigrate(t *testing.T) {
	runner := newTestRunner(
		newFieldSchema(1, "one"),
		newFieldSchema(2, "two"),
		newFieldSchema(3, "three"),
		newFieldSchema(4, "four"),
	)

	doc := dashboard.MustNewDocument(`{"version": "2", "title": "perf"}`)
	assert.Equal(t, []uint32{3, 4}, runner.Pending(doc))

	got, err := runner.Migrate(doc)
	assert.Nil(t, err)
	if got != doc {
		t.Fatal("migration must return the same document")
	}
	assert.Equal(t, `{"version": "4", "title": "perf","three":true,"four":true}`, doc.String())

	// Running a migration again is a no-op.
	_, err = runner.Migrate(doc)
	assert.Nil(t, err)
	assert.Equal(t, `{"version": "4", "title": "perf","three":true,"four":true}`, doc.String())
	assert.Nil(t, runner.Pending(doc))
}

func TestMigrateWithoutVersion(t *testing.T) {
	runner := newTestRunner(newFieldSchema(1, "one"), newFieldSchema(2, "two"))

	doc := dashboard.MustNewDocument(`{"title": "perf"}`)
	_, err := runner.Migrate(doc)
	assert.Nil(t, err)
	assert.Equal(t, `{"title": "perf","one":true,"version":"2","two":true}`, doc.String())
}

func TestMigrateKeepsNumericVersion(t *testing.T) {
	runner := newTestRunner(newFieldSchema(1, "one"), newFieldSchema(2, "two"))

	doc := dashboard.MustNewDocument(`{"version":1}`)
	_, err := runner.Migrate(doc)
	assert.Nil(t, err)
	assert.Equal(t, `{"version":2,"two":true}`, doc.String())
}

func TestMigrateSatisfiedVersionIsOnlyStamped(t *testing.T) {
	one := newFieldSchema(1, "one")
	two := newFieldSchema(2, "two")
	runner := newTestRunner(one, two)

	doc := dashboard.MustNewDocument(`{"version":"0","two":"already"}`)
	_, err := runner.Migrate(doc)
	assert.Nil(t, err)
	assert.Equal(t, 1, one.updates)
	assert.Equal(t, 0, two.updates)
	assert.Equal(t, `{"version":"2","two":"already","one":true}`, doc.String())
}

func TestMigrateUnrecognizedVersion(t *testing.T) {
	runner := newTestRunner(newFieldSchema(1, "one"), newFieldSchema(2, "two"))

	cases := map[string]string{
		"future version":         `{"version": "99"}`,
		"future numeric version": `{"version": 3}`,
		"text version":           `{"version": "latest"}`,
		"fractional version":     `{"version": 1.5}`,
		"negative version":       `{"version": -1}`,
		"object version":         `{"version": {"major": 1}}`,
	}
	for testName, raw := range cases {
		t.Run(testName, func(t *testing.T) {
			doc := dashboard.MustNewDocument(raw)
			assert.Nil(t, runner.Pending(doc))
			_, err := runner.Migrate(doc)
			assert.Nil(t, err)
			assert.Equal(t, raw, doc.String())
		})
	}
}

func TestMigrateInvariantViolation(t *testing.T) {
	broken := newFieldSchema(2, "two")
	broken.update = func(doc *dashboard.Document) error {
		// Writes something, but not what the version requires.
		return doc.Set("touched", true)
	}
	runner := newTestRunner(newFieldSchema(1, "one"), broken, newFieldSchema(3, "three"))

	doc := dashboard.MustNewDocument(`{"version":"0"}`)
	_, err := runner.Migrate(doc)
	if !errors.ErrMigrationInvariant.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if !strings.Contains(err.Error(), "migration to version 2") {
		t.Fatalf("version not reported: %s", err)
	}

	// Version one is kept, version two is rolled back.
	assert.Equal(t, `{"version":"1","one":true}`, doc.String())
}

func TestMigrateStructureError(t *testing.T) {
	failing := newFieldSchema(3, "three")
	failing.update = func(doc *dashboard.Document) error {
		if err := doc.Set("partial", true); err != nil {
			return err
		}
		return errors.Field("children.1", errors.ErrStructure, "results is not an object")
	}
	runner := newTestRunner(newFieldSchema(1, "one"), newFieldSchema(2, "two"), failing)

	doc := dashboard.MustNewDocument(`{"version":"1"}`)
	_, err := runner.Migrate(doc)
	if !errors.ErrStructure.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if path, ok := errors.FieldPath(err); !ok || path != "children.1" {
		t.Fatalf("widget path not reported: %q", path)
	}
	if !strings.Contains(err.Error(), "migration to version 3") {
		t.Fatalf("version not reported: %s", err)
	}
	assert.Equal(t, `{"version":"2","two":true}`, doc.String())
}

func TestMigratePanicIsRecovered(t *testing.T) {
	failing := newFieldSchema(1, "one")
	failing.update = func(doc *dashboard.Document) error {
		panic("boom")
	}
	runner := newTestRunner(failing)

	doc := dashboard.MustNewDocument(`{"title":"perf"}`)
	_, err := runner.Migrate(doc)
	if !errors.ErrPanic.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	assert.Equal(t, `{"title":"perf"}`, doc.String())
}

func TestMigrateEmptyRegister(t *testing.T) {
	runner := newTestRunner()
	doc := dashboard.MustNewDocument(`{"version":"3"}`)
	_, err := runner.Migrate(doc)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0), runner.Latest())
	assert.Equal(t, `{"version":"3"}`, doc.String())
}
