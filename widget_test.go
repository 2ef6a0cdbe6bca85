package dashboard

import (
	"testing"

	"github.com/perfkit/dashboard/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetDoc = `{"children":[{"id":"w1","datasource":{"query":"","config":{"results":{
  "show_date":false,"row_limit":0,"date_group":"","fields":[],"pivot":null}}}},
  {"id":"w2","datasource":{"config":{}}},
  {"id":"w3","datasource":{"config":{"results":[]}}}]}`

func TestWidgetHas(t *testing.T) {
	doc := MustNewDocument(widgetDoc)
	w := NewWidget(doc, "children.0", 1)

	res, err := w.Results()
	require.NoError(t, err)

	for _, field := range []string{"show_date", "row_limit", "date_group", "fields"} {
		assert.True(t, res.Has(field), "%s must be defined", field)
	}
	for _, field := range []string{"pivot", "measures"} {
		assert.False(t, res.Has(field), "%s must not be defined", field)
	}
	assert.True(t, w.Has("datasource.query"))
	assert.False(t, w.Has("datasource.custom_query"))
	assert.Equal(t, "children.0.datasource.config.results", res.Path())
}

func TestWidgetResultsStructure(t *testing.T) {
	doc := MustNewDocument(widgetDoc)

	cases := map[string]string{
		"missing results":    "children.1",
		"results not object": "children.2",
	}
	for testName, path := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := NewWidget(doc, path, 1).Results()
			require.Error(t, err)
			assert.True(t, errors.ErrStructure.Is(err), "unexpected error: %+v", err)
			got, ok := errors.FieldPath(err)
			assert.True(t, ok)
			assert.Equal(t, path, got)
		})
	}
}

func TestResultsSet(t *testing.T) {
	doc := MustNewDocument(`{"children":[{"datasource":{"config":{"results":{"date_group":"Daily"}}},"layout":{"x":1}}]}`)
	w := NewWidget(doc, "children.0", 1)
	res, err := w.Results()
	require.NoError(t, err)

	require.NoError(t, res.Set("show_date", true))
	require.NoError(t, res.Set("date_group", "DAY"))
	require.NoError(t, res.SetRaw("fields", "[]"))

	assert.Equal(t,
		`{"children":[{"datasource":{"config":{"results":{"date_group":"DAY","show_date":true,"fields":[]}}},"layout":{"x":1}}]}`,
		doc.String())
	assert.Equal(t, doc, w.Document())
}
