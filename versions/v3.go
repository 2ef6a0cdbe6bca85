package versions

import (
	"strings"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/migration"
	"github.com/perfkit/dashboard/walker"
	"github.com/tidwall/gjson"
)

// V3 requires every widget datasource to declare whether it runs a hand
// written query. Widgets that already carry a query text are marked as
// custom.
//
//	# BEFORE:
//	'datasource': {'query': 'SELECT ...', 'config': {...}}
//
//	# AFTER:
//	'datasource': {'query': 'SELECT ...', 'config': {...}, 'custom_query': true}
func V3(wk *walker.Walker) migration.Schema {
	return &migration.WidgetSchema{
		Number:  3,
		Walker:  wk,
		Require: migration.RequireWidget("datasource.custom_query"),
		Upgrade: func(w *dashboard.Widget) error {
			ds, err := w.Object("datasource")
			if err != nil {
				return err
			}
			if w.Has("datasource.custom_query") {
				return nil
			}
			query := ds.Get("query")
			custom := query.Type == gjson.String && strings.TrimSpace(query.Str) != ""
			return w.Set("datasource.custom_query", custom)
		},
	}
}
