package versions

import (
	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/migration"
	"github.com/perfkit/dashboard/walker"
)

const emptyPivotConfig = `{"row_field":"","column_field":"","value_field":""}`

// V2 requires every widget to carry a pivot configuration.
//
//	# BEFORE:
//	'results': {'pivot': false}
//
//	# AFTER:
//	'results': {
//	  'pivot': false,
//	  'pivot_config': {'row_field': '', 'column_field': '', 'value_field': ''}
//	}
func V2(wk *walker.Walker) migration.Schema {
	return &migration.WidgetSchema{
		Number:  2,
		Walker:  wk,
		Require: migration.RequireResult("pivot_config"),
		Upgrade: func(w *dashboard.Widget) error {
			res, err := w.Results()
			if err != nil {
				return err
			}
			if res.Has("pivot_config") {
				return nil
			}
			return res.SetRaw("pivot_config", emptyPivotConfig)
		},
	}
}
