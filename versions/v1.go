package versions

import (
	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/migration"
	"github.com/perfkit/dashboard/walker"
)

// V1 requires every widget to declare whether its results are pivoted.
//
//	# BEFORE:
//	'results': {'fields': [...]}
//
//	# AFTER:
//	'results': {'fields': [...], 'pivot': false}
func V1(wk *walker.Walker) migration.Schema {
	return &migration.WidgetSchema{
		Number:  1,
		Walker:  wk,
		Require: migration.RequireResult("pivot"),
		Upgrade: func(w *dashboard.Widget) error {
			res, err := w.Results()
			if err != nil {
				return err
			}
			if res.Has("pivot") {
				return nil
			}
			return res.Set("pivot", false)
		},
	}
}
