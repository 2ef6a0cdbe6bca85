package versions

import (
	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/migration"
	"github.com/perfkit/dashboard/walker"
)

// legacyDateGroups maps free text groupings used before version 4 to the
// enumerated date groups. Any other grouping is dropped.
var legacyDateGroups = map[string]string{
	"Daily":  "DAY",
	"Weekly": "WEEK",
}

// V4 replaces the free text date grouping with a date toggle and an
// enumerated group, and makes field and measure lists mandatory.
//
//	# BEFORE:
//	'results': {'date_group': 'Daily'}
//
//	# AFTER:
//	'results': {'date_group': 'DAY', 'show_date': true, 'fields': [], 'measures': []}
//
// Groupings other than Daily and Weekly, including a missing one, become
// show_date false with an empty date_group. The original text is not kept.
// Documents stamped with version 4 were produced with this loss, so it must
// stay.
//
// Field and measure defaults are applied to every widget, independently of
// the date grouping.
func V4(wk *walker.Walker) migration.Schema {
	return &migration.WidgetSchema{
		Number:  4,
		Walker:  wk,
		Require: migration.RequireResult("show_date"),
		Upgrade: upgradeV4,
	}
}

func upgradeV4(w *dashboard.Widget) error {
	res, err := w.Results()
	if err != nil {
		return err
	}

	if !res.Has("show_date") {
		legacy := res.Get("date_group").String()
		showDate, dateGroup := false, ""
		if group, ok := legacyDateGroups[legacy]; ok {
			showDate, dateGroup = true, group
		}
		if err := res.Set("show_date", showDate); err != nil {
			return err
		}
		if err := res.Set("date_group", dateGroup); err != nil {
			return err
		}
	}

	for _, field := range []string{"fields", "measures"} {
		if res.Has(field) {
			continue
		}
		if err := res.SetRaw(field, "[]"); err != nil {
			return err
		}
	}
	return nil
}
