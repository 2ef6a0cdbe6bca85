package versions

import (
	"fmt"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/migration"
	"github.com/perfkit/dashboard/walker"
	"github.com/tidwall/gjson"
)

// V5 requires every widget to carry an id. Missing ids are derived from the
// widget position in the document, so the result depends on walk order.
//
//	# BEFORE:
//	'children': [{'title': 'latency'}, {'id': 'widget-1'}, {'title': 'cpu'}]
//
//	# AFTER:
//	'children': [
//	  {'title': 'latency', 'id': 'widget-1-2'},
//	  {'id': 'widget-1'},
//	  {'title': 'cpu', 'id': 'widget-3'}
//	]
//
// A generated id that is already used by another widget or by a container
// gets a numeric suffix, so container paths keep resolving by id.
func V5(wk *walker.Walker) migration.Schema {
	return &widgetIDs{wk: wk}
}

type widgetIDs struct {
	wk *walker.Walker
}

func (s *widgetIDs) Version() uint32 {
	return 5
}

func (s *widgetIDs) Verify(doc *dashboard.Document) (bool, error) {
	return s.wk.VerifyDashboard(doc, walker.Root, migration.RequireWidget("id"))
}

func (s *widgetIDs) Update(doc *dashboard.Document) error {
	used := make(map[string]bool)
	containers, err := s.wk.Containers(doc, walker.Root)
	if err != nil {
		return err
	}
	for _, c := range containers {
		if id := doc.Get(dashboard.JoinPath(c, "id")); id.Exists() && id.Type != gjson.Null {
			used[id.String()] = true
		}
	}
	err = s.wk.ForEachWidget(doc, walker.Root, func(w *dashboard.Widget) error {
		if w.Has("id") {
			used[w.Get("id").String()] = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.wk.ForEachWidget(doc, walker.Root, func(w *dashboard.Widget) error {
		if w.Has("id") {
			return nil
		}
		id := fmt.Sprintf("widget-%d", w.Ordinal())
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("widget-%d-%d", w.Ordinal(), n)
		}
		used[id] = true
		return w.Set("id", id)
	})
}
