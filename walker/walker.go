package walker

import (
	stderrors "errors"
	"strconv"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/errors"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tidwall/gjson"
)

// DefaultContainerKeys are the attributes holding nested nodes.
var DefaultContainerKeys = []string{"children", "tabs"}

// Visitor is called once for every widget found by a walk. Returning an
// error stops the walk and the error is returned to the walk caller.
type Visitor func(w *dashboard.Widget) error

// Check tests a single widget against a schema requirement. It returns an
// ErrSchema error when the requirement is not met. Any other error is
// treated as a failure of the verification itself.
type Check func(w *dashboard.Widget) error

// Walker traverses widgets of dashboard documents. It is stateless and can be
// shared by any number of goroutines, each working on a different document.
type Walker struct {
	keys   []string
	logger log.Logger
}

// New returns a walker. If no container keys are given, DefaultContainerKeys
// are used.
func New(logger log.Logger, containerKeys ...string) *Walker {
	if len(containerKeys) == 0 {
		containerKeys = DefaultContainerKeys
	}
	return &Walker{
		keys:   containerKeys,
		logger: dashboard.LoggerOrDefault(logger),
	}
}

// Widgets returns document paths of all widgets found in the container
// addressed by given path, in walk order.
func (wk *Walker) Widgets(doc *dashboard.Document, p Path) ([]string, error) {
	root, err := wk.resolve(doc, p)
	if err != nil {
		return nil, err
	}
	var paths []string
	if err := wk.collect(doc.Get(root), root, &paths, nil); err != nil {
		return nil, err
	}
	return paths, nil
}

// Containers returns document paths of all containers nested in the
// container addressed by given path, in walk order. The addressed container
// itself is not included.
func (wk *Walker) Containers(doc *dashboard.Document, p Path) ([]string, error) {
	root, err := wk.resolve(doc, p)
	if err != nil {
		return nil, err
	}
	var widgets, containers []string
	if err := wk.collect(doc.Get(root), root, &widgets, &containers); err != nil {
		return nil, err
	}
	return containers, nil
}

// ForEachWidget calls visit for every widget of the container addressed by
// given path, depth first, in document order. All widget paths are resolved
// before the first call, so a visitor may write into the document.
//
// Widget ordinals are counted from 1 within the walked container.
func (wk *Walker) ForEachWidget(doc *dashboard.Document, p Path, visit Visitor) error {
	paths, err := wk.Widgets(doc, p)
	if err != nil {
		return err
	}
	for i, wp := range paths {
		if err := visit(dashboard.NewWidget(doc, wp, i+1)); err != nil {
			return err
		}
	}
	return nil
}

// VerifyDashboard returns true if given check holds for every widget of the
// container addressed by given path. It stops at the first widget that does
// not meet the requirement and logs which requirement failed. The log entry
// is informational only.
//
// A document without widgets is valid.
func (wk *Walker) VerifyDashboard(doc *dashboard.Document, p Path, check Check) (bool, error) {
	valid := true
	err := wk.ForEachWidget(doc, p, func(w *dashboard.Widget) error {
		err := check(w)
		switch {
		case err == nil:
			return nil
		case errors.ErrSchema.Is(err):
			wk.logger.Info("widget does not satisfy schema",
				"widget", w.Path(),
				"reason", err.Error())
			valid = false
			return errStopWalk
		default:
			return err
		}
	})
	if err != nil && err != errStopWalk {
		return false, err
	}
	return valid, nil
}

var errStopWalk = stderrors.New("stop walk")

// collect appends widget paths to widgets and, when not nil, nested container
// paths to containers.
func (wk *Walker) collect(node gjson.Result, nodePath string, widgets, containers *[]string) error {
	var err error
	node.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !wk.isKey(name) || value.Type == gjson.Null {
			return true
		}
		listPath := dashboard.JoinPath(nodePath, name)
		if !value.IsArray() {
			err = errors.Field(listPath, errors.ErrStructure, "%s must be an array", name)
			return false
		}
		for i, el := range value.Array() {
			elPath := dashboard.JoinPath(listPath, strconv.Itoa(i))
			if !el.IsObject() {
				err = errors.Field(elPath, errors.ErrStructure, "element must be an object")
				return false
			}
			if !wk.isContainer(el) {
				*widgets = append(*widgets, elPath)
				continue
			}
			if containers != nil {
				*containers = append(*containers, elPath)
			}
			if err = wk.collect(el, elPath, widgets, containers); err != nil {
				return false
			}
		}
		return true
	})
	return err
}

// isContainer returns true if the node holds a non null value under any of
// the container keys. A null container key is ignored, the same as by
// collect.
func (wk *Walker) isContainer(node gjson.Result) bool {
	if !node.IsObject() {
		return false
	}
	for _, k := range wk.keys {
		if v := node.Get(gjson.Escape(k)); v.Exists() && v.Type != gjson.Null {
			return true
		}
	}
	return false
}

func (wk *Walker) isKey(name string) bool {
	for _, k := range wk.keys {
		if k == name {
			return true
		}
	}
	return false
}
