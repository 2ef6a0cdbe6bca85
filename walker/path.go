package walker

import (
	"strconv"
	"strings"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/errors"
	"github.com/tidwall/gjson"
)

// Path addresses a container inside of a document. Each segment selects a
// child of the current container, either by the child's "id" attribute or,
// when no child has that id and the segment is an integer, by its zero based
// position. An empty path addresses the document root.
type Path []string

// Root is the path of the document root.
var Root Path

// ParsePath returns a path read from a slash separated string, for example
// "overview/latency". Empty segments are ignored.
func ParsePath(s string) Path {
	var p Path
	for _, seg := range strings.Split(s, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			p = append(p, seg)
		}
	}
	return p
}

func (p Path) String() string {
	return "/" + strings.Join(p, "/")
}

// resolve returns the document path of the container addressed by p.
func (wk *Walker) resolve(doc *dashboard.Document, p Path) (string, error) {
	node := doc.Get("")
	docPath := ""
	for depth, seg := range p {
		next, err := wk.child(node, docPath, seg)
		if err != nil {
			return "", errors.Wrapf(err, "container %s", p[:depth+1])
		}
		docPath = next
		node = doc.Get(docPath)
		if !wk.isContainer(node) {
			return "", errors.Field(docPath, errors.ErrStructure, "%s addresses a widget", p[:depth+1])
		}
	}
	return docPath, nil
}

// child returns the document path of a child of given container node that
// is matching the segment.
func (wk *Walker) child(node gjson.Result, nodePath string, seg string) (string, error) {
	var (
		byID  string
		byPos []string
	)
	index, err := strconv.Atoi(seg)
	isIndex := err == nil && index >= 0

	for _, key := range wk.keys {
		list := node.Get(gjson.Escape(key))
		if !list.IsArray() {
			continue
		}
		for i, el := range list.Array() {
			elPath := dashboard.JoinPath(nodePath, key, strconv.Itoa(i))
			if byID == "" && el.IsObject() && el.Get("id").Exists() && el.Get("id").String() == seg {
				byID = elPath
			}
			if isIndex && i == index {
				byPos = append(byPos, elPath)
			}
		}
	}
	switch {
	case byID != "":
		return byID, nil
	case len(byPos) == 1:
		return byPos[0], nil
	case len(byPos) > 1:
		return "", errors.Field(nodePath, errors.ErrStructure, "index %d is ambiguous", index)
	}
	return "", errors.Field(nodePath, errors.ErrStructure, "no child %q", seg)
}
