package dashboard

import (
	"github.com/perfkit/dashboard/errors"
	"github.com/tidwall/gjson"
)

// ResultsPath is the path of the results configuration relative to a widget.
const ResultsPath = "datasource.config.results"

// Widget is a leaf presentation node of a document. It is a view of the
// document it was found in and all writes go directly into that document.
type Widget struct {
	doc     *Document
	path    string
	ordinal int
}

// NewWidget returns a widget view of the node found under given path.
// Ordinal is the 1-based position of the widget in the document walk order.
func NewWidget(doc *Document, path string, ordinal int) *Widget {
	return &Widget{doc: doc, path: path, ordinal: ordinal}
}

// Path returns the document path of this widget.
func (w *Widget) Path() string {
	return w.path
}

// Ordinal returns the 1-based position of the widget in walk order.
func (w *Widget) Ordinal() int {
	return w.ordinal
}

// Document returns the document this widget belongs to.
func (w *Widget) Document() *Document {
	return w.doc
}

// Get returns the node found under given path relative to this widget.
func (w *Widget) Get(rel string) gjson.Result {
	return w.doc.Get(joinRaw(w.path, rel))
}

// Has returns true if a value is defined under given relative path. A value
// is defined when the key is present and the value is not null. False, zero
// and empty values are defined.
func (w *Widget) Has(rel string) bool {
	return defined(w.Get(rel))
}

// Set writes a value under given path relative to this widget.
func (w *Widget) Set(rel string, value interface{}) error {
	return w.doc.Set(joinRaw(w.path, rel), value)
}

// SetRaw writes a raw JSON value under given path relative to this widget.
func (w *Widget) SetRaw(rel string, value string) error {
	return w.doc.SetRaw(joinRaw(w.path, rel), value)
}

// Object returns the object found under given relative path. A missing node
// or a node of any other type is a structural defect.
func (w *Widget) Object(rel string) (gjson.Result, error) {
	res := w.Get(rel)
	if !res.IsObject() {
		return res, errors.Field(w.path, errors.ErrStructure, "%s is not an object", rel)
	}
	return res, nil
}

// Results returns the results configuration of this widget. A widget without
// a results object is a structural defect and ErrStructure is returned.
func (w *Widget) Results() (*Results, error) {
	if _, err := w.Object(ResultsPath); err != nil {
		return nil, err
	}
	return &Results{w: w}, nil
}

// Results is a view of a widget's datasource.config.results object.
type Results struct {
	w *Widget
}

// Path returns the document path of the results object.
func (r *Results) Path() string {
	return joinRaw(r.w.path, ResultsPath)
}

// Get returns the value of a results field.
func (r *Results) Get(field string) gjson.Result {
	return r.w.Get(joinRaw(ResultsPath, field))
}

// Has returns true if the results field is defined. See Widget.Has.
func (r *Results) Has(field string) bool {
	return defined(r.Get(field))
}

// Set writes a results field.
func (r *Results) Set(field string, value interface{}) error {
	return r.w.Set(joinRaw(ResultsPath, field), value)
}

// SetRaw writes a raw JSON value as a results field.
func (r *Results) SetRaw(field string, value string) error {
	return r.w.SetRaw(joinRaw(ResultsPath, field), value)
}

func defined(res gjson.Result) bool {
	return res.Exists() && res.Type != gjson.Null
}
