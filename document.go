package dashboard

import (
	"strconv"
	"strings"

	"github.com/perfkit/dashboard/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// VersionKey is the name of the top level attribute holding the schema
// version of a document.
const VersionKey = "version"

// Document is a dashboard definition. It owns a copy of the JSON it was
// created from and all writes are applied to that copy in place.
//
// A Document must not be migrated by two callers at the same time.
type Document struct {
	raw []byte
}

// NewDocument returns a document for given JSON. The JSON must be an object.
func NewDocument(raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.Wrap(errors.ErrInput, "invalid json")
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return nil, errors.Wrap(errors.ErrStructure, "document must be a json object")
	}
	return &Document{raw: clone(raw)}, nil
}

// MustNewDocument is like NewDocument but panics on error. Use it for
// constants and tests only.
func MustNewDocument(raw string) *Document {
	d, err := NewDocument([]byte(raw))
	if err != nil {
		panic(err)
	}
	return d
}

// Bytes returns the current JSON representation of the document. Returned
// slice must not be modified.
func (d *Document) Bytes() []byte {
	return d.raw
}

func (d *Document) String() string {
	return string(d.raw)
}

// Get returns the node found under given path. Empty path returns the
// document root. Use Result.Exists to test for presence.
func (d *Document) Get(path string) gjson.Result {
	if path == "" {
		return gjson.ParseBytes(d.raw)
	}
	return gjson.GetBytes(d.raw, path)
}

// Set writes a value under given path, creating missing objects on the way.
func (d *Document) Set(path string, value interface{}) error {
	raw, err := sjson.SetBytes(d.raw, path, value)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "set %q: %s", path, err)
	}
	d.raw = raw
	return nil
}

// SetRaw writes a raw JSON value under given path.
func (d *Document) SetRaw(path string, value string) error {
	if !gjson.Valid(value) {
		return errors.Wrapf(errors.ErrInput, "set %q: invalid json value", path)
	}
	raw, err := sjson.SetRawBytes(d.raw, path, []byte(value))
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "set %q: %s", path, err)
	}
	d.raw = raw
	return nil
}

// Snapshot returns a copy of the current document state that can be passed
// to Restore.
func (d *Document) Snapshot() []byte {
	return clone(d.raw)
}

// Restore brings the document back to a state returned by Snapshot.
func (d *Document) Restore(snapshot []byte) {
	d.raw = clone(snapshot)
}

// Version returns the schema version stored in the document. A missing or
// null version is reported as 0, which means no schema version was applied
// yet. Integers and strings holding an integer are recognized.
//
// The second value is false when the stored value is not a recognized
// version identifier.
func (d *Document) Version() (uint32, bool) {
	v := gjson.GetBytes(d.raw, VersionKey)
	var text string
	switch v.Type {
	case gjson.Null:
		return 0, true
	case gjson.String:
		text = v.Str
	case gjson.Number:
		text = v.Raw
	default:
		return 0, false
	}
	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// SetVersion stamps the document with given schema version. The JSON type of
// the stored version is kept: numbers stay numbers, everything else is
// written as a string.
//
// Version is never decremented. Setting a version lower than the one
// currently stored fails with ErrState.
func (d *Document) SetVersion(v uint32) error {
	if cur, ok := d.Version(); ok && v < cur {
		return errors.Wrapf(errors.ErrState, "cannot decrement version %d to %d", cur, v)
	}
	if gjson.GetBytes(d.raw, VersionKey).Type == gjson.Number {
		return d.Set(VersionKey, v)
	}
	return d.Set(VersionKey, strconv.FormatUint(uint64(v), 10))
}

// JoinPath extends a document path with given components. Base is used as
// is, components are escaped so that keys containing path syntax are
// addressed literally.
func JoinPath(base string, components ...string) string {
	parts := make([]string, 0, len(components)+1)
	if base != "" {
		parts = append(parts, base)
	}
	for _, c := range components {
		if c == "" {
			continue
		}
		parts = append(parts, gjson.Escape(c))
	}
	return strings.Join(parts, ".")
}

func joinRaw(base, rel string) string {
	switch {
	case base == "":
		return rel
	case rel == "":
		return base
	}
	return base + "." + rel
}

func clone(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
