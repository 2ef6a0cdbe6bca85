package main

import (
	"io"
	"io/ioutil"

	jsoniter "github.com/json-iterator/go"
	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/migration"
	"github.com/perfkit/dashboard/store"
	"github.com/perfkit/dashboard/store/iavl"
	"github.com/perfkit/dashboard/versions"
	"github.com/tendermint/tendermint/libs/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func readAll(r io.Reader) ([]byte, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

func readDocument(r io.Reader) (*dashboard.Document, error) {
	raw, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return dashboard.NewDocument(raw)
}

func writeDocument(w io.Writer, doc *dashboard.Document) error {
	_, err := w.Write(doc.Bytes())
	return err
}

// writeJSON writes an indented JSON representation of given value.
func writeJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = w.Write(append(raw, '\n'))
	return err
}

func newRunner(logger log.Logger) *migration.Runner {
	return migration.NewRunner(versions.NewRegister(logger), logger)
}

// openStore returns the database found under given path and a function that
// must be called to release it.
//
// A revisioned store keeps every committed revision of the data. Writes are
// committed as a new revision when the store is released.
func openStore(path string, revisioned bool) (dashboard.KVStore, func() error, error) {
	if !revisioned {
		db, err := store.OpenDB(path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	}

	var cs *iavl.CommitStore
	if path == "memdb" {
		cs = iavl.MockCommitStore()
	} else {
		dir, name, err := store.SplitDBPath(path)
		if err != nil {
			return nil, nil, err
		}
		if cs, err = iavl.NewCommitStore(dir, name); err != nil {
			return nil, nil, err
		}
	}
	release := func() error {
		if !cs.Dirty() {
			return cs.Close()
		}
		if _, err := cs.Commit(); err != nil {
			cs.Close()
			return errors.Wrap(err, "commit")
		}
		return cs.Close()
	}
	return cs, release, nil
}
