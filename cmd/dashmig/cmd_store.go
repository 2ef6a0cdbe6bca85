package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/docstore"
	"github.com/perfkit/dashboard/errors"
)

func cmdFetch(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Load a dashboard document from the database and write it to the output. The
document is migrated to the latest schema version unless -raw is given. The
stored document is never changed.
		`)
		fl.PrintDefaults()
	}
	logger := flLogger(fl)
	dbPath := flDB(fl)
	revisioned := fl.Bool("revisions", false, "Use a revisioned database.")
	id := fl.String("id", "", "Dashboard ID.")
	raw := fl.Bool("raw", false, "Write the document as stored, without migration.")
	fl.Parse(args)

	db, release, err := openStore(*dbPath, *revisioned)
	if err != nil {
		return err
	}
	defer release()

	var doc *dashboard.Document
	if *raw {
		doc, err = docstore.NewBucket().Fetch(db, *id)
	} else {
		log := logger()
		doc, err = docstore.NewMigratingBucket(newRunner(log), log).Fetch(db, *id)
	}
	if err != nil {
		return err
	}
	return writeDocument(output, doc)
}

func cmdSave(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Read a dashboard document from the input and store it in the database under
given ID. The document is migrated to the latest schema version before it is
written, unless -raw is given.
		`)
		fl.PrintDefaults()
	}
	logger := flLogger(fl)
	dbPath := flDB(fl)
	revisioned := fl.Bool("revisions", false, "Use a revisioned database.")
	id := fl.String("id", "", "Dashboard ID.")
	raw := fl.Bool("raw", false, "Store the document as given, without migration.")
	fl.Parse(args)

	doc, err := readDocument(input)
	if err != nil {
		return err
	}

	db, release, err := openStore(*dbPath, *revisioned)
	if err != nil {
		return err
	}

	if *raw {
		err = docstore.NewBucket().Save(db, *id, doc)
	} else {
		log := logger()
		err = docstore.NewMigratingBucket(newRunner(log), log).Save(db, *id, doc)
	}
	if err != nil {
		release()
		return err
	}
	return release()
}

func cmdDelete(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Remove a dashboard document from the database.
		`)
		fl.PrintDefaults()
	}
	dbPath := flDB(fl)
	revisioned := fl.Bool("revisions", false, "Use a revisioned database.")
	id := fl.String("id", "", "Dashboard ID.")
	fl.Parse(args)

	db, release, err := openStore(*dbPath, *revisioned)
	if err != nil {
		return err
	}
	if err := docstore.NewBucket().Delete(db, *id); err != nil {
		release()
		return err
	}
	return release()
}

func cmdList(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Write IDs of all stored dashboard documents to the output, one per line.
		`)
		fl.PrintDefaults()
	}
	dbPath := flDB(fl)
	revisioned := fl.Bool("revisions", false, "Use a revisioned database.")
	fl.Parse(args)

	db, release, err := openStore(*dbPath, *revisioned)
	if err != nil {
		return err
	}
	defer release()

	ids, err := docstore.NewBucket().IDs(db)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(output, id)
	}
	return nil
}

// migrationResult is the output representation of docstore.Result.
type migrationResult struct {
	ID    string `json:"id"`
	From  uint32 `json:"from"`
	To    uint32 `json:"to"`
	Error string `json:"error,omitempty"`
}

func cmdMigrateAll(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Migrate every stored dashboard document to the latest schema version and
write the outcome for each document to the output as JSON.

A document that cannot be migrated is left unchanged. With -revisions the
state before the migration is committed as a separate revision, so that the
original documents stay retrievable.
		`)
		fl.PrintDefaults()
	}
	logger := flLogger(fl)
	dbPath := flDB(fl)
	revisioned := fl.Bool("revisions", false, "Use a revisioned database.")
	fl.Parse(args)

	db, release, err := openStore(*dbPath, *revisioned)
	if err != nil {
		return err
	}

	log := logger()
	if c, ok := db.(dashboard.CommitKVStore); ok {
		rev, err := c.Commit()
		if err != nil {
			release()
			return errors.Wrap(err, "commit state before migration")
		}
		log.Info("state before migration committed", "revision", rev)
	}

	results, err := docstore.NewMigratingBucket(newRunner(log), log).MigrateAll(db)
	if err != nil {
		release()
		return err
	}
	if err := release(); err != nil {
		return err
	}

	out := make([]migrationResult, 0, len(results))
	var failed int
	for _, r := range results {
		res := migrationResult{ID: r.ID, From: r.From, To: r.To}
		if r.Err != nil {
			res.Error = r.Err.Error()
			failed++
		}
		out = append(out, res)
	}
	if err := writeJSON(output, out); err != nil {
		return err
	}
	if failed != 0 {
		return errors.Wrapf(errors.ErrState, "%d of %d dashboards not migrated", failed, len(results))
	}
	return nil
}
