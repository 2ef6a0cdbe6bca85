package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/settings"
)

func cmdSettings(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Write the application settings stored in the database to the output as JSON.

With -file, settings present in given YAML or JSON file are applied and the
result is stored. With -update, a JSON object with settings to change is read
from the input. Settings missing from an update are left unchanged.
		`)
		fl.PrintDefaults()
	}
	dbPath := flDB(fl)
	revisioned := fl.Bool("revisions", false, "Use a revisioned database.")
	file := fl.String("file", "", "YAML or JSON file with settings to apply.")
	update := fl.Bool("update", false, "Read settings to apply from the input.")
	fl.Parse(args)

	var updates []settings.Update
	if *file != "" {
		u, err := settings.ReadFile(*file)
		if err != nil {
			return err
		}
		updates = append(updates, u)
	}
	if *update {
		raw, err := readAll(input)
		if err != nil {
			return err
		}
		u, err := settings.ParseUpdate(raw)
		if err != nil {
			return err
		}
		updates = append(updates, u)
	}

	db, release, err := openStore(*dbPath, *revisioned)
	if err != nil {
		return err
	}

	var s settings.Settings
	if err := settings.Load(db, settings.Name, &s); err != nil && !errors.ErrNotFound.Is(err) {
		release()
		return err
	}
	if len(updates) != 0 {
		for _, u := range updates {
			s.Populate(u)
		}
		if err := settings.Save(db, settings.Name, &s); err != nil {
			release()
			return err
		}
	}
	if err := release(); err != nil {
		return err
	}
	return writeJSON(output, s.Serialize(nil))
}
