package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/perfkit/dashboard"
	"github.com/perfkit/dashboard/errors"
	"github.com/perfkit/dashboard/walker"
)

func cmdMigrate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Read a dashboard document from the input, migrate it to the latest schema
version and write it to the output.

Only the parts of the document that a schema version requires are changed.
A document with an unrecognized or a future version is written unchanged.
		`)
		fl.PrintDefaults()
	}
	logger := flLogger(fl)
	fl.Parse(args)

	doc, err := readDocument(input)
	if err != nil {
		return err
	}
	if _, err := newRunner(logger()).Migrate(doc); err != nil {
		return err
	}
	return writeDocument(output, doc)
}

func cmdVerify(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Read a dashboard document from the input and check it against every schema
version up to the given one. The result of each check is written to the
output. The reason of a failed check is logged.
		`)
		fl.PrintDefaults()
	}
	logger := flLogger(fl)
	upTo := fl.Uint("version", 0, "Last schema version to check. Latest version by default.")
	fl.Parse(args)

	doc, err := readDocument(input)
	if err != nil {
		return err
	}
	reg := newRunner(logger()).Register()
	last := uint32(*upTo)
	if last == 0 {
		last = reg.Latest()
	}
	if _, ok := reg.Schema(last); !ok {
		return errors.Wrapf(errors.ErrInput, "unknown schema version %d", last)
	}

	var failed []string
	for _, v := range reg.Versions() {
		if v > last {
			break
		}
		s, _ := reg.Schema(v)
		ok, err := s.Verify(doc)
		if err != nil {
			return errors.Wrapf(err, "verify version %d", v)
		}
		status := "ok"
		if !ok {
			status = "fail"
			failed = append(failed, fmt.Sprint(v))
		}
		fmt.Fprintf(output, "version %d: %s\n", v, status)
	}
	if len(failed) != 0 {
		return errors.Wrapf(errors.ErrSchema, "versions not satisfied: %s", strings.Join(failed, ", "))
	}
	return nil
}

func cmdVersions(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Write all known schema versions to the output, one per line. With -pending,
read a dashboard document from the input and write only versions that a
migration of that document would apply.
		`)
		fl.PrintDefaults()
	}
	pending := fl.Bool("pending", false, "Read a document and list versions pending for it.")
	fl.Parse(args)

	runner := newRunner(nil)
	list := runner.Register().Versions()
	if *pending {
		doc, err := readDocument(input)
		if err != nil {
			return err
		}
		list = runner.Pending(doc)
	}
	for _, v := range list {
		fmt.Fprintln(output, v)
	}
	return nil
}

func cmdWidgets(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Read a dashboard document from the input and write the document path of
every widget to the output, in walk order.
		`)
		fl.PrintDefaults()
	}
	logger := flLogger(fl)
	container := flPath(fl, "path", "", "Slash separated container path, for example overview/latency. Document root by default.")
	fl.Parse(args)

	doc, err := readDocument(input)
	if err != nil {
		return err
	}
	wk := walker.New(logger())
	return wk.ForEachWidget(doc, *container, func(w *dashboard.Widget) error {
		_, err := fmt.Fprintf(output, "%d\t%s\t%s\n", w.Ordinal(), w.Path(), w.Get("id").String())
		return err
	})
}
