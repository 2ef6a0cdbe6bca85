package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/perfkit/dashboard/walker"
	"github.com/tendermint/tendermint/libs/log"
)

// flPath returns a container path that is being initialized with given
// default value and optionally overwritten by a command line argument if
// provided. Path segments are separated with a slash.
func flPath(fl *flag.FlagSet, name, defaultVal, usage string) *walker.Path {
	p := walker.ParsePath(defaultVal)
	fl.Var((*flagpath)(&p), name, usage)
	return &p
}

type flagpath walker.Path

func (p flagpath) String() string {
	return walker.Path(p).String()
}

func (p *flagpath) Set(raw string) error {
	*p = flagpath(walker.ParsePath(raw))
	return nil
}

// flLogger registers a log level flag and returns a function building the
// logger. The level defaults to the DASHMIG_LOG environment variable.
func flLogger(fl *flag.FlagSet) func() log.Logger {
	level := fl.String("log-level", env("DASHMIG_LOG", "info"), "Log level: debug, info, error or none.")
	return func() log.Logger {
		logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
		opt, err := log.AllowLevel(*level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -log-level value. %s\n", err)
			os.Exit(2)
		}
		return log.NewFilter(logger, opt)
	}
}

// flDB registers a database path flag. The path defaults to the DASHMIG_DB
// environment variable.
func flDB(fl *flag.FlagSet) *string {
	return fl.String("db", env("DASHMIG_DB", "dashboards.db"),
		`Database directory, must end with .db. Use "memdb" for an in memory database.`)
}
