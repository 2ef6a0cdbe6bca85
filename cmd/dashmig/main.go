package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/perfkit/dashboard"
)

// commands is a register of all availables commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// When a cmd function is called it is given stdin, stdout and command line
// arguments except the program name and this command name. It is the
// responsibility of the command function to parse the arguments. Diagnostics
// are logged to os.Stderr.
//
// Commands working on a single document read it from the input and write the
// result to the output, so they can be combined into a pipeline:
//
//   $ dashmig fetch -raw -id perf \
//       | dashmig migrate \
//       | dashmig verify
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"delete":      cmdDelete,
	"fetch":       cmdFetch,
	"list":        cmdList,
	"migrate":     cmdMigrate,
	"migrate-all": cmdMigrateAll,
	"save":        cmdSave,
	"settings":    cmdSettings,
	"verify":      cmdVerify,
	"version":     cmdVersion,
	"versions":    cmdVersions,
	"widgets":     cmdWidgets,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s migrates dashboard documents to the latest schema version.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, dashboard.Version())
	return nil
}
