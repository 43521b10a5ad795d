// Command nbtschema is the driver CLI: it reads
// an archive path and an entity-list JSON file, runs the abstract
// interpreter over each entity's save entry point, and prints the
// resulting schema JSON document to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/nbtschema/inferencer/internal/config"
	"github.com/nbtschema/inferencer/internal/driver"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <archive-path> <entity-list.json> [schema-version-tag] [-pins <pins.yaml>] [-cache [db-path]]\n", os.Args[0])
}

func main() {
	if len(os.Args) >= 2 && (os.Args[1] == "-help" || os.Args[1] == "--help" || os.Args[1] == "help") {
		usage()
		return
	}
	if len(os.Args) >= 2 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		fmt.Println(config.Version)
		return
	}
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	opts := driver.Options{
		ArchivePath:    os.Args[1],
		EntityListPath: os.Args[2],
	}

	args := os.Args[3:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-pins", "--pins":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "abort: -pins requires a path argument")
				os.Exit(1)
			}
			opts.PinsPath = args[i]
		case "-cache", "--cache":
			if i+1 < len(args) && args[i+1][0] != '-' {
				i++
				opts.CacheDBPath = args[i]
			} else {
				opts.CacheDBPath = config.DefaultCacheDBFile
			}
		default:
			if opts.SchemaVersionTag == "" && len(args[i]) > 0 && args[i][0] != '-' {
				opts.SchemaVersionTag = args[i]
				continue
			}
			fmt.Fprintf(os.Stderr, "abort: unrecognized argument %q\n", args[i])
			os.Exit(1)
		}
	}

	runID := uuid.New().String()
	colorize := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	opts.Warn = func(format string, args ...any) {
		logLine(runID, colorize, "warning: "+fmt.Sprintf(format, args...))
	}

	doc, err := driver.Run(opts)
	if err != nil {
		logLine(runID, colorize, "abort: "+err.Error())
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		logLine(runID, colorize, "abort: encoding output: "+err.Error())
		os.Exit(1)
	}
}

// logLine writes one stderr status line stamped with this run's
// correlation id (purely a logging convenience; it never touches the
// deterministic output document). colorize dims the id when stderr is a
// real terminal, matching how the teacher decides whether to emit ANSI
// codes for its own terminal builtins.
func logLine(runID string, colorize bool, message string) {
	if colorize {
		fmt.Fprintf(os.Stderr, "\x1b[2m[%s]\x1b[0m %s\n", runID, message)
		return
	}
	fmt.Fprintf(os.Stderr, "[%s] %s\n", runID, message)
}
