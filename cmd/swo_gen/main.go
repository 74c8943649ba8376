package main

import (
	"flag"
	"io"
	"os"

	"swogen/internal/common"
	"swogen/internal/swo"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole command; it returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("swo_gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	boardFile := fs.String("config", "", "Board configuration file (INI, values may be expressions such as 480 * MHz)")
	coreHz := fs.Int64("core_hz", 0, "Core clock in Hz, overrides the board file (default 400000000)")
	traceHz := fs.Int64("trace_hz", 0, "SWO clock in Hz, overrides the board file (default 2000000)")
	verbose := fs.Bool("v", false, "Log debug information to stderr")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	level := common.SeverityWarning
	if *verbose {
		level = common.SeverityDebug
	}
	logger := common.NewStdLoggerWithWriter(stderr, level)

	if fs.NArg() != 0 {
		logger.Logf(common.SeverityError, "unknown arguments: %v", fs.Args())
		return 1
	}

	cfg := swo.RunConfig{
		BoardFile:    *boardFile,
		CoreHz:       *coreHz,
		TraceHz:      *traceHz,
		OutputWriter: stdout,
		Logger:       logger,
	}

	if err := swo.Run(cfg); err != nil {
		logger.Error(err)
		return 1
	}
	return 0
}
