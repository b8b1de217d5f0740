// Command ptbin converts, plots and inspects PT-tables.
//
// Usage:
//
//	ptbin <command> [flags]
//
// Commands:
//
//	convert      write a whole table as text (or -format xlsx) with its sidecar header
//	plot         render a wavenumber range of a table as SVG
//	postprocess  write the log10 spectrum of a range in the two-column SPECTR layout
//	inspect      print size, record count and digest of a table
//
// Tables are looked up in the run directory named by latest_run.txt inside the
// base directory (-base, or $PTBIN_BASE_DIR, default output/ptTables) unless
// -dir names the run directory directly.
//
// Examples:
//
//	ptbin convert -level 12
//	ptbin plot -level 12 -v1 500 -v2 520
//	ptbin postprocess -dir output/PT_CALC -ext CO2 -level 3 -v1 100 -v2 200 -resolution medium
//	ptbin inspect -level 12
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "ptbin: %s\n", describe(err))
		}
		stop()
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		usage(stderr)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "convert":
		return runConvert(ctx, rest, stdout, stderr)
	case "plot":
		return runPlot(ctx, rest, stdout, stderr)
	case "postprocess":
		return runPostprocess(ctx, rest, stdout, stderr)
	case "inspect":
		return runInspect(ctx, rest, stdout, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "ptbin: unknown command %q\n\n", cmd)
		usage(stderr)
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: ptbin <command> [flags]

Commands:
  convert      write a whole table as text (or -format xlsx) with its sidecar header
  plot         render a wavenumber range of a table as SVG
  postprocess  write the log10 spectrum of a range in the two-column SPECTR layout
  inspect      print size, record count and digest of a table

Run "ptbin <command> -h" for the flags of a command.
`)
}
