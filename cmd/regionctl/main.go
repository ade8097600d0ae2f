package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"regionmap/config"

	"github.com/pkg/errors"
)

// Supported subcommands:
// - validate: Check a regions payload without fetching anything
// - resolve:  Validate and fetch every sub-region geometry
// - archive:  Inspect a local PMTiles basemap archive

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	resolveCmd := flag.NewFlagSet("resolve", flag.ExitOnError)
	archiveCmd := flag.NewFlagSet("archive", flag.ExitOnError)

	validateFile := validateCmd.String("file", "", "Regions payload (JSON array); - reads stdin")

	resolveFile := resolveCmd.String("file", "", "Regions payload (JSON array); - reads stdin")
	resolveBaseURL := resolveCmd.String("base-url", config.DefaultGeodataBaseURL, "Geodata layer URL")
	resolveFormat := resolveCmd.String("format", "geojson", "Geometry format (only geojson responses can be decoded)")
	resolveSR := resolveCmd.Int("sr", 4326, "Spatial reference")
	resolveTimeout := resolveCmd.Duration("timeout", 10*time.Second, "Per request timeout")
	resolveConcurrency := resolveCmd.Int("concurrency", 0, "Maximum in-flight fetches (0 = unbounded)")

	archiveSource := archiveCmd.String("source", "", "PMTiles archive path")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	flags := ctlFlags{
		Validate: validateFlags{
			cmd:  validateCmd,
			file: validateFile,
		},
		Resolve: resolveFlags{
			cmd:         resolveCmd,
			file:        resolveFile,
			baseURL:     resolveBaseURL,
			format:      resolveFormat,
			sr:          resolveSR,
			timeout:     resolveTimeout,
			concurrency: resolveConcurrency,
		},
		Archive: archiveFlags{
			cmd:    archiveCmd,
			source: archiveSource,
		},
	}

	if err := runSubcommand(ctx, &flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type ctlFlags struct {
	Validate validateFlags
	Resolve  resolveFlags
	Archive  archiveFlags
}

type validateFlags struct {
	cmd  *flag.FlagSet
	file *string
}

type resolveFlags struct {
	cmd         *flag.FlagSet
	file        *string
	baseURL     *string
	format      *string
	sr          *int
	timeout     *time.Duration
	concurrency *int
}

type archiveFlags struct {
	cmd    *flag.FlagSet
	source *string
}

func runSubcommand(ctx context.Context, flags *ctlFlags) error {
	switch os.Args[1] {
	case "validate":
		return handleValidate(flags)
	case "resolve":
		return handleResolve(ctx, flags)
	case "archive":
		return handleArchive(flags)
	default:
		printUsage()

		return errors.New("unknown subcommand")
	}
}

func handleValidate(flags *ctlFlags) error {
	if err := flags.Validate.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse validate flags")
	}

	if *flags.Validate.file == "" {
		return errors.New("--file flag is required for validate command")
	}

	return runValidate(os.Stdout, *flags.Validate.file)
}

func handleResolve(ctx context.Context, flags *ctlFlags) error {
	if err := flags.Resolve.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse resolve flags")
	}

	if *flags.Resolve.file == "" {
		return errors.New("--file flag is required for resolve command")
	}

	geodata := &config.GeodataConfig{
		BaseURL:              *flags.Resolve.baseURL,
		GeometryFormat:       *flags.Resolve.format,
		SpatialReference:     *flags.Resolve.sr,
		Timeout:              *flags.Resolve.timeout,
		MaxConcurrentFetches: *flags.Resolve.concurrency,
	}

	return runResolve(ctx, os.Stdout, *flags.Resolve.file, geodata)
}

func handleArchive(flags *ctlFlags) error {
	if err := flags.Archive.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse archive flags")
	}

	if *flags.Archive.source == "" {
		return errors.New("--source flag is required for archive command")
	}

	return runArchive(os.Stdout, *flags.Archive.source)
}

func printUsage() {
	fmt.Println("Usage: regionctl <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  validate    Check a regions payload")
	fmt.Println("  resolve     Validate a regions payload and fetch its geometries")
	fmt.Println("  archive     Inspect a PMTiles basemap archive")
	fmt.Println("")
	fmt.Println("Use 'regionctl <command> -h' for more information about a command.")
}
