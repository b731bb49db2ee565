package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"CWU/internal/downloader/core"
	"CWU/internal/logger"
	"CWU/internal/system"
	"CWU/internal/ui"
	"CWU/internal/updater"
)

const (
	bannerTitle = "ClamWin Database Updater v1.0"
	versionText = "ClamWin Updater 1.0"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("cwupdate", flag.ContinueOnError)
	flags.SetOutput(stderr)

	defaultDir := system.DefaultDBDir()
	dbDir := flags.String("db-dir", defaultDir, "ClamWin database directory")
	noBackup := flags.Bool("no-backup", false, "Do not backup existing database files before updating")
	showVersion := flags.Bool("version", false, "Print the version and exit")
	verbose := flags.Bool("verbose", false, "Log structured debug entries with the run trace id")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "ClamWin Database Updater - Downloads latest virus definitions\n\n")
		fmt.Fprintf(stderr, "Usage: cwupdate [--db-dir DIR] [--no-backup] [--verbose] [--version]\n\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  cwupdate                           # Update default directory (%s)\n", defaultDir)
		fmt.Fprintf(stderr, "  cwupdate --no-backup               # Update without backing up old files\n")
		fmt.Fprintf(stderr, "  cwupdate --db-dir \"D:\\ClamWin\\db\"  # Update custom directory\n")
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", flags.Args())
		flags.Usage()
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, versionText)
		return 0
	}

	level := logger.LevelInfo
	if *verbose {
		level = logger.LevelDebug
	}
	log := logger.NewColoredLogger(logger.WithOutput(stdout), logger.WithLevel(level))
	printer := ui.NewPrinter(stdout)
	printer.PrintBanner(bannerTitle)

	cfg, err := system.LoadConfig(*dbDir, !*noBackup)
	if err != nil {
		log.Error("Invalid configuration: %v", err)
		return 1
	}

	manifest, err := core.BaseManifest()
	if err != nil {
		log.Error("Failed to load target manifest: %v", err)
		return 1
	}

	repo, err := core.NewRepository(manifest, log,
		core.WithProgressReporter(core.NewConsoleProgressReporter(stdout)))
	if err != nil {
		log.Error("Failed to initialise downloader: %v", err)
		return 1
	}

	u := updater.New(manifest.Targets, repo, log, printer, updater.WithSource(manifest.Source))

	report, err := u.Run(context.Background(), cfg)
	if err != nil {
		return 1
	}
	return report.ExitCode()
}
