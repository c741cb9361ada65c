package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ytget/course-dl/internal/config"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppName  = "course-dl"
	AppUsage = "download a Thinkific course for offline viewing"
)

// Exit codes
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// Flag names
const (
	FlagChapters = "chapters"
	FlagParallel = "parallel"
	FlagOutput   = "output"
	FlagQuality  = "quality"
	FlagDryRun   = "dry-run"
	FlagOpen     = "open"
	FlagConfig   = "config"
	FlagLanguage = "language"
)

func main() {
	app := &cli.App{
		Name:    AppName,
		Usage:   AppUsage,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    FlagChapters,
				Aliases: []string{"c"},
				Usage:   "chapters to download: all, N, N-M or a comma separated list; prompts when omitted",
			},
			&cli.IntFlag{
				Name:    FlagParallel,
				Aliases: []string{"p"},
				Usage:   "number of parallel downloads (overrides MAX_PARALLEL)",
			},
			&cli.StringFlag{
				Name:    FlagOutput,
				Aliases: []string{"o"},
				Usage:   "output root directory (overrides OUTPUT_DIR)",
			},
			&cli.StringFlag{
				Name:    FlagQuality,
				Aliases: []string{"q"},
				Usage:   "video quality, e.g. 720p (overrides VIDEO_DOWNLOAD_QUALITY)",
			},
			&cli.BoolFlag{
				Name:  FlagDryRun,
				Usage: "print the plan with resume statuses and exit",
			},
			&cli.BoolFlag{
				Name:  FlagOpen,
				Usage: "open the course directory when done",
			},
			&cli.StringFlag{
				Name:    FlagConfig,
				Usage:   "YAML config file",
				EnvVars: []string{config.EnvConfigFile},
			},
			&cli.StringFlag{
				Name:  FlagLanguage,
				Usage: "interface language: en, ru or pt (overrides UI_LANGUAGE)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		if errors.Is(err, errInterrupted) {
			os.Exit(ExitInterrupted)
		}
		log.Error(err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitOK)
}
