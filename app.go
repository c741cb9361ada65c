package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ytget/course-dl/internal/api"
	"github.com/ytget/course-dl/internal/config"
	"github.com/ytget/course-dl/internal/download"
	"github.com/ytget/course-dl/internal/model"
	"github.com/ytget/course-dl/internal/plan"
	"github.com/ytget/course-dl/internal/platform"
	"github.com/ytget/course-dl/internal/remux"
	"github.com/ytget/course-dl/internal/resolve"
	"github.com/ytget/course-dl/internal/resume"
	"github.com/ytget/course-dl/internal/runner"
	"github.com/ytget/course-dl/internal/ui"
)

var errInterrupted = errors.New("interrupted")

func run(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(settings)
	if err != nil {
		return err
	}
	defer closeLog()

	log.WithField("version", version).Infof("%s starting", AppName)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := api.NewClient(settings.CourseLink, settings.CookieData,
		api.WithTimeout(settings.HTTPTimeout),
		api.WithRateLimit(settings.RequestsPerSecond),
		api.WithClientDate(settings.ClientDate),
	)
	if err != nil {
		return err
	}

	course, err := client.FetchSyllabus(ctx, settings.CourseLink)
	if err != nil {
		return interruptedOr(ctx, err)
	}

	localization := ui.NewLocalization()
	localization.SetLanguage(settings.Language)
	courseRoot := filepath.Join(settings.OutputDir, platform.CourseDirName(course.Title))
	console := ui.NewConsole(os.Stdout, os.Stdin, courseRoot, localization)
	console.ShowCourse(course)

	selection, err := chooseChapters(c, console, course)
	if err != nil {
		return err
	}
	log.Infof("resolving %d of %d chapters", selection.Len(), len(course.Chapters))

	resolved, err := resolve.New(client, settings.Quality).ResolveCourse(ctx, course, selection.Chapters())
	if err != nil {
		return interruptedOr(ctx, err)
	}

	tasks, err := plan.Plan(course, selection, resolved, settings.OutputDir)
	if err != nil {
		return err
	}

	remuxSvc := remux.NewService(settings.FFmpegPath, settings.FFprobePath)
	var remuxer remux.Remuxer
	checkerOptions := []resume.Option{}
	if remuxSvc.Available() {
		remuxer = remuxSvc
		checkerOptions = append(checkerOptions, resume.WithProber(remuxSvc))
	} else {
		log.Warnf("%s not found; videos are saved without remuxing and HLS streams fail", settings.FFmpegPath)
	}
	resume.New(checkerOptions...).CheckAll(ctx, tasks)

	if c.Bool(FlagDryRun) {
		console.ShowPlan(tasks)
		return nil
	}

	var taskRunner *runner.Runner
	engine := download.NewEngine(client, remuxer,
		download.WithSegmentSize(settings.SegmentSize),
		download.WithMinFreeBytes(settings.MinFreeBytes),
		download.WithQuality(settings.Quality),
		download.WithProgress(func(task *model.DownloadTask, fraction float64) {
			taskRunner.Progress(task, fraction)
		}),
	)
	taskRunner = runner.New(engine,
		runner.WithConcurrency(settings.GetMaxParallelDownloads()),
		runner.WithRetries(settings.MaxRetries),
		runner.WithObserver(console.HandleEvent),
	)

	summary := taskRunner.Run(ctx, tasks)
	console.ShowSummary(summary)

	if c.Bool(FlagOpen) && len(summary.Succeeded) > 0 {
		if err := platform.OpenInFileManager(courseRoot); err != nil {
			log.WithError(err).Warn("failed to open course directory")
		}
	}

	switch {
	case !summary.OK():
		return summary.Fatal
	case summary.Canceled:
		return errInterrupted
	}
	return nil
}

// loadSettings reads configuration and applies command line overrides
func loadSettings(c *cli.Context) (*config.Settings, error) {
	settings, err := config.LoadFrom(c.String(FlagConfig), config.DotEnvFile)
	if err != nil {
		return nil, err
	}

	if c.IsSet(FlagParallel) {
		settings.SetMaxParallelDownloads(c.Int(FlagParallel))
	}
	if c.IsSet(FlagOutput) {
		settings.SetOutputDir(c.String(FlagOutput))
	}
	if c.IsSet(FlagQuality) {
		settings.SetQuality(c.String(FlagQuality))
	}
	if c.IsSet(FlagLanguage) {
		settings.Language = c.String(FlagLanguage)
	}

	if err := settings.Validate(); err != nil {
		return nil, model.NewError(model.ErrorKindValidation, "loading settings", err)
	}
	return settings, nil
}

// setupLogging sends logrus output to the terminal and the log file. The
// returned func closes the file.
func setupLogging(settings *config.Settings) (func(), error) {
	level, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, model.NewError(model.ErrorKindValidation, "parsing LOG_LEVEL", err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if settings.LogFile == "" {
		log.SetOutput(os.Stderr)
		return func() {}, nil
	}

	file, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, model.NewError(model.ErrorKindDisk, "opening log file", err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
	return func() { file.Close() }, nil
}

// chooseChapters uses --chapters when given and prompts otherwise
func chooseChapters(c *cli.Context, console *ui.Console, course *model.Course) (plan.Selection, error) {
	if c.IsSet(FlagChapters) {
		return plan.ParseSelection(c.String(FlagChapters), len(course.Chapters))
	}
	return console.PromptSelection(course)
}

// interruptedOr reports cancellation by signal as an interruption
func interruptedOr(ctx context.Context, err error) error {
	if ctx.Err() != nil && !model.IsFatal(err) {
		return fmt.Errorf("%w: %v", errInterrupted, err)
	}
	return err
}
