package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ytget/course-dl/internal/config"
	"github.com/ytget/course-dl/internal/model"
)

func newCLIContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet(AppName, flag.ContinueOnError)
	set.String(FlagChapters, "", "")
	set.Int(FlagParallel, 0, "")
	set.String(FlagOutput, "", "")
	set.String(FlagQuality, "", "")
	set.String(FlagConfig, "", "")
	set.String(FlagLanguage, "", "")
	set.Bool(FlagDryRun, false, "")
	if err := set.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	return cli.NewContext(&cli.App{Name: AppName}, set, nil)
}

func TestLoadSettings_FlagOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COURSE_LINK", "https://courses.example.com/api/course_player/v2/courses/go")
	t.Setenv("COOKIE_DATA", "session=abc")

	c := newCLIContext(t, "--parallel", "40", "--output", "/data", "--quality", "1080p", "--language", "ru")
	settings, err := loadSettings(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.MaxParallel != config.MaxParallel {
		t.Errorf("Expected parallel clamped to %d, got %d", config.MaxParallel, settings.MaxParallel)
	}
	if settings.OutputDir != "/data" || settings.Quality != "1080p" || settings.Language != "ru" {
		t.Errorf("Expected flag overrides applied, got %+v", settings)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COURSE_LINK", "https://courses.example.com/course")
	t.Setenv("COOKIE_DATA", "session=abc")

	_, err := loadSettings(newCLIContext(t, "--quality", "999p"))
	if !model.IsKind(err, model.ErrorKindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestSetupLogging(t *testing.T) {
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	}()

	settings := config.NewSettings()
	settings.LogFile = filepath.Join(t.TempDir(), "downloader.log")
	settings.LogLevel = "debug"

	closeLog, err := setupLogging(settings)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	log.WithField("task", "a.mp4").Debug("hello from test")
	closeLog()

	data, err := os.ReadFile(settings.LogFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") || !strings.Contains(string(data), "task=a.mp4") {
		t.Errorf("Expected log line in file, got %q", data)
	}

	settings.LogLevel = "loud"
	if _, err := setupLogging(settings); !model.IsKind(err, model.ErrorKindValidation) {
		t.Errorf("Expected validation error for bad level, got %v", err)
	}
}

func TestInterruptedOr(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	plain := errors.New("fetching syllabus: context canceled")

	if err := interruptedOr(ctx, plain); errors.Is(err, errInterrupted) {
		t.Error("Expected live context to keep the error as is")
	}

	cancel()
	if err := interruptedOr(ctx, plain); !errors.Is(err, errInterrupted) {
		t.Errorf("Expected interruption, got %v", err)
	}

	auth := model.Errorf(model.ErrorKindAuth, "fetching syllabus", "expired")
	if err := interruptedOr(ctx, auth); errors.Is(err, errInterrupted) {
		t.Error("Expected fatal errors to win over interruption")
	}
}
