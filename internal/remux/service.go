package remux

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// FFmpeg constants for stream-copy remuxing
const (
	// Copy every stream without re-encoding
	StreamCopy = "copy"

	// Container settings
	FastStartFlag = "+faststart"
	OutputFormat  = "mp4"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="

	// stderrTail bounds the ffmpeg output kept for error messages
	stderrTail = 20
)

// Service runs ffmpeg and ffprobe
type Service struct {
	ffmpegPath  string
	ffprobePath string
}

// NewService creates a remux service. Empty paths fall back to the commands
// found on PATH.
func NewService(ffmpegPath, ffprobePath string) *Service {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	if ffprobePath == "" {
		ffprobePath = FFprobeCommand
	}
	return &Service{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Available reports whether the ffmpeg executable can be found
func (s *Service) Available() bool {
	_, err := exec.LookPath(s.ffmpegPath)
	return err == nil
}

// Remux copies inputPath into an MP4 at outputPath. duration, when known,
// scales progress reports to 0..1. A partial output is removed on failure.
func (s *Service) Remux(ctx context.Context, inputPath, outputPath string, duration float64, onProgress func(float64)) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("remux input: %w", err)
	}

	args := s.BuildFFmpegArgs(inputPath, outputPath)
	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	tail := make(chan []string, 1)
	go func() {
		tail <- monitorProgress(stderr, duration, onProgress)
	}()

	err = cmd.Wait()
	lines := <-tail
	if err != nil {
		os.Remove(outputPath)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithField("output", outputPath).Debugf("ffmpeg output:\n%s", strings.Join(lines, "\n"))
		return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLine(lines))
	}
	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func (s *Service) BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-c", StreamCopy, // No re-encoding
		"-movflags", FastStartFlag, // MP4 optimization
		"-f", OutputFormat, // Output name carries a temp suffix
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats",
		"-loglevel", FFprobeLogLevel,
		outputPath,
	}
}

// Duration gets the duration of a media file using ffprobe
func (s *Service) Duration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.ffprobePath, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	return ParseDuration(string(output))
}

// ParseDuration parses the ffprobe csv duration output
func ParseDuration(output string) (float64, error) {
	durationStr := strings.TrimSpace(output)
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress reads ffmpeg progress output until EOF and returns the
// last non-progress lines
func monitorProgress(stderr io.Reader, totalDuration float64, onProgress func(float64)) []string {
	scanner := bufio.NewScanner(stderr)
	var tail []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Parse progress line: out_time_us=123456
		if strings.HasPrefix(line, ProgressTimePrefix) {
			if onProgress == nil || totalDuration <= 0 {
				continue
			}
			timeMicroseconds, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
			if err != nil {
				continue
			}
			onProgress(ProgressFraction(float64(timeMicroseconds)/1000000.0, totalDuration))
			continue
		}
		if line == "" || strings.Contains(line, "=") {
			continue
		}
		tail = append(tail, line)
		if len(tail) > stderrTail {
			tail = tail[1:]
		}
	}
	return tail
}

// ProgressFraction converts an output timestamp into a 0..1 fraction
func ProgressFraction(seconds, total float64) float64 {
	if total <= 0 || seconds <= 0 {
		return 0
	}
	progress := seconds / total
	if progress > 1.0 {
		progress = 1.0
	}
	return progress
}

func lastLine(lines []string) string {
	if len(lines) == 0 {
		return "no output"
	}
	return lines[len(lines)-1]
}
