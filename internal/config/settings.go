package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Supported video quality display names, lowest first
var SupportedQualities = []string{"224p", "360p", "540p", "720p", "1080p", "2160p"}

// Environment keys that are not part of Settings
const (
	EnvConfigFile = "COURSE_DL_CONFIG_FILE"
	DotEnvFile    = ".env"
)

// Default values
const (
	DefaultQuality           = "720p"
	DefaultOutputDir         = "Downloads"
	DefaultMaxParallel       = 3
	DefaultMaxRetries        = 2
	DefaultRequestsPerSecond = 2.0
	DefaultSegmentSize       = 8 << 20
	DefaultMinFreeBytes      = 256 << 20
	DefaultFFmpegPath        = "ffmpeg"
	DefaultFFprobePath       = "ffprobe"
	DefaultLogFile           = "downloader.log"
	DefaultLogLevel          = "info"
	DefaultLanguage          = "en"
	DefaultHTTPTimeout       = 60 * time.Second

	MinParallel = 1
	MaxParallel = 10
)

// Settings holds the run configuration. Values come from an optional YAML
// file, then a .env file, then the process environment, later sources
// winning.
type Settings struct {
	CourseLink        string        `envconfig:"COURSE_LINK"            yaml:"courseLink"`
	CookieData        string        `envconfig:"COOKIE_DATA"            yaml:"cookieData"`
	ClientDate        string        `envconfig:"CLIENT_DATE"            yaml:"clientDate"`
	Quality           string        `envconfig:"VIDEO_DOWNLOAD_QUALITY" yaml:"quality"`
	OutputDir         string        `envconfig:"OUTPUT_DIR"             yaml:"outputDir"`
	MaxParallel       int           `envconfig:"MAX_PARALLEL"           yaml:"maxParallel"`
	MaxRetries        int           `envconfig:"MAX_RETRIES"            yaml:"maxRetries"`
	RequestsPerSecond float64       `envconfig:"REQUESTS_PER_SECOND"    yaml:"requestsPerSecond"`
	SegmentSize       int64         `envconfig:"SEGMENT_SIZE"           yaml:"segmentSize"`
	MinFreeBytes      int64         `envconfig:"MIN_FREE_BYTES"         yaml:"minFreeBytes"`
	FFmpegPath        string        `envconfig:"FFMPEG_PATH"            yaml:"ffmpegPath"`
	FFprobePath       string        `envconfig:"FFPROBE_PATH"           yaml:"ffprobePath"`
	LogFile           string        `envconfig:"LOG_FILE"               yaml:"logFile"`
	LogLevel          string        `envconfig:"LOG_LEVEL"              yaml:"logLevel"`
	HTTPTimeout       time.Duration `envconfig:"HTTP_TIMEOUT"           yaml:"httpTimeout"`
	Language          string        `envconfig:"UI_LANGUAGE"            yaml:"language"`
}

// NewSettings returns settings populated with defaults
func NewSettings() *Settings {
	return &Settings{
		Quality:           DefaultQuality,
		OutputDir:         DefaultOutputDir,
		MaxParallel:       DefaultMaxParallel,
		MaxRetries:        DefaultMaxRetries,
		RequestsPerSecond: DefaultRequestsPerSecond,
		SegmentSize:       DefaultSegmentSize,
		MinFreeBytes:      DefaultMinFreeBytes,
		FFmpegPath:        DefaultFFmpegPath,
		FFprobePath:       DefaultFFprobePath,
		LogFile:           DefaultLogFile,
		LogLevel:          DefaultLogLevel,
		HTTPTimeout:       DefaultHTTPTimeout,
		Language:          DefaultLanguage,
	}
}

// LoadFrom builds settings from defaults, the YAML file configFile, the
// .env file dotEnvFile and the environment. Empty names are skipped and
// missing files are not an error.
func LoadFrom(configFile, dotEnvFile string) (*Settings, error) {
	s := NewSettings()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.UnmarshalStrict(data, s); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if dotEnvFile != "" {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", dotEnvFile, err)
		}
	}

	if err := envconfig.Process("", s); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	s.SetMaxParallelDownloads(s.MaxParallel)
	return s, nil
}

// Validate reports the first missing or malformed setting
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.CookieData) == "" {
		return fmt.Errorf("missing required setting: COOKIE_DATA")
	}
	if strings.TrimSpace(s.CourseLink) == "" {
		return fmt.Errorf("missing required setting: COURSE_LINK")
	}
	if !strings.HasPrefix(s.CourseLink, "http://") && !strings.HasPrefix(s.CourseLink, "https://") {
		return fmt.Errorf("COURSE_LINK must be an http(s) URL: %q", s.CourseLink)
	}
	if !IsSupportedQuality(s.Quality) {
		return fmt.Errorf("unsupported VIDEO_DOWNLOAD_QUALITY %q (supported: %s)",
			s.Quality, strings.Join(SupportedQualities, ", "))
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative")
	}
	if s.RequestsPerSecond <= 0 {
		return fmt.Errorf("REQUESTS_PER_SECOND must be positive")
	}
	if s.SegmentSize <= 0 {
		return fmt.Errorf("SEGMENT_SIZE must be positive")
	}
	return nil
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	if s.MaxParallel <= 0 {
		return DefaultMaxParallel
	}
	return s.MaxParallel
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	if count < MinParallel {
		count = MinParallel
	}
	if count > MaxParallel {
		count = MaxParallel
	}
	s.MaxParallel = count
}

// SetQuality sets the target video quality
func (s *Settings) SetQuality(quality string) {
	if quality == "" {
		quality = DefaultQuality
	}
	s.Quality = quality
}

// SetOutputDir sets the output root
func (s *Settings) SetOutputDir(dir string) {
	if dir == "" {
		dir = DefaultOutputDir
	}
	s.OutputDir = dir
}

// IsSupportedQuality reports whether quality is a known display name
func IsSupportedQuality(quality string) bool {
	for _, q := range SupportedQualities {
		if q == quality {
			return true
		}
	}
	return false
}
