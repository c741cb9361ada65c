package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewSettings(t *testing.T) {
	settings := NewSettings()

	if settings.Quality != DefaultQuality {
		t.Errorf("Expected default quality %s, got %s", DefaultQuality, settings.Quality)
	}

	if settings.GetMaxParallelDownloads() != DefaultMaxParallel {
		t.Errorf("Expected default max parallel %d, got %d", DefaultMaxParallel, settings.GetMaxParallelDownloads())
	}

	if settings.HTTPTimeout != DefaultHTTPTimeout {
		t.Errorf("Expected default timeout %v, got %v", DefaultHTTPTimeout, settings.HTTPTimeout)
	}

	if settings.Language != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, settings.Language)
	}
}

func TestLoadFrom_Environment(t *testing.T) {
	t.Setenv("COURSE_LINK", "https://courses.example.com/api/course_player/v2/courses/go")
	t.Setenv("COOKIE_DATA", "session=abc")
	t.Setenv("VIDEO_DOWNLOAD_QUALITY", "1080p")
	t.Setenv("MAX_PARALLEL", "4")
	t.Setenv("HTTP_TIMEOUT", "15s")
	t.Setenv("UI_LANGUAGE", "pt")

	settings, err := LoadFrom("", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.CookieData != "session=abc" {
		t.Errorf("Expected cookie from env, got %q", settings.CookieData)
	}
	if settings.Quality != "1080p" {
		t.Errorf("Expected quality 1080p, got %s", settings.Quality)
	}
	if settings.MaxParallel != 4 {
		t.Errorf("Expected max parallel 4, got %d", settings.MaxParallel)
	}
	if settings.HTTPTimeout != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", settings.HTTPTimeout)
	}
	if settings.OutputDir != DefaultOutputDir {
		t.Errorf("Expected default output dir, got %s", settings.OutputDir)
	}
	if settings.Language != "pt" {
		t.Errorf("Expected language pt, got %s", settings.Language)
	}
	if err := settings.Validate(); err != nil {
		t.Errorf("Expected valid settings, got %v", err)
	}
}

func TestLoadFrom_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "course-dl.yaml")
	content := "courseLink: https://yaml.example.com/course\n" +
		"cookieData: from-yaml\n" +
		"outputDir: /data/courses\n" +
		"maxParallel: 25\n"
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("COOKIE_DATA", "from-env")

	settings, err := LoadFrom(configFile, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.CourseLink != "https://yaml.example.com/course" {
		t.Errorf("Expected course link from yaml, got %q", settings.CourseLink)
	}
	if settings.CookieData != "from-env" {
		t.Errorf("Expected env to override yaml, got %q", settings.CookieData)
	}
	if settings.OutputDir != "/data/courses" {
		t.Errorf("Expected output dir from yaml, got %q", settings.OutputDir)
	}
	if settings.MaxParallel != MaxParallel {
		t.Errorf("Expected max parallel clamped to %d, got %d", MaxParallel, settings.MaxParallel)
	}
}

func TestLoadFrom_UnknownYAMLField(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configFile, []byte("notAField: 1\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadFrom(configFile, ""); err == nil {
		t.Error("Expected error for unknown yaml field")
	}
}

func TestLoadFrom_MissingFilesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFrom(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Errorf("Expected missing files to be ignored, got %v", err)
	}
}

func TestLoadFrom_DotEnv(t *testing.T) {
	if _, set := os.LookupEnv("CLIENT_DATE"); set {
		t.Skip("CLIENT_DATE already set in environment")
	}
	t.Cleanup(func() { os.Unsetenv("CLIENT_DATE") })

	dotEnv := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(dotEnv, []byte("CLIENT_DATE=Mon, 01 Jan 2024 00:00:00 GMT\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	settings, err := LoadFrom("", dotEnv)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if settings.ClientDate != "Mon, 01 Jan 2024 00:00:00 GMT" {
		t.Errorf("Expected client date from .env, got %q", settings.ClientDate)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Settings {
		s := NewSettings()
		s.CourseLink = "https://courses.example.com/api/course_player/v2/courses/go"
		s.CookieData = "session=abc"
		return s
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"missing cookie", func(s *Settings) { s.CookieData = " " }, "COOKIE_DATA"},
		{"missing link", func(s *Settings) { s.CourseLink = "" }, "COURSE_LINK"},
		{"bad link", func(s *Settings) { s.CourseLink = "courses.example.com" }, "http(s)"},
		{"bad quality", func(s *Settings) { s.Quality = "480i" }, "VIDEO_DOWNLOAD_QUALITY"},
		{"negative retries", func(s *Settings) { s.MaxRetries = -1 }, "MAX_RETRIES"},
		{"zero rate", func(s *Settings) { s.RequestsPerSecond = 0 }, "REQUESTS_PER_SECOND"},
		{"zero segment", func(s *Settings) { s.SegmentSize = 0 }, "SEGMENT_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMaxParallelDownloads(t *testing.T) {
	settings := NewSettings()

	settings.SetMaxParallelDownloads(5)
	if settings.GetMaxParallelDownloads() != 5 {
		t.Errorf("Expected max parallel 5, got %d", settings.GetMaxParallelDownloads())
	}

	settings.SetMaxParallelDownloads(0) // Should be clamped to 1
	if settings.GetMaxParallelDownloads() != 1 {
		t.Error("Max parallel should be clamped to minimum 1")
	}

	settings.SetMaxParallelDownloads(15) // Should be clamped to 10
	if settings.GetMaxParallelDownloads() != 10 {
		t.Error("Max parallel should be clamped to maximum 10")
	}
}

func TestSetQualityAndOutputDir(t *testing.T) {
	settings := NewSettings()

	settings.SetQuality("")
	if settings.Quality != DefaultQuality {
		t.Errorf("Expected empty quality to reset to default, got %s", settings.Quality)
	}

	settings.SetQuality("360p")
	if settings.Quality != "360p" {
		t.Errorf("Expected quality 360p, got %s", settings.Quality)
	}

	settings.SetOutputDir("")
	if settings.OutputDir != DefaultOutputDir {
		t.Errorf("Expected empty output dir to reset to default, got %s", settings.OutputDir)
	}
}

func TestIsSupportedQuality(t *testing.T) {
	for _, q := range SupportedQualities {
		if !IsSupportedQuality(q) {
			t.Errorf("Expected %s to be supported", q)
		}
	}
	if IsSupportedQuality("720") {
		t.Error("Expected 720 without suffix to be unsupported")
	}
}
