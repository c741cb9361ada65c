package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// formatFileSize formats bytes into human readable format
func formatFileSize(bytes int64) string {
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), FileSizeUnits[exp])
}

// formatPercent renders a fraction in [0,1] as a fixed width percentage
func formatPercent(fraction float64) string {
	return fmt.Sprintf(ProgressLabelFormat, percent(fraction))
}

func percent(fraction float64) int {
	switch {
	case fraction <= 0:
		return 0
	case fraction >= 1:
		return 100
	}
	return int(fraction * 100)
}

// formatElapsed rounds to a tenth of a second, or a dash when unknown
func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return DashPlaceholder
	}
	return d.Round(100 * time.Millisecond).String()
}

// relativePath shortens path to be relative to root when possible
func relativePath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// singleLine flattens text so one message stays on one terminal line
func singleLine(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\t", " ")
	return strings.TrimSpace(text)
}
