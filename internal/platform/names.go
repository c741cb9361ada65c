package platform

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// Naming limits
const (
	MaxNameLength     = 80
	DefaultCourseName = "course"
	DefaultEntryName  = "untitled"
)

// illegalNameChars cannot appear in file names on at least one supported OS
const illegalNameChars = `<>:"/\|?*`

// SanitizeFileName makes a title safe to use as a single path element:
// illegal and control characters are dropped, whitespace is collapsed and the
// result is truncated to MaxNameLength runes.
func SanitizeFileName(name string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range name {
		switch {
		case strings.ContainsRune(illegalNameChars, r), unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}

	out := []rune(strings.TrimSpace(b.String()))
	if len(out) > MaxNameLength {
		out = out[:MaxNameLength]
	}
	// Windows rejects names ending in a dot or a space
	result := strings.TrimRight(string(out), ". ")
	if result == "" {
		return DefaultEntryName
	}
	return result
}

// NumberedName returns "{NN} - {title}" used for chapter directories and
// lesson files
func NumberedName(position int, title string) string {
	return fmt.Sprintf("%02d - %s", position, SanitizeFileName(title))
}

// CourseDirName returns the directory name for a course title
func CourseDirName(title string) string {
	name := slug.Make(title)
	if name == "" {
		return DefaultCourseName
	}
	if len(name) > MaxNameLength {
		name = strings.TrimRight(name[:MaxNameLength], "-")
	}
	return name
}

// WithExtension appends ext (without dot) to name when ext is not empty
func WithExtension(name, ext string) string {
	if ext == "" {
		return name
	}
	return name + "." + strings.ToLower(ext)
}
