package model

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Content is the resolved payload of a lesson. The set of implementations is
// closed: VideoContent, QuizContent, FileContent, TextContent and
// UnsupportedContent.
type Content interface {
	Kind() ContentKind
	isContent()
}

// VideoSource tells the engine how to split a video into segments
type VideoSource string

const (
	VideoSourceProgressive VideoSource = "progressive"
	VideoSourceHLS         VideoSource = "hls"
)

// VideoContent is a single quality variant chosen from a media manifest
type VideoContent struct {
	MediaID  string
	Quality  string // display name, e.g. "720p"
	Source   VideoSource
	URL      string
	Size     int64   // bytes, 0 if unknown
	Duration float64 // seconds, 0 if unknown
}

// QuizContent carries the parsed question set
type QuizContent struct {
	Quiz *QuizRecord
}

// FileContent is an attachment or shared file downloaded as-is
type FileContent struct {
	URL      string
	FileName string // name reported by the API, may lack an extension
	Shared   bool
}

// TextContent is the HTML body of a text lesson
type TextContent struct {
	HTML string
}

// UnsupportedContent marks a lesson that is skipped
type UnsupportedContent struct {
	Reason string
}

func (VideoContent) Kind() ContentKind       { return ContentKindVideo }
func (QuizContent) Kind() ContentKind        { return ContentKindQuiz }
func (TextContent) Kind() ContentKind        { return ContentKindText }
func (UnsupportedContent) Kind() ContentKind { return ContentKindUnsupported }

func (f FileContent) Kind() ContentKind {
	if f.Shared {
		return ContentKindSharedFile
	}
	return ContentKindAttachment
}

func (VideoContent) isContent()       {}
func (QuizContent) isContent()        {}
func (FileContent) isContent()        {}
func (TextContent) isContent()        {}
func (UnsupportedContent) isContent() {}

// Extension returns the file's extension without the dot. When the name has
// none, a short extension is taken from the URL path.
func (f FileContent) Extension() string {
	if ext := strings.TrimPrefix(filepath.Ext(f.FileName), "."); ext != "" {
		return ext
	}
	u := f.URL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	ext := strings.TrimPrefix(filepath.Ext(u), ".")
	if ext != "" && len(ext) < 5 && !strings.Contains(ext, "/") {
		return ext
	}
	return ""
}

// Stem returns the file name without its extension
func (f FileContent) Stem() string {
	return strings.TrimSuffix(f.FileName, filepath.Ext(f.FileName))
}

// QualityHeight returns the pixel height of a quality name such as "720p",
// or 0 when the name is not of that form
func QualityHeight(name string) int {
	name = strings.TrimSpace(strings.ToLower(name))
	h, err := strconv.Atoi(strings.TrimSuffix(name, "p"))
	if !strings.HasSuffix(name, "p") || err != nil || h < 0 {
		return 0
	}
	return h
}

// Resolution is the resolver's output for one lesson: the lesson's resolved
// kind and every piece of content it produces, primary content first.
type Resolution struct {
	Lesson   *Lesson
	Kind     ContentKind
	Contents []Content
	Err      error // non-fatal resolution failure; the lesson is reported as failed
}

// Primary returns the first content of the resolution
func (r *Resolution) Primary() Content {
	if len(r.Contents) == 0 {
		return nil
	}
	return r.Contents[0]
}

// QuizRecord is an immutable question set rendered once into a page
type QuizRecord struct {
	Title     string
	Questions []Question
}

// Question is a single quiz question
type Question struct {
	Text        string
	Options     []Option
	Explanation string
}

// Option is one answer choice
type Option struct {
	Text      string
	IsCorrect bool
}

// Validate reports the first question without options
func (q *QuizRecord) Validate() error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz %q has no questions", q.Title)
	}
	for i, question := range q.Questions {
		if len(question.Options) == 0 {
			return fmt.Errorf("question %d of quiz %q has no options", i+1, q.Title)
		}
	}
	return nil
}
