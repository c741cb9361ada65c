package model

// ContentKind is the resolved kind of a lesson's content
type ContentKind string

const (
	ContentKindVideo       ContentKind = "video"
	ContentKindQuiz        ContentKind = "quiz"
	ContentKindAttachment  ContentKind = "attachment"
	ContentKindSharedFile  ContentKind = "shared_file"
	ContentKindText        ContentKind = "text"
	ContentKindUnsupported ContentKind = "unsupported"
)

// Discriminator values sent by the course player API in contentable_type
const (
	ContentTypeLesson   = "Lesson"
	ContentTypeQuiz     = "Quiz"
	ContentTypePdf      = "Pdf"
	ContentTypeDownload = "Download"
	ContentTypeHTMLItem = "HtmlItem"
	ContentTypeText     = "Text"
)

// KindFromContentType maps the syllabus discriminator to the kind a lesson is
// expected to have before its payload is fetched. A Lesson is assumed to be a
// video until the resolver sees its payload.
func KindFromContentType(contentType string) ContentKind {
	switch contentType {
	case ContentTypeLesson:
		return ContentKindVideo
	case ContentTypeQuiz:
		return ContentKindQuiz
	case ContentTypePdf:
		return ContentKindAttachment
	case ContentTypeDownload:
		return ContentKindSharedFile
	case ContentTypeHTMLItem, ContentTypeText:
		return ContentKindText
	default:
		return ContentKindUnsupported
	}
}

// Extension returns the file extension (without dot) used for the kind's main
// output, or "" when it depends on the downloaded file's name.
func (k ContentKind) Extension() string {
	switch k {
	case ContentKindVideo:
		return "mp4"
	case ContentKindQuiz, ContentKindText:
		return "html"
	default:
		return ""
	}
}

// Course is the root of the syllabus tree. It is built once per run and never
// mutated afterwards.
type Course struct {
	ID       int64
	Title    string
	Chapters []*Chapter
}

// Chapter groups lessons; Position is 1-based and is what users select by
type Chapter struct {
	ID       int64
	Title    string
	Position int
	Lessons  []*Lesson
}

// Lesson is a single syllabus entry
type Lesson struct {
	ID          int64
	Title       string
	ContentType string // raw contentable_type discriminator
	ContentID   int64  // contentable_id, resolved lazily
	Position    int    // 1-based within its chapter
}

// Kind returns the kind implied by the lesson's discriminator
func (l *Lesson) Kind() ContentKind {
	return KindFromContentType(l.ContentType)
}

// ChapterCount returns the number of chapters in the course
func (c *Course) ChapterCount() int {
	return len(c.Chapters)
}

// LessonCount returns the number of lessons across all chapters
func (c *Course) LessonCount() int {
	n := 0
	for _, ch := range c.Chapters {
		n += len(ch.Lessons)
	}
	return n
}

// Chapter returns the chapter at the given 1-based position
func (c *Course) Chapter(position int) (*Chapter, bool) {
	if position < 1 || position > len(c.Chapters) {
		return nil, false
	}
	return c.Chapters[position-1], true
}
