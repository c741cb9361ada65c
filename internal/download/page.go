package download

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/ytget/course-dl/internal/model"
	"github.com/ytget/course-dl/internal/platform"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Lesson HTML from the course site is trusted and embedded as is
var pageTemplates = template.Must(template.New("pages").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"raw": func(s string) template.HTML { return template.HTML(s) },
}).ParseFS(templateFS, "templates/*.tmpl"))

type textPage struct {
	Title string
	Body  string
}

// RenderQuiz renders a quiz into a self-contained page with click-to-reveal
// answers
func RenderQuiz(quiz *model.QuizRecord) ([]byte, error) {
	if err := quiz.Validate(); err != nil {
		return nil, model.NewError(model.ErrorKindRender, "rendering quiz", err)
	}
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "quiz.html.tmpl", quiz); err != nil {
		return nil, model.NewError(model.ErrorKindRender, "rendering quiz", err)
	}
	return buf.Bytes(), nil
}

// RenderText wraps lesson HTML in a minimal page
func RenderText(title, body string) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "text.html.tmpl", textPage{Title: title, Body: body}); err != nil {
		return nil, model.NewError(model.ErrorKindRender, "rendering text page", err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) executeQuiz(task *model.DownloadTask, content model.QuizContent) error {
	if content.Quiz == nil {
		return model.Errorf(model.ErrorKindRender, "rendering "+task.GetDisplayTitle(), "no quiz data")
	}
	page, err := RenderQuiz(content.Quiz)
	if err != nil {
		return err
	}
	return platform.WriteFileAtomic(task.Path, page)
}

func (e *Engine) executeText(task *model.DownloadTask, content model.TextContent) error {
	title := task.GetDisplayTitle()
	if task.Lesson != nil {
		title = task.Lesson.Title
	}
	page, err := RenderText(title, content.HTML)
	if err != nil {
		return err
	}
	return platform.WriteFileAtomic(task.Path, page)
}
