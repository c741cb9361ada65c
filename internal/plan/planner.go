package plan

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ytget/course-dl/internal/model"
	"github.com/ytget/course-dl/internal/platform"
)

// TaskIDPrefix is prepended to every generated task id
const TaskIDPrefix = "task-"

// Plan builds the tasks for the selected chapters in (chapter, lesson)
// order. resolved is keyed by lesson id; lessons missing from it get a
// single task derived from their discriminator. A lesson that failed to
// resolve yields a Failed task so it shows up in the summary.
func Plan(course *model.Course, selection Selection, resolved map[int64]*model.Resolution, root string) ([]*model.DownloadTask, error) {
	courseDir := filepath.Join(root, platform.CourseDirName(course.Title))
	paths := make(map[string]bool)
	var tasks []*model.DownloadTask

	for _, pos := range selection.Chapters() {
		chapter, ok := course.Chapter(pos)
		if !ok {
			return nil, model.Errorf(model.ErrorKindValidation, "planning", "no chapter at position %d", pos)
		}
		chapterDir := filepath.Join(courseDir, platform.NumberedName(chapter.Position, chapter.Title))

		for _, lesson := range chapter.Lessons {
			base := filepath.Join(chapterDir, platform.NumberedName(lesson.Position, lesson.Title))
			for _, task := range lessonTasks(lesson, resolved[lesson.ID], base) {
				if paths[task.Path] {
					return nil, model.Errorf(model.ErrorKindValidation, "planning",
						"two tasks write %s", task.Path)
				}
				paths[task.Path] = true
				task.ChapterPos = chapter.Position
				task.ChapterTitle = chapter.Title
				tasks = append(tasks, task)
			}
		}
	}
	return tasks, nil
}

func lessonTasks(lesson *model.Lesson, res *model.Resolution, base string) []*model.DownloadTask {
	if res == nil {
		return []*model.DownloadTask{newTask(lesson, nil, platform.WithExtension(base, lesson.Kind().Extension()))}
	}

	var tasks []*model.DownloadTask
	if res.Err != nil {
		failed := newTask(lesson, nil, platform.WithExtension(base, res.Kind.Extension()))
		failed.Status = model.TaskStatusFailed
		failed.LastError = res.Err.Error()
		tasks = append(tasks, failed)
	}

	used := make(map[string]bool)
	for _, task := range tasks {
		used[task.Path] = true
	}
	for _, content := range res.Contents {
		path := contentPath(base, content, used)
		used[path] = true
		tasks = append(tasks, newTask(lesson, content, path))
	}
	return tasks
}

// contentPath names a content's destination. Videos, quizzes and text pages
// take the lesson name; files append their own name, numbered on collision.
func contentPath(base string, content model.Content, used map[string]bool) string {
	file, ok := content.(model.FileContent)
	if !ok {
		return platform.WithExtension(base, content.Kind().Extension())
	}

	stem := platform.SanitizeFileName(file.Stem())
	path := platform.WithExtension(base+"_"+stem, file.Extension())
	for n := 2; used[path]; n++ {
		path = platform.WithExtension(fmt.Sprintf("%s_%s (%d)", base, stem, n), file.Extension())
	}
	return path
}

func newTask(lesson *model.Lesson, content model.Content, path string) *model.DownloadTask {
	return &model.DownloadTask{
		ID:      TaskIDPrefix + newID(),
		Lesson:  lesson,
		Path:    path,
		Status:  model.TaskStatusPending,
		Content: content,
	}
}

func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
