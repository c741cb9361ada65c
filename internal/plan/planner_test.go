package plan

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytget/course-dl/internal/model"
)

// twoChapterCourse has 3 lessons in chapter 1 and 2 in chapter 2
func twoChapterCourse() *model.Course {
	return &model.Course{
		Title: "Go: The Basics!",
		Chapters: []*model.Chapter{
			{ID: 1, Title: "Intro", Position: 1, Lessons: []*model.Lesson{
				{ID: 11, Title: "Welcome", ContentType: "Lesson", Position: 1},
				{ID: 12, Title: "Setup", ContentType: "Lesson", Position: 2},
				{ID: 13, Title: "Check", ContentType: "Quiz", Position: 3},
			}},
			{ID: 2, Title: "Types", Position: 2, Lessons: []*model.Lesson{
				{ID: 21, Title: "Ints", ContentType: "Lesson", Position: 1},
				{ID: 22, Title: "Strings", ContentType: "Lesson", Position: 2},
			}},
		},
	}
}

func TestPlan_Selections(t *testing.T) {
	course := twoChapterCourse()

	tests := []struct {
		input string
		want  int
	}{
		{"1", 3},
		{"1-2", 5},
		{"all", 5},
		{"2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, err := ParseSelection(tt.input, course.ChapterCount())
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			tasks, err := Plan(course, sel, nil, "/out")
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(tasks) != tt.want {
				t.Errorf("Expected %d tasks, got %d", tt.want, len(tasks))
			}
		})
	}

	if _, err := ParseSelection("3", course.ChapterCount()); !model.IsKind(err, model.ErrorKindValidation) {
		t.Errorf("Expected validation error for chapter 3, got %v", err)
	}
}

func TestPlan_OrderAndPaths(t *testing.T) {
	course := twoChapterCourse()
	tasks, err := Plan(course, All(2), nil, "/out")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{
		"/out/go-the-basics/01 - Intro/01 - Welcome.mp4",
		"/out/go-the-basics/01 - Intro/02 - Setup.mp4",
		"/out/go-the-basics/01 - Intro/03 - Check.html",
		"/out/go-the-basics/02 - Types/01 - Ints.mp4",
		"/out/go-the-basics/02 - Types/02 - Strings.mp4",
	}
	for i, task := range tasks {
		if task.Path != filepath.FromSlash(want[i]) {
			t.Errorf("Task %d: expected path %s, got %s", i, want[i], task.Path)
		}
		if task.Status != model.TaskStatusPending {
			t.Errorf("Task %d: expected Pending, got %s", i, task.Status)
		}
		if !strings.HasPrefix(task.ID, TaskIDPrefix) {
			t.Errorf("Task %d: expected id prefix, got %s", i, task.ID)
		}
	}
	if tasks[3].ChapterPos != 2 || tasks[3].ChapterTitle != "Types" {
		t.Errorf("Unexpected chapter info on task 3: %d %q", tasks[3].ChapterPos, tasks[3].ChapterTitle)
	}
}

func TestPlan_ResolvedContents(t *testing.T) {
	course := twoChapterCourse()
	resolved := map[int64]*model.Resolution{
		11: {Kind: model.ContentKindVideo, Contents: []model.Content{
			model.VideoContent{URL: "v"},
			model.TextContent{HTML: "<p>x</p>"},
			model.FileContent{URL: "https://cdn/a.pdf", FileName: "Notes.PDF"},
			model.FileContent{URL: "https://cdn/b.pdf", FileName: "Notes.PDF"},
			model.FileContent{URL: "https://cdn/file.zip?sig=1", FileName: "bundle"},
		}},
		12: {Kind: model.ContentKindVideo, Err: errors.New("no wistia media"), Contents: []model.Content{
			model.FileContent{URL: "https://cdn/c.txt", FileName: "c.txt"},
		}},
		13: {Kind: model.ContentKindUnsupported, Contents: []model.Content{model.UnsupportedContent{Reason: "x"}}},
	}

	sel, _ := ParseSelection("1", 2)
	tasks, err := Plan(course, sel, resolved, "/out")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	dir := filepath.FromSlash("/out/go-the-basics/01 - Intro/")
	want := []string{
		"01 - Welcome.mp4",
		"01 - Welcome.html",
		"01 - Welcome_Notes.pdf",
		"01 - Welcome_Notes (2).pdf",
		"01 - Welcome_bundle.zip",
		"02 - Setup.mp4",
		"02 - Setup_c.txt",
		"03 - Check",
	}
	if len(tasks) != len(want) {
		t.Fatalf("Expected %d tasks, got %d", len(want), len(tasks))
	}
	for i, task := range tasks {
		if task.Path != filepath.Join(dir, want[i]) {
			t.Errorf("Task %d: expected %s, got %s", i, want[i], task.Path)
		}
	}

	failed := tasks[5]
	if failed.Status != model.TaskStatusFailed || failed.LastError != "no wistia media" || failed.Content != nil {
		t.Errorf("Expected pre-failed task, got %+v", failed)
	}
	if tasks[7].Kind() != model.ContentKindUnsupported {
		t.Errorf("Expected unsupported task, got %s", tasks[7].Kind())
	}
}

func TestPlan_DuplicatePath(t *testing.T) {
	course := &model.Course{Title: "c", Chapters: []*model.Chapter{
		{Title: "ch", Position: 1, Lessons: []*model.Lesson{
			{ID: 1, Title: "Same", ContentType: "Lesson", Position: 1},
			{ID: 2, Title: "Same", ContentType: "Lesson", Position: 1},
		}},
	}}

	_, err := Plan(course, All(1), nil, "/out")
	if !model.IsKind(err, model.ErrorKindValidation) {
		t.Errorf("Expected validation error for duplicate path, got %v", err)
	}
}

func TestPlan_UniqueIDs(t *testing.T) {
	tasks, err := Plan(twoChapterCourse(), All(2), nil, "/out")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	seen := make(map[string]bool)
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("Duplicate task id %s", task.ID)
		}
		seen[task.ID] = true
	}
}
