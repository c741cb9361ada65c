package model

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		name     string
		task     DownloadTask
		expected string
	}{
		{
			name: "path with chapter",
			task: DownloadTask{
				Path:       filepath.Join("out", "01 - Intro", "02 - Setup.mp4"),
				ChapterPos: 1,
			},
			expected: "[1] 02 - Setup",
		},
		{
			name:     "path without chapter",
			task:     DownloadTask{Path: filepath.Join("out", "notes.pdf")},
			expected: "notes",
		},
		{
			name:     "lesson title fallback",
			task:     DownloadTask{Lesson: &Lesson{Title: "Welcome"}},
			expected: "Welcome",
		},
		{
			name:     "id fallback",
			task:     DownloadTask{ID: "task-1"},
			expected: "task-1",
		},
	}

	for _, test := range tests {
		result := test.task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("%s: GetDisplayTitle() = '%s', expected '%s'", test.name, result, test.expected)
		}
	}
}

func TestDownloadTask_Kind(t *testing.T) {
	task := &DownloadTask{Lesson: &Lesson{ContentType: ContentTypeQuiz}}
	if task.Kind() != ContentKindQuiz {
		t.Errorf("Expected kind from lesson to be quiz, got %s", task.Kind())
	}

	task.Content = FileContent{Shared: true}
	if task.Kind() != ContentKindSharedFile {
		t.Errorf("Expected kind from content to be shared_file, got %s", task.Kind())
	}

	empty := &DownloadTask{}
	if empty.Kind() != ContentKindUnsupported {
		t.Errorf("Expected unsupported kind for empty task, got %s", empty.Kind())
	}
}

func TestDownloadTask_TempPaths(t *testing.T) {
	task := &DownloadTask{Path: "/out/01 - Video.mp4"}

	if task.TempPath() != "/out/01 - Video.mp4.part" {
		t.Errorf("Unexpected temp path: %s", task.TempPath())
	}
	if task.PartsDir() != "/out/01 - Video.mp4.parts" {
		t.Errorf("Unexpected parts dir: %s", task.PartsDir())
	}
}

func TestDownloadTask_Elapsed(t *testing.T) {
	now := time.Now()
	task := &DownloadTask{StartedAt: now}
	if task.Elapsed() != 0 {
		t.Errorf("Expected zero elapsed for unfinished task, got %v", task.Elapsed())
	}

	task.FinishedAt = now.Add(3 * time.Second)
	if task.Elapsed() != 3*time.Second {
		t.Errorf("Expected 3s elapsed, got %v", task.Elapsed())
	}
}

func TestSegmentName(t *testing.T) {
	if got := SegmentName(7); got != "00007.seg" {
		t.Errorf("Expected 00007.seg, got %s", got)
	}

	tests := []struct {
		name  string
		index int
		ok    bool
	}{
		{"00007.seg", 7, true},
		{"12345.seg", 12345, true},
		{"00007.seg.part", 0, false},
		{"7.seg", 0, false},
		{"abcde.seg", 0, false},
		{"joined", 0, false},
	}
	for _, tt := range tests {
		index, ok := ParseSegmentName(tt.name)
		if index != tt.index || ok != tt.ok {
			t.Errorf("ParseSegmentName(%q) = %d, %v; want %d, %v", tt.name, index, ok, tt.index, tt.ok)
		}
	}
}
