package api

import (
	"fmt"

	"github.com/ytget/course-dl/internal/model"
)

// syllabusResponse is the course player syllabus document. Lessons are listed
// flat in contents and lessons and referenced from chapters by id.
type syllabusResponse struct {
	Course struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"course"`
	Chapters []struct {
		ID         int64   `json:"id"`
		Name       string  `json:"name"`
		ContentIDs []int64 `json:"content_ids"`
	} `json:"chapters"`
	Contents []contentItem `json:"contents"`
	Lessons  []contentItem `json:"lessons"`
}

type contentItem struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	ContentableID   int64  `json:"contentable_id"`
	ContentableType string `json:"contentable_type"`
}

// Names used when the API omits them
const (
	DefaultCourseTitle = "Course"
	DefaultLessonTitle = "Unknown Lesson"
)

// toCourse joins chapters to their lessons. Lesson positions follow the
// chapter's content_ids order, so an unknown id leaves a gap rather than
// renumbering the lessons after it.
func (r *syllabusResponse) toCourse() *model.Course {
	items := make(map[int64]contentItem, len(r.Contents)+len(r.Lessons))
	for _, item := range r.Contents {
		items[item.ID] = item
	}
	for _, item := range r.Lessons {
		items[item.ID] = item
	}

	course := &model.Course{ID: r.Course.ID, Title: r.Course.Name}
	if course.Title == "" {
		course.Title = DefaultCourseTitle
	}

	for i, ch := range r.Chapters {
		chapter := &model.Chapter{
			ID:       ch.ID,
			Title:    ch.Name,
			Position: i + 1,
		}
		if chapter.Title == "" {
			chapter.Title = fmt.Sprintf("Chapter %d", i+1)
		}
		for j, id := range ch.ContentIDs {
			item, ok := items[id]
			if !ok {
				continue
			}
			lesson := &model.Lesson{
				ID:          item.ID,
				Title:       item.Name,
				ContentType: item.ContentableType,
				ContentID:   item.ContentableID,
				Position:    j + 1,
			}
			if lesson.Title == "" {
				lesson.Title = DefaultLessonTitle
			}
			chapter.Lessons = append(chapter.Lessons, lesson)
		}
		course.Chapters = append(course.Chapters, chapter)
	}
	return course
}
