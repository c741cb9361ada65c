package plan

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ytget/course-dl/internal/model"
)

// SelectAll is the literal that selects every chapter
const SelectAll = "all"

const opSelection = "parsing chapter selection"

// Selection is a validated set of 1-based chapter positions
type Selection struct {
	chapters []int
}

// ParseSelection parses "all", "N", "N-M" or a comma separated list of those
// against a course with chapterCount chapters. Empty input means all.
func ParseSelection(input string, chapterCount int) (Selection, error) {
	if chapterCount < 1 {
		return Selection{}, model.Errorf(model.ErrorKindValidation, opSelection, "course has no chapters")
	}

	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || input == SelectAll {
		return All(chapterCount), nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		start, end, err := parseRange(part)
		if err != nil {
			return Selection{}, model.NewError(model.ErrorKindValidation, opSelection, err)
		}
		if start > end {
			return Selection{}, model.Errorf(model.ErrorKindValidation, opSelection,
				"range %q is reversed", part)
		}
		if start < 1 || end > chapterCount {
			return Selection{}, model.Errorf(model.ErrorKindValidation, opSelection,
				"%q is out of range, the course has chapters 1-%d", part, chapterCount)
		}
		for i := start; i <= end; i++ {
			seen[i] = true
		}
	}

	s := Selection{chapters: make([]int, 0, len(seen))}
	for pos := range seen {
		s.chapters = append(s.chapters, pos)
	}
	sort.Ints(s.chapters)
	return s, nil
}

// All selects chapters 1 through chapterCount
func All(chapterCount int) Selection {
	s := Selection{chapters: make([]int, chapterCount)}
	for i := range s.chapters {
		s.chapters[i] = i + 1
	}
	return s
}

func parseRange(part string) (int, int, error) {
	if part == "" {
		return 0, 0, errEmptyPart
	}
	lo, hi, isRange := strings.Cut(part, "-")
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, &selectionSyntaxError{part}
	}
	if !isRange {
		return start, start, nil
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, &selectionSyntaxError{part}
	}
	return start, end, nil
}

// Chapters returns the selected positions in ascending order
func (s Selection) Chapters() []int {
	return append([]int(nil), s.chapters...)
}

// Len returns the number of selected chapters
func (s Selection) Len() int {
	return len(s.chapters)
}
