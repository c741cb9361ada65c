package plan

import (
	"fmt"
	"testing"

	"github.com/ytget/course-dl/internal/model"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		input string
		want  []int
	}{
		{"all", []int{1, 2, 3, 4, 5, 6, 7}},
		{" ALL ", []int{1, 2, 3, 4, 5, 6, 7}},
		{"", []int{1, 2, 3, 4, 5, 6, 7}},
		{"3", []int{3}},
		{"2-4", []int{2, 3, 4}},
		{"5 - 5", []int{5}},
		{"1,3,5-7", []int{1, 3, 5, 6, 7}},
		{"6-7, 1, 6", []int{1, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, err := ParseSelection(tt.input, 7)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if fmt.Sprint(sel.Chapters()) != fmt.Sprint(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, sel.Chapters())
			}
		})
	}
}

func TestParseSelection_Invalid(t *testing.T) {
	for _, input := range []string{"0", "8", "abc", "3-2", "1-", "-1", "1,,2", "1-9", "2.5", "1 2"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSelection(input, 7)
			if !model.IsKind(err, model.ErrorKindValidation) {
				t.Errorf("Expected validation error for %q, got %v", input, err)
			}
		})
	}
}

func TestParseSelection_EmptyCourse(t *testing.T) {
	if _, err := ParseSelection("all", 0); !model.IsKind(err, model.ErrorKindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestSelectionLen(t *testing.T) {
	sel, err := ParseSelection("2,4,4", 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sel.Len() != 2 {
		t.Errorf("Expected 2 chapters, got %d", sel.Len())
	}
}
