package resolve

import "testing"

func TestDecodeQuiz(t *testing.T) {
	quiz := DecodeQuiz("Check", quizPayload())

	if quiz.Title != "Check" {
		t.Errorf("Expected title Check, got %q", quiz.Title)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(quiz.Questions))
	}

	first := quiz.Questions[0]
	if first.Text != "Second?" {
		t.Errorf("Expected question_ids order, got %q first", first.Text)
	}
	if first.Explanation != DefaultExplanation {
		t.Errorf("Expected default explanation, got %q", first.Explanation)
	}
	if len(first.Options) != 1 || !first.Options[0].IsCorrect {
		t.Errorf("Expected unpadded base64 credit to decode, got %+v", first.Options)
	}

	second := quiz.Questions[1]
	if second.Explanation != "Because." {
		t.Errorf("Expected explanation, got %q", second.Explanation)
	}
	if !second.Options[0].IsCorrect || second.Options[1].IsCorrect {
		t.Errorf("Unexpected correctness %+v", second.Options)
	}
	if err := quiz.Validate(); err != nil {
		t.Errorf("Expected valid quiz, got %v", err)
	}
}

func TestIsCredited(t *testing.T) {
	tests := map[string]bool{
		"":             false,
		"dHJ1ZQ==":     true,
		"ZmFsc2U=":     false,
		"VFJVRQ==":     true,
		"not base64!!": false,
	}
	for in, want := range tests {
		if got := IsCredited(in); got != want {
			t.Errorf("IsCredited(%q) = %v, want %v", in, got, want)
		}
	}
}
