package resolve

import (
	"encoding/base64"
	"strings"

	"github.com/ytget/course-dl/internal/api"
	"github.com/ytget/course-dl/internal/model"
)

// DefaultExplanation is shown for questions the API gives no explanation for
const DefaultExplanation = "No explanation provided."

// DecodeQuiz builds a quiz record from the API payload. Questions follow
// quiz.question_ids and options follow each question's choice_ids; ids that
// point nowhere are dropped.
func DecodeQuiz(title string, payload *api.QuizPayload) *model.QuizRecord {
	quiz := &model.QuizRecord{Title: payload.Quiz.Name}
	if title != "" {
		quiz.Title = title
	}

	questions := make(map[int64]api.QuestionPayload, len(payload.Questions))
	for _, q := range payload.Questions {
		questions[q.ID] = q
	}
	choices := make(map[int64]api.ChoicePayload, len(payload.Choices))
	for _, c := range payload.Choices {
		choices[c.ID] = c
	}

	order := payload.Quiz.QuestionIDs
	if len(order) == 0 {
		for _, q := range payload.Questions {
			order = append(order, q.ID)
		}
	}

	for _, id := range order {
		q, ok := questions[id]
		if !ok {
			continue
		}
		question := model.Question{Text: q.Prompt, Explanation: q.TextExplanation}
		if strings.TrimSpace(question.Explanation) == "" {
			question.Explanation = DefaultExplanation
		}
		for _, cid := range q.ChoiceIDs {
			c, ok := choices[cid]
			if !ok {
				continue
			}
			question.Options = append(question.Options, model.Option{
				Text:      c.Text,
				IsCorrect: IsCredited(c.Credited),
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}

// IsCredited decodes the base64 credited flag of a choice
func IsCredited(encoded string) bool {
	if encoded == "" {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return false
		}
	}
	return strings.Contains(strings.ToLower(string(decoded)), "true")
}
