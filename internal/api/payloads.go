package api

// LessonPayload is the response of the lessons endpoint
type LessonPayload struct {
	Lesson struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		VideoURL string `json:"video_url"`
		HTMLText string `json:"html_text"`
	} `json:"lesson"`
	DownloadFiles []FilePayload `json:"download_files"`
	Attachments   []FilePayload `json:"attachments"`
}

// Files returns download files followed by attachments
func (p *LessonPayload) Files() []FilePayload {
	files := make([]FilePayload, 0, len(p.DownloadFiles)+len(p.Attachments))
	files = append(files, p.DownloadFiles...)
	return append(files, p.Attachments...)
}

// FilePayload describes a downloadable file attached to a lesson
type FilePayload struct {
	FileName    string `json:"file_name"`
	Label       string `json:"label"`
	DownloadURL string `json:"download_url"`
}

// Name returns the best available display name for the file
func (f FilePayload) Name() string {
	switch {
	case f.FileName != "":
		return f.FileName
	case f.Label != "":
		return f.Label
	default:
		return "attachment"
	}
}

// QuizPayload is the response of the quizzes endpoint. Questions and choices
// are listed flat; ordering comes from QuestionIDs and each ChoiceIDs.
type QuizPayload struct {
	Quiz struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		QuestionIDs []int64 `json:"question_ids"`
	} `json:"quiz"`
	Questions []QuestionPayload `json:"questions"`
	Choices   []ChoicePayload   `json:"choices"`
}

// QuestionPayload is one quiz question
type QuestionPayload struct {
	ID              int64   `json:"id"`
	Prompt          string  `json:"prompt"`
	TextExplanation string  `json:"text_explanation"`
	ChoiceIDs       []int64 `json:"choice_ids"`
}

// ChoicePayload is one answer choice. Credited is base64 encoded.
type ChoicePayload struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Credited string `json:"credited"`
}
