package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyCourseTitle      = "course_title"
	KeyChapters         = "chapters"
	KeyLessons          = "lessons"
	KeySelectPrompt     = "select_prompt"
	KeyInvalidSelection = "invalid_selection"
	KeyPlanHeader       = "plan_header"
	KeyStarted          = "started"
	KeyRetrying         = "retrying"
	KeyCompleted        = "completed"
	KeyFailed           = "failed"
	KeySkipped          = "skipped"
	KeyInterrupted      = "interrupted"
	KeySummary          = "summary"
	KeyDownloaded       = "downloaded"
	KeyNotStarted       = "not_started"
	KeyFatal            = "fatal"
	KeyNothingToDo      = "nothing_to_do"
	KeyOutput           = "output"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyCourseTitle:      "Course",
		KeyChapters:         "chapters",
		KeyLessons:          "lessons",
		KeySelectPrompt:     "Chapters to download (all, 3, 2-5, 1,4): ",
		KeyInvalidSelection: "Invalid selection",
		KeyPlanHeader:       "Planned downloads",
		KeyStarted:          "Started",
		KeyRetrying:         "Retrying",
		KeyCompleted:        "Completed",
		KeyFailed:           "Failed",
		KeySkipped:          "Skipped",
		KeyInterrupted:      "Interrupted, progress kept for the next run",
		KeySummary:          "Summary",
		KeyDownloaded:       "Downloaded",
		KeyNotStarted:       "Not started",
		KeyFatal:            "Stopped",
		KeyNothingToDo:      "Everything is already downloaded",
		KeyOutput:           "Output",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyCourseTitle:      "Курс",
		KeyChapters:         "глав",
		KeyLessons:          "уроков",
		KeySelectPrompt:     "Главы для загрузки (all, 3, 2-5, 1,4): ",
		KeyInvalidSelection: "Неверный выбор",
		KeyPlanHeader:       "Запланированные загрузки",
		KeyStarted:          "Начато",
		KeyRetrying:         "Повтор",
		KeyCompleted:        "Завершено",
		KeyFailed:           "Ошибка",
		KeySkipped:          "Пропущено",
		KeyInterrupted:      "Прервано, прогресс сохранён для следующего запуска",
		KeySummary:          "Итог",
		KeyDownloaded:       "Загружено",
		KeyNotStarted:       "Не начато",
		KeyFatal:            "Остановлено",
		KeyNothingToDo:      "Всё уже загружено",
		KeyOutput:           "Папка",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyCourseTitle:      "Curso",
		KeyChapters:         "capítulos",
		KeyLessons:          "aulas",
		KeySelectPrompt:     "Capítulos para baixar (all, 3, 2-5, 1,4): ",
		KeyInvalidSelection: "Seleção inválida",
		KeyPlanHeader:       "Downloads planejados",
		KeyStarted:          "Iniciado",
		KeyRetrying:         "Tentando novamente",
		KeyCompleted:        "Concluído",
		KeyFailed:           "Falhou",
		KeySkipped:          "Ignorado",
		KeyInterrupted:      "Interrompido, progresso mantido para a próxima execução",
		KeySummary:          "Resumo",
		KeyDownloaded:       "Baixados",
		KeyNotStarted:       "Não iniciados",
		KeyFatal:            "Parado",
		KeyNothingToDo:      "Tudo já foi baixado",
		KeyOutput:           "Saída",
	}
}
