package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Status markers
const (
	IconDone    = "✔"
	IconSkip    = "↷"
	IconFail    = "✖"
	IconRetry   = "↻"
	IconPending = "·"
	IconFolder  = "📁"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%3d%%"
	PromptMarker        = "> "
)

// Progress rendering
const (
	// ProgressStep is the smallest percentage change printed per task
	ProgressStep = 10
)

// File size formatting
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)
