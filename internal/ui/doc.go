// Package ui contains the terminal user interface. It lists the course,
// prompts for the chapter selection and renders runner events, dry-run plans
// and the final summary. All strings are localized via Localization.
package ui
