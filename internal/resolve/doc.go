// Package resolve turns syllabus lessons into typed content: the chosen
// video rendition, the parsed quiz, attachments and text pages.
package resolve
