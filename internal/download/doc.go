// Package download implements the fetch and assemble engine: it turns one
// planned task into a finished file. Videos are fetched segment by segment
// into a parts directory and remuxed with ffmpeg, attachments are streamed,
// quiz and text lessons are rendered into self-contained pages. Every final
// file appears through a rename of a completed temporary file.
package download
