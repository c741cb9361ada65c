// Package model defines domain data structures used across the app: the
// course tree loaded from the syllabus, resolved lesson content, download
// tasks with their status enum, and the error taxonomy shared by every stage.
package model
