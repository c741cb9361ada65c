// Package plan turns a course and the user's chapter selection into an
// ordered list of download tasks with unique destination paths.
package plan
