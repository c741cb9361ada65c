package platform

// Package platform contains OS/platform integration: file naming, atomic
// writes, free-space probing and opening the output folder.
