// Package static embeds static files into the binary
package static

import (
	"embed"
	"path"
)

const (
	filesDir = "files"
)

//go:embed files/*
var Files embed.FS

// FilePath returns the path to name inside the embedded file system.
func FilePath(name string) string {
	return path.Join(filesDir, name)
}

// Patterns returns the raw contents of the built-in pattern catalog.
func Patterns() ([]byte, error) {
	return Files.ReadFile(FilePath("patterns.yml"))
}
