package service

import (
	"fmt"
	"path"
	"strings"
)

// Buckets names the three storage buckets assets are written to.
type Buckets struct {
	Images    string
	CV        string
	Documents string
}

// Object paths are shared with whatever else reads the buckets and must not
// change.
const (
	ProfileImagePath = "profile.jpg"
	ResumePath       = "cv.pdf"
)

func ProjectImagePath(index int) string {
	return fmt.Sprintf("project-%d.jpg", index)
}

func DocumentPath(documentID, filename string) string {
	return fmt.Sprintf("doc-%s-%s", documentID, SanitizeFilename(filename))
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with '-'.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
