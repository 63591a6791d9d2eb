// Package naming maps remote project and conversation titles to
// filesystem-safe, collision-free folder and file names.
package naming

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxNameLength caps sanitized names, in runes.
const MaxNameLength = 100

// DefaultFolderName is used when a project name sanitizes to nothing.
const DefaultFolderName = "project"

// unsafeChars are replaced with '_' in sanitized names.
const unsafeChars = `<>:"/\|?*`

// Sanitize turns an arbitrary display name into a single safe path segment.
// Path separators, reserved punctuation and control characters become '_',
// whitespace runs collapse to one space, and leading dots are removed so the
// result is never a hidden or traversal segment. The result may be empty.
func Sanitize(name string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range name {
		switch {
		case unicode.IsControl(r) || strings.ContainsRune(unsafeChars, r):
			b.WriteRune('_')
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}

	out := strings.TrimSpace(b.String())
	out = strings.TrimLeft(out, ".")
	out = strings.TrimSpace(out)

	runes := []rune(out)
	if len(runes) > MaxNameLength {
		out = string(runes[:MaxNameLength])
	}

	// Windows refuses trailing dots and spaces.
	return strings.TrimRight(out, ". ")
}

// SanitizeOr is Sanitize with a fallback for names that sanitize to nothing.
func SanitizeOr(name, fallback string) string {
	if s := Sanitize(name); s != "" {
		return s
	}
	return fallback
}

// Resolver picks the folder a project is stored under.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the folder name for a project given the current
// project-id -> folder mapping.
//
// An existing mapping always wins, so renaming a project remotely never moves
// its folder. Otherwise the sanitized name is used, suffixed with _1, _2, ...
// while it collides with a folder bound to a different project. Folder names
// are compared case-insensitively. Resolve does not modify mapping.
func (r *Resolver) Resolve(projectID, projectName string, mapping map[string]string) string {
	if folder, ok := mapping[projectID]; ok && folder != "" {
		return folder
	}

	base := SanitizeOr(projectName, DefaultFolderName)

	taken := make(map[string]bool, len(mapping))
	for id, folder := range mapping {
		if id == projectID {
			continue
		}
		taken[strings.ToLower(folder)] = true
	}

	candidate := base
	for i := 1; taken[strings.ToLower(candidate)]; i++ {
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
	return candidate
}
