package task

import (
	"regexp"
	"strings"
)

const maxSlugLength = 50

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug converts a title to a URL-friendly slug.
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLength {
		truncated := slug[:maxSlugLength]
		// Only trim to last hyphen if we cut mid-word.
		if slug[maxSlugLength] != '-' {
			if idx := strings.LastIndex(truncated, "-"); idx > 0 {
				truncated = truncated[:idx]
			}
		}
		slug = strings.TrimRight(truncated, "-")
	}

	return slug
}

// GenerateFilename creates a task filename from an ID and title.
// Titles without any alphanumerics fall back to "task".
func GenerateFilename(id, title string) string {
	slug := GenerateSlug(title)
	if slug == "" {
		slug = "task"
	}
	return id + "-" + slug + ".md"
}
