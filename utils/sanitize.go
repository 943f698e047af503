package utils

import "github.com/microcosm-cc/bluemonday"

// Captions and comments are plain text; strip all markup at ingest.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes any HTML from user-supplied text.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
