package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// HumanizeCounter turns a snake_case counter name into a display label,
// e.g. "books_read" → "Books Read".
func HumanizeCounter(counter string) string {
	return titleCaser.String(strings.ReplaceAll(counter, "_", " "))
}
