// Package media provides the media-folder helpers used during triage.
// It handles destination name suggestions, extension filter categories,
// and the filtered tree copy into the destination library.
package media

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Release title pattern: a leading title run followed by a 19xx/20xx year marker.
// Not anchored at the end, so resolution and group tags after the year are ignored.
var titleYearPattern = regexp.MustCompile(`(?i)^([a-z0-9 ._-]+?)[ ._-]*((?:19|20)\d{2})`)

// separatorReplacer turns dots and underscores into spaces
var separatorReplacer = strings.NewReplacer(".", " ", "_", " ")

// CleanName converts a raw download folder name into a title-cased suggestion.
// When a release year is present, everything from the year onwards is dropped.
//
//	"The.Matrix.1999.1080p" -> "The Matrix"
//	"some_show_s01"         -> "Some Show S01"
func CleanName(raw string) string {
	name := separatorReplacer.Replace(raw)

	title := name
	if matches := titleYearPattern.FindStringSubmatch(name); matches != nil {
		title = matches[1]
	}

	return titleCase(title)
}

// ReleaseYear returns the release-year marker that CleanName cuts at, if any.
func ReleaseYear(raw string) (int, bool) {
	name := separatorReplacer.Replace(raw)

	matches := titleYearPattern.FindStringSubmatch(name)
	if matches == nil {
		return 0, false
	}

	year, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, false
	}
	return year, true
}

// titleCase upper-cases the first character of every whitespace separated word
// and joins the words with single spaces.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return strings.ToUpper(string(r)) + word[size:]
}
