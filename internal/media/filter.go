package media

import (
	"fmt"
	"strings"
)

// Category selects which files a filtered copy includes.
type Category int

const (
	CategoryVideo Category = iota + 1
	CategorySubtitles
	CategoryBoth
	CategoryAny
)

// Categories lists the filter categories in menu order.
var Categories = []Category{CategoryVideo, CategorySubtitles, CategoryBoth, CategoryAny}

// Extension sets, lower-case and without the dot.
var (
	VideoExtensions    = []string{"mp4", "mkv", "avi", "mov", "flv", "wmv", "webm"}
	SubtitleExtensions = []string{"srt", "ass", "vtt", "sub", "ssa"}
)

var (
	videoExtensions    = toSet(VideoExtensions)
	subtitleExtensions = toSet(SubtitleExtensions)
)

func toSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[e] = true
	}
	return set
}

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryVideo:
		return "Video"
	case CategorySubtitles:
		return "Subtitles"
	case CategoryBoth:
		return "Both"
	case CategoryAny:
		return "Any"
	default:
		return "Unknown"
	}
}

// Label returns the menu line for the category, listing the extensions it accepts.
func (c Category) Label() string {
	videos := strings.Join(VideoExtensions, ", ")
	subs := strings.Join(SubtitleExtensions, ", ")

	switch c {
	case CategoryVideo:
		return fmt.Sprintf("%-9s - [%s]", c, videos)
	case CategorySubtitles:
		return fmt.Sprintf("%-9s - [%s]", c, subs)
	case CategoryBoth:
		return fmt.Sprintf("%-9s - [%s, %s]", c, videos, subs)
	default:
		return fmt.Sprintf("%-9s - [*] (DEFAULT)", CategoryAny)
	}
}

// Allows reports whether a lower-cased extension (no dot) passes the filter.
// Files without an extension never reach this check, so even CategoryAny
// does not copy them.
func (c Category) Allows(ext string) bool {
	switch c {
	case CategoryVideo:
		return videoExtensions[ext]
	case CategorySubtitles:
		return subtitleExtensions[ext]
	case CategoryBoth:
		return videoExtensions[ext] || subtitleExtensions[ext]
	default:
		return true
	}
}

// CategoryForChoice maps a 1-based menu choice to a category.
// Zero and out-of-range choices fall back to CategoryAny.
func CategoryForChoice(choice int) Category {
	if choice < 1 || choice > len(Categories) {
		return CategoryAny
	}
	return Categories[choice-1]
}

// Extension returns the lower-cased extension of a file name without the dot.
// Names without a dot, or whose only dot is a leading one (".nfo"), have none.
func Extension(name string) (string, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return "", false
	}
	return strings.ToLower(name[idx+1:]), true
}
