package utils

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxFilenameBytes = 200

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	multipleSpaces       = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes name safe to use as a single path component.
// Invalid characters are dropped, whitespace runs collapse to one space and
// the result is capped without splitting a UTF-8 sequence.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, name)
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = multipleSpaces.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")

	if len(name) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}

	if name == "" {
		name = "Untitled"
	}
	return name
}

// ReplaceExtension returns the base name of path with its extension
// swapped for ext, e.g. ("Takeout/Keep/a.html", ".txt") -> "a.txt".
// The base name is kept as is: it already names a file on this system.
func ReplaceExtension(path, ext string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "Untitled"
	}
	return base + ext
}
