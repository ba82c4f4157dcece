package extractor

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	maxFilenameLength   = 200
	invalidFilenameRune = `<>:"/\|?*`
)

// SanitizeFilename strips characters that are invalid on common filesystems,
// collapses whitespace, trims leading and trailing spaces and dots, and caps
// the result at 200 characters. It is idempotent.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilenameRune, r) {
			return -1
		}
		return r
	}, name)

	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, ". ")

	if utf8.RuneCountInString(name) > maxFilenameLength {
		name = string([]rune(name)[:maxFilenameLength])
		name = strings.TrimRight(name, ". ")
	}
	return name
}

// outputTemplate builds a yt-dlp output template pinned to name. Percent signs
// are doubled so the template engine treats them literally.
func outputTemplate(outputDir, name string) string {
	base := strings.ReplaceAll(filepath.Join(outputDir, name), "%", "%%")
	return base + ".%(ext)s"
}
