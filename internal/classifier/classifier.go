// Package classifier maps a video URL to the source type that decides which
// extraction strategy handles it.
package classifier

import (
	"regexp"
	"strings"

	"github.com/veranemoloko/video-downloader/internal/domain"
)

var (
	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?youtube\.com/(?:watch(?:[/?#]|$)|embed/|v/|shorts/)`),
		regexp.MustCompile(`(?i)^(?:https?://)?youtu\.be/`),
	}

	twitterPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|mobile\.)?twitter\.com(?:[/?#]|$)`),
		regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?x\.com(?:[/?#]|$)`),
	}
)

// Classify returns the source type for rawURL. YouTube and Twitter/X are
// checked before the looser m3u8 substring match; anything else is unknown.
func Classify(rawURL string) domain.SourceType {
	u := strings.TrimSpace(rawURL)

	switch {
	case IsYouTube(u):
		return domain.SourceYouTube
	case IsTwitter(u):
		return domain.SourceTwitter
	case IsM3U8(u):
		return domain.SourceM3U8
	default:
		return domain.SourceUnknown
	}
}

// IsYouTube reports whether u is a YouTube watch, embed, v, shorts or youtu.be link.
func IsYouTube(u string) bool {
	return matchAny(youtubePatterns, u)
}

// IsTwitter reports whether u points at twitter.com or x.com.
func IsTwitter(u string) bool {
	return matchAny(twitterPatterns, u)
}

// IsM3U8 reports whether u mentions m3u8 anywhere, which also covers a .m3u8 suffix.
func IsM3U8(u string) bool {
	return strings.Contains(strings.ToLower(u), "m3u8")
}

func matchAny(patterns []*regexp.Regexp, u string) bool {
	for _, p := range patterns {
		if p.MatchString(u) {
			return true
		}
	}
	return false
}
