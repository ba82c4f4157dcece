package domain

// SourceType identifies which extraction strategy handles a URL.
type SourceType string

const (
	SourceYouTube SourceType = "youtube"
	SourceTwitter SourceType = "twitter"
	SourceM3U8    SourceType = "m3u8"
	SourceUnknown SourceType = "unknown"
)

// Outcome is the normalized result of one download attempt.
type Outcome struct {
	Success    bool
	Filepath   string
	Message    string
	SourceType SourceType
}
