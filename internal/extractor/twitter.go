package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/veranemoloko/video-downloader/internal/domain"
	errpkg "github.com/veranemoloko/video-downloader/internal/errors"
)

const (
	defaultUploader       = "twitter_user"
	descriptionNameLength = 50
	twitterExtractorArgs  = "twitter:api=syndication,graphql"
)

// twitterErrorRules rewrite raw yt-dlp error text into user-facing messages.
// Rules are checked in order and matched by substring, so they depend on the
// wording of the installed yt-dlp version.
var twitterErrorRules = []struct {
	needles []string
	message string
}{
	{
		needles: []string{"No video could be found"},
		message: "No video found in this tweet. Please ensure:\n" +
			"1. The tweet actually contains a video (not just images)\n" +
			"2. The video is not from a private/protected account\n" +
			"3. You're using the full tweet URL (e.g., https://twitter.com/user/status/123...)",
	},
	{
		needles: []string{"403", "Forbidden"},
		message: "Access forbidden. The tweet may be from a private account or region-restricted.",
	},
	{
		needles: []string{"404", "Not Found"},
		message: "Tweet not found. Please check the URL is correct.",
	},
}

// Twitter downloads the video attached to a tweet on twitter.com or x.com.
type Twitter struct {
	tool      MediaTool
	maxHeight int
}

func NewTwitter(tool MediaTool, maxHeight int) *Twitter {
	return &Twitter{tool: tool, maxHeight: maxHeight}
}

func (s *Twitter) Source() domain.SourceType {
	return domain.SourceTwitter
}

func (s *Twitter) options() FetchOptions {
	h := s.maxHeight
	return FetchOptions{
		Format:        fmt.Sprintf("best[height<=%d][ext=mp4]/best[height<=%d]/best", h, h),
		MergeFormat:   "mp4",
		RecodeFormat:  "mp4",
		ExtractorArgs: twitterExtractorArgs,
	}
}

func (s *Twitter) Fetch(ctx context.Context, url, outputDir string, onProgress ProgressFunc) (Artifact, error) {
	opts := s.options()

	info, err := s.tool.Probe(ctx, url, opts)
	if err != nil {
		return Artifact{}, s.fail(err)
	}

	uploader := info.Uploader
	if uploader == "" {
		uploader = defaultUploader
	}
	name := tweetFilename(uploader, info.ID, info.Description)

	opts.OutputTemplate = outputTemplate(outputDir, name)
	if err := s.tool.Fetch(ctx, url, opts, byteProgress(onProgress)); err != nil {
		return Artifact{}, s.fail(err)
	}

	path, err := filepath.Abs(filepath.Join(outputDir, name+".mp4"))
	if err != nil {
		return Artifact{}, s.fail(err)
	}

	return Artifact{
		Filepath: path,
		Message:  "Successfully downloaded Twitter video from @" + uploader,
	}, nil
}

// tweetFilename builds {uploader}_{description prefix}_{id}, or
// {uploader}_{id} when the tweet has no text.
func tweetFilename(uploader, id, description string) string {
	if id == "" {
		id = defaultTitle
	}

	var name string
	if description != "" {
		runes := []rune(description)
		if len(runes) > descriptionNameLength {
			runes = runes[:descriptionNameLength]
		}
		part := strings.TrimSpace(strings.ReplaceAll(string(runes), "\n", " "))
		name = SanitizeFilename(uploader + "_" + part + "_" + id)
	} else {
		name = SanitizeFilename(uploader + "_" + id)
	}

	if name == "" {
		return defaultTitle
	}
	return name
}

// RewriteTwitterError maps raw tool output onto the known user-facing messages,
// passing anything unrecognised through unchanged.
func RewriteTwitterError(raw string) string {
	for _, rule := range twitterErrorRules {
		for _, needle := range rule.needles {
			if strings.Contains(raw, needle) {
				return rule.message
			}
		}
	}
	return raw
}

func (s *Twitter) fail(err error) error {
	return &Error{
		Source:  domain.SourceTwitter,
		Kind:    errpkg.ErrExtraction,
		Message: "Failed to download Twitter video: " + RewriteTwitterError(err.Error()),
		Err:     err,
	}
}
