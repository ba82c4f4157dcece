package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/veranemoloko/video-downloader/internal/classifier"
	cfgpkg "github.com/veranemoloko/video-downloader/internal/config"
	"github.com/veranemoloko/video-downloader/internal/domain"
	svc "github.com/veranemoloko/video-downloader/internal/service"
)

var errDownloadFailed = errors.New("download failed")

// newDownloader is swapped in tests.
var newDownloader = func(cfg *cfgpkg.Config, logger *slog.Logger) svc.Downloader {
	return svc.NewDownloadService(logger, svc.NewStrategies(cfg, logger)...)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "vdl",
		Short:         "Download YouTube, Twitter/X and M3U8 videos as MP4",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(newGetCmd(&verbose), newDetectCmd())
	return root
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <url>",
		Short: "Print the detected source type of a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), classifier.Classify(args[0]))
			return err
		},
	}
}

func newGetCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "get <url> [output-dir]",
		Short: "Download a video",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cfgpkg.FromEnv()
			if err != nil {
				return err
			}
			outputDir := cfg.DownloadDir
			if len(args) == 2 {
				outputDir = args[1]
			}

			var logger *slog.Logger
			if *verbose {
				cfg.LogLevel = "debug"
				cfg.LogFormat = "console"
				logger = cfgpkg.NewLogger(cfg, cmd.ErrOrStderr())
			} else {
				logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return download(ctx, cmd.OutOrStdout(), newDownloader(cfg, logger), args[0], outputDir)
		},
	}
}

func download(ctx context.Context, out io.Writer, d svc.Downloader, url, outputDir string) error {
	fmt.Fprintf(out, "Detected source: %s\n", classifier.Classify(url))

	last := -1
	outcome := d.Download(ctx, url, outputDir, func(percent float64) {
		p := domain.ClampPercent(percent)
		if p > last {
			last = p
			fmt.Fprintf(out, "\rDownloading... %d%%", p)
		}
	})
	if last >= 0 {
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, outcome.Message)
	if !outcome.Success {
		return errDownloadFailed
	}
	fmt.Fprintf(out, "Saved to: %s\n", outcome.Filepath)
	return nil
}
