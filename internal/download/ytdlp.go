package download

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lrstanley/go-ytdlp"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/shared"
)

const (
	defaultExecutable string = "yt-dlp"
	defaultCodec      string = "mp3"
	defaultQuality    string = "bestaudio"
)

// Downloader fetches and transcodes the media behind a resolved track.
type Downloader interface {
	// Download blocks until the subprocess exits. Failures wrap [shared.ErrDownload].
	Download(ctx context.Context, track models.ResolvedTrack) error
}

// YTDLPDownloader implements [Downloader] with yt-dlp.
type YTDLPDownloader struct {
	executable  string
	destination string
	output      string
	codec       string
	quality     string
	logger      *log.Logger
}

// NewYTDLPDownloader creates a downloader from cfg, filling in the mp3/bestaudio defaults.
func NewYTDLPDownloader(cfg shared.DownloadConfig, logger *log.Logger) *YTDLPDownloader {
	d := &YTDLPDownloader{
		executable: cfg.Executable,
		output:     cfg.Output(),
		codec:      cfg.Codec,
		quality:    cfg.Quality,
		logger:     logger,
	}
	if d.output != "" {
		d.destination = cfg.Destination
	}
	if d.executable == "" {
		d.executable = defaultExecutable
	}
	if d.codec == "" {
		d.codec = defaultCodec
	}
	if d.quality == "" {
		d.quality = defaultQuality
	}
	return d
}

// Command builds the yt-dlp invocation:
//
//	--extract-audio --audio-format {codec} --audio-quality {quality} [--output {template}]
func (d *YTDLPDownloader) Command() *ytdlp.Command {
	cmd := ytdlp.New().
		SetExecutable(d.executable).
		ExtractAudio().
		AudioFormat(d.codec).
		AudioQuality(d.quality)

	if d.output != "" {
		cmd = cmd.Output(d.output)
	}
	return cmd
}

// Download runs yt-dlp for track.DownloadURL and waits for it to exit.
func (d *YTDLPDownloader) Download(ctx context.Context, track models.ResolvedTrack) error {
	if track.DownloadURL == "" {
		return fmt.Errorf("%w: '%s' has no download URL", shared.ErrDownload, track.Title)
	}

	if d.destination != "" {
		if err := os.MkdirAll(d.destination, 0755); err != nil {
			return fmt.Errorf("%w: failed to create destination %s: %v", shared.ErrDownload, d.destination, err)
		}
	}

	if d.logger != nil {
		d.logger.Debug("starting yt-dlp", "url", track.DownloadURL, "executable", d.executable)
	}

	result, err := d.Command().Run(ctx, track.DownloadURL)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s: %v", shared.ErrDownload, track.DownloadURL, ctx.Err())
		}
		return fmt.Errorf("%w: %s: %s", shared.ErrDownload, track.DownloadURL, describe(result, err))
	}
	return nil
}

// describe summarizes a failed run with its exit code and last line of stderr.
func describe(result *ytdlp.Result, err error) string {
	if result == nil {
		return err.Error()
	}

	msg := fmt.Sprintf("exit status %d", result.ExitCode)
	if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
		lines := strings.Split(stderr, "\n")
		msg += ": " + lines[len(lines)-1]
	}
	return msg
}
