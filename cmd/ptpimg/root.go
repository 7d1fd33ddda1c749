package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phambaophuc/ptpimg-uploader/internal/config"
	"github.com/phambaophuc/ptpimg-uploader/internal/models"
	"github.com/phambaophuc/ptpimg-uploader/internal/output"
	"github.com/phambaophuc/ptpimg-uploader/internal/services/fetcher"
	"github.com/phambaophuc/ptpimg-uploader/internal/services/processor"
	"github.com/phambaophuc/ptpimg-uploader/internal/services/ptpimg"
	"github.com/phambaophuc/ptpimg-uploader/internal/services/source"
	"github.com/phambaophuc/ptpimg-uploader/internal/services/uploader"
	"github.com/phambaophuc/ptpimg-uploader/pkg/logger"
)

type options struct {
	apiKey     string
	dontCopy   bool
	bbcode     bool
	noBell     bool
	thumbnails bool
	large      bool
	xlarge     bool
	maxScale   int
	timeout    time.Duration
	verbose    bool
}

type app struct {
	cfg       *config.Config
	opts      *options
	logger    *zap.Logger
	uploader  *uploader.Service
	processor *processor.ImageProcessor
	clipboard output.Copier
	stdout    io.Writer
	stderr    io.Writer
}

func newRootCommand(clipboard output.Copier) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ptpimg [flags] filename|url...",
		Short: "Upload image files or image URLs to ptpimg.me",
		Long: `Upload local image files or remote image URLs to ptpimg.me and print the
hosted URLs, optionally as BBCode and with linked thumbnails.

Examples:
  ptpimg image-file.jpg
  ptpimg https://i.imgur.com/00000.jpg
  ptpimg --bbcode --thumbnails -k <api key> *.png`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, clipboard)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			if opts.thumbnails {
				return a.runThumbnails(cmd.Context(), args)
			}
			return a.runUpload(cmd.Context(), args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.apiKey, "api-key", "k", "", "PTPImg API key (or set the PTPIMG_API_KEY environment variable)")
	flags.BoolVarP(&opts.dontCopy, "dont-copy", "n", false, "Do not copy the resulting URLs to the clipboard")
	flags.BoolVarP(&opts.bbcode, "bbcode", "b", false, "Output links in BBCode format (with [img] tags)")
	flags.BoolVar(&opts.noBell, "nobell", false, "Do not bell in a terminal on completion")
	flags.BoolVar(&opts.thumbnails, "thumbnails", false, "Create thumbnails and print [url=][img][/img][/url] links to the full images. Default width is 320px")
	flags.BoolVar(&opts.large, "large", false, "Used with --thumbnails. Creates large thumbnails, w|h <= 480")
	flags.BoolVar(&opts.xlarge, "xlarge", false, "Used with --thumbnails. Creates extra-large thumbnails, w|h <= 640")
	flags.IntVar(&opts.maxScale, "max-scale", 0, "Used with --thumbnails. Thumbnails get a max width or height of m pixels")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Timeout for every fetch and upload request, e.g. 30s (or set PTPIMG_TIMEOUT)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func newApp(cmd *cobra.Command, opts *options, clipboard output.Copier) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.apiKey != "" {
		cfg.PTPImg.APIKey = opts.apiKey
	}
	if cmd.Flags().Changed("timeout") {
		cfg.HTTP.Timeout = opts.timeout
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	httpClient := &http.Client{}
	client := ptpimg.NewClient(ptpimg.Options{
		Endpoint:   cfg.PTPImg.Endpoint,
		Referer:    cfg.PTPImg.Referer,
		Host:       cfg.PTPImg.Host,
		HTTPClient: httpClient,
		Logger:     log,
	})

	return &app{
		cfg:    cfg,
		opts:   opts,
		logger: log,
		uploader: uploader.NewService(uploader.Params{
			Fetcher: fetcher.NewFetcher(httpClient, log),
			Client:  client,
			Logger:  log,
		}),
		processor: processor.NewImageProcessor(cfg.Thumbnail.Quality, log),
		clipboard: clipboard,
		stdout:    cmd.OutOrStdout(),
		stderr:    cmd.ErrOrStderr(),
	}, nil
}

func (a *app) runUpload(ctx context.Context, inputs []string) error {
	urls, err := a.uploader.Upload(ctx, a.cfg.PTPImg.APIKey, inputs, a.cfg.HTTP.Timeout)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, output.FormatURLs(urls, a.opts.bbcode))

	if !a.opts.dontCopy && a.clipboard != nil {
		if err := a.clipboard.Copy(strings.Join(urls, "\n")); err != nil {
			a.logger.Warn("Failed to copy URLs to clipboard", zap.Error(err))
		}
	}

	if !a.opts.noBell {
		output.Bell(a.stdout)
	}
	return nil
}

func (a *app) runThumbnails(ctx context.Context, inputs []string) error {
	size, err := a.thumbnailSize()
	if err != nil {
		return err
	}

	files, urls, err := source.Classify(inputs)
	if err != nil {
		return err
	}
	for _, url := range urls {
		fmt.Fprintf(a.stderr, "No thumbnail support for URLs, skipping %s\n", url)
	}

	output.Progress(a.stderr, "Creating thumbnails for images...", len(files))
	thumbs, err := a.processor.GenerateThumbnails(files, size)
	if err != nil {
		return err
	}

	output.Progress(a.stderr, "Uploading thumbs....", len(thumbs))
	thumbURLs, err := a.uploader.Upload(ctx, a.cfg.PTPImg.APIKey, thumbs, a.cfg.HTTP.Timeout)
	if err != nil {
		return err
	}

	output.Progress(a.stderr, "Uploading images....", len(inputs))
	imageURLs, err := a.uploader.Upload(ctx, a.cfg.PTPImg.APIKey, inputs, a.cfg.HTTP.Timeout)
	if err != nil {
		return err
	}

	return output.WriteThumbnailReport(a.stdout, imageURLs, thumbURLs, a.opts.bbcode)
}

func (a *app) thumbnailSize() (models.ThumbnailSize, error) {
	switch {
	case a.opts.maxScale != 0:
		return models.CustomThumbnail(a.opts.maxScale)
	case a.opts.xlarge:
		return models.ThumbnailXLarge, nil
	case a.opts.large:
		return models.ThumbnailLarge, nil
	default:
		return models.ThumbnailDefault, nil
	}
}
