// Command formsubmit is an interactive front end: it fetches a form, prompts
// for each field on the terminal, and submits with upload progress.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	formsubmit "github.com/goliatone/go-formsubmit"
	"github.com/goliatone/go-formsubmit/internal/imaging"
	"github.com/goliatone/go-formsubmit/pkg/attachment"
	"github.com/goliatone/go-formsubmit/pkg/submit"
	"github.com/goliatone/go-formsubmit/pkg/transfer"
)

func main() {
	baseURL := flag.String("base-url", "", "backend base URL")
	formName := flag.String("form", "", "form name to load")
	filePath := flag.String("file", "", "attachment path (optional)")
	configPath := flag.String("config", "", "YAML config file (optional)")
	envPath := flag.String("env", "", ".env file (optional)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *formName != "" {
		cfg.Form = *formName
	}
	if *filePath != "" {
		cfg.File = *filePath
	}
	if *verbose {
		cfg.Verbose = true
	}

	if cfg.BaseURL == "" || cfg.Form == "" {
		fmt.Fprintln(os.Stderr, "formsubmit: -base-url and -form are required (or set them via config/env)")
		os.Exit(2)
	}

	log := newLogger(cfg.Verbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, newSurveyDriver()); err != nil {
		if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(130)
		}
		log.Error().Err(err).Msg("submission failed")
		os.Exit(1)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func run(ctx context.Context, cfg Config, log zerolog.Logger, driver PromptDriver) error {
	client, err := formsubmit.NewClient(cfg.BaseURL)
	if err != nil {
		return err
	}

	desc, err := client.FetchForm(ctx, cfg.Form)
	if err != nil {
		return fmt.Errorf("fetch form %q: %w", cfg.Form, err)
	}

	title := desc.Title
	if title == "" {
		title = desc.Name
	}
	if err := driver.Info(ctx, title); err != nil {
		return err
	}
	if desc.Intro != "" {
		if err := driver.Info(ctx, desc.Intro); err != nil {
			return err
		}
	}

	values, err := collectValues(ctx, driver, desc.Fields)
	if err != nil {
		return err
	}

	var file *attachment.File
	if cfg.File != "" {
		if !desc.FileUpload.Enabled {
			return fmt.Errorf("form %q does not accept attachments", desc.Name)
		}
		file, err = readAttachment(cfg.File)
		if err != nil {
			return err
		}
	}

	optimizer := attachment.NewOptimizer(
		imaging.New(imaging.WithLogger(log)),
		attachment.WithOptimizerLogger(log),
		attachment.WithProgress(func(percent int) {
			fmt.Fprintf(os.Stderr, "\rcompressing image... %3d%%", percent)
			if percent >= 100 {
				fmt.Fprintln(os.Stderr)
			}
		}),
	)
	uploader := transfer.NewUploader(client,
		transfer.WithUploaderLogger(log),
		transfer.WithChunkProgress(func(sent, total int) {
			fmt.Fprintf(os.Stderr, "\ruploading... chunk %d/%d", sent, total)
			if sent >= total {
				fmt.Fprintln(os.Stderr)
			}
		}),
	)

	form := formsubmit.Connect(client, desc,
		submit.WithLogger(log),
		submit.WithOptimizer(optimizer),
		submit.WithUploader(uploader),
		submit.WithPoller(transfer.NewPoller(client, transfer.WithPollerLogger(log))),
	)

	ok, err := driver.Confirm(ctx, fmt.Sprintf("Submit to %q?", desc.Name))
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}

	result, err := form.Submit(ctx, values, file)
	if err != nil {
		return err
	}

	if !result.Succeeded() {
		if len(result.FieldErrors) > 0 {
			return errors.New(result.Message)
		}
		return fmt.Errorf("%s", result.Message)
	}

	confirmation := "Submission received."
	if result.RecordNumber != "" {
		confirmation = fmt.Sprintf("Submission received. Reference number: %s", result.RecordNumber)
	}
	if err := driver.Info(ctx, confirmation); err != nil {
		return err
	}
	if result.Warning != "" {
		fmt.Fprintln(os.Stderr, result.Warning)
	}
	return nil
}

func readAttachment(path string) (*attachment.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return &attachment.File{
		Name: filepath.Base(path),
		MIME: mimeType,
		Data: data,
	}, nil
}
