package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/angristan/storyreel/internal/api"
	"github.com/angristan/storyreel/internal/config"
	"github.com/angristan/storyreel/internal/models"
	"github.com/angristan/storyreel/internal/pipeline"
)

func newGenerateCmd(opts *options) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate scene images without the UI",
		Long: `Reads a story from --file (or stdin), generates one image per scene and
prints each scene transition. Completed images are written to --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if opts.debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			path := opts.file
			if path == "" {
				path = "-"
			}
			story, err := readStory(path)
			if err != nil {
				return err
			}

			gen, err := api.NewGenerator(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			summary, err := runGenerate(cmd.Context(), cfg, gen, story, outDir, cmd.OutOrStdout(), logger)
			if err != nil {
				return err
			}
			if w := summary.Warning(); w != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write scene images to")
	return cmd
}

// runGenerate executes one pipeline run, printing progress to w and
// optionally saving completed images into outDir.
func runGenerate(ctx context.Context, cfg *config.Config, gen api.ImageGenerator, story, outDir string, w io.Writer, logger *slog.Logger) (pipeline.Summary, error) {
	p := pipeline.New(gen, pipeline.Options{
		MaxScenes:   cfg.MaxScenes,
		StyleSuffix: cfg.StyleSuffix,
		MinInterval: cfg.MinRequestInterval,
		Logger:      logger,
	})

	run, err := p.Submit(story)
	if err != nil {
		return pipeline.Summary{}, err
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return pipeline.Summary{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	fmt.Fprintf(w, "run %s: %d scenes via %s\n", run.ID(), run.Len(), gen.Name())

	updates := make(chan pipeline.Update, 2*run.Len()+1)
	var summary pipeline.Summary

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(updates)
		summary = run.Execute(egCtx, func(u pipeline.Update) {
			updates <- u
		})
		return nil
	})

	eg.Go(func() error {
		for u := range updates {
			if u.Done {
				fmt.Fprintf(w, "done: %d completed, %d failed\n", u.Summary.Completed, u.Summary.Failed)
				continue
			}
			if err := reportScene(w, u, outDir); err != nil {
				return err
			}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return summary, err
	}
	return summary, nil
}

// reportScene prints one transition and saves the image once completed
func reportScene(w io.Writer, u pipeline.Update, outDir string) error {
	line := fmt.Sprintf("scene %d: %s", u.Index+1, u.Scene.Status)
	if u.Scene.Status == models.StatusError {
		line += " (" + u.Scene.Error + ")"
	}

	if u.Scene.Status == models.StatusCompleted && outDir != "" && u.Scene.Image != nil {
		path := filepath.Join(outDir, sceneFileName(u.Index, u.Scene.Image.MIMEType))
		if err := os.WriteFile(path, u.Scene.Image.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		line += " -> " + path
	}

	_, err := fmt.Fprintln(w, line)
	return err
}

func sceneFileName(index int, mimeType string) string {
	ext := ".png"
	switch mimeType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	return fmt.Sprintf("scene-%02d%s", index+1, ext)
}
