package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/angristan/storyreel/internal/api"
	"github.com/angristan/storyreel/internal/config"
	"github.com/angristan/storyreel/internal/tui"
)

const (
	envDemo  = "STORYREEL_DEMO"
	envDebug = "STORYREEL_DEBUG"
)

// options holds the flags shared by all commands
type options struct {
	demo    bool
	file    string
	delayMs int
	debug   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "storyreel",
		Short: "Turn a story into an illustrated slideshow in your terminal",
		Long: `StoryReel splits a story into scenes at blank lines, generates one
image per scene and plays them back as a slideshow.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.demo, "demo", os.Getenv(envDemo) != "", "use the offline demo generator")
	cmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "story file to load ('-' for stdin)")
	cmd.PersistentFlags().IntVar(&opts.delayMs, "delay", 0, "scene delay in milliseconds (min 500)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", os.Getenv(envDebug) != "", "write debug logs")

	cmd.AddCommand(newGenerateCmd(opts), newConfigCmd())
	return cmd
}

// loadConfig reads the config file and applies command line overrides
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.demo {
		cfg.Backend = config.BackendDemo
	}
	if opts.delayMs != 0 {
		cfg.SceneDelayMs = max(opts.delayMs, config.MinSceneDelayMs)
	}
	return cfg, nil
}

// readStory loads the story from a file, or stdin for "-"
func readStory(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open story: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read story: %w", err)
	}
	return string(data), nil
}

func runTUI(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if opts.debug {
		logPath, err := debugLogPath()
		if err != nil {
			return err
		}
		f, err := tea.LogToFile(logPath, "storyreel")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	story, err := readStory(opts.file)
	if err != nil {
		return err
	}

	// A missing credential is shown inside the UI, not fatal
	gen, genErr := api.NewGenerator(ctx, cfg)
	if genErr != nil && !errors.Is(genErr, config.ErrNotConfigured) {
		return genErr
	}
	if genErr != nil {
		logger.Warn("generator not configured", "backend", cfg.Backend, "error", genErr)
	}
	logger.Info("starting", "backend", cfg.Backend, "max_scenes", cfg.MaxScenes)

	model := tui.NewModel(cfg, gen, tui.Options{
		Story:      strings.TrimSpace(story),
		Logger:     logger,
		StartupErr: genErr,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

// debugLogPath returns the log file location next to the config file
func debugLogPath() (string, error) {
	cfgPath, err := config.Path()
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(cfgPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "debug.log"), nil
}
