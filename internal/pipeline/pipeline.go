// Package pipeline turns story text into scenes and drives each scene
// through image generation, one remote call at a time.
package pipeline

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/angristan/storyreel/internal/api"
	"github.com/angristan/storyreel/internal/config"
	"github.com/angristan/storyreel/internal/models"
)

var (
	ErrEmptyInput    = errors.New("please provide some text to generate scenes")
	ErrRunInProgress = errors.New("a generation run is already in progress")
)

// PartialFailureWarning is reported once a run ends with failed scenes
const PartialFailureWarning = "Some images could not be generated. Please check individual scenes."

// Options configures a Pipeline
type Options struct {
	// Maximum scenes per submission; extra paragraphs are dropped
	MaxScenes int
	// Appended to every prompt
	StyleSuffix string
	// Minimum spacing between generator calls (0 = no pacing)
	MinInterval time.Duration
	Logger      *slog.Logger
	// Clock used for scene IDs
	Now func() time.Time
}

// Pipeline creates runs and executes them against an ImageGenerator
type Pipeline struct {
	gen     api.ImageGenerator
	opts    Options
	limiter *rate.Limiter
	logger  *slog.Logger

	mu     sync.Mutex
	active *Run
}

// New creates a pipeline. gen may be nil when no backend is configured,
// in which case every submission fails with config.ErrNotConfigured.
func New(gen api.ImageGenerator, opts Options) *Pipeline {
	if opts.MaxScenes <= 0 {
		opts.MaxScenes = config.DefaultMaxScenes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	p := &Pipeline{
		gen:    gen,
		opts:   opts,
		logger: opts.Logger,
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	if opts.MinInterval > 0 {
		p.limiter = rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	}
	return p
}

// Submit splits the story into scenes and reserves a run for them.
// The returned run already holds every scene in pending state; call
// Execute to generate the images.
func (p *Pipeline) Submit(text string) (*Run, error) {
	if p.gen == nil {
		return nil, config.ErrNotConfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != nil && p.active.Running() {
		return nil, ErrRunInProgress
	}

	prompts := models.SplitParagraphs(text, p.opts.MaxScenes)
	if len(prompts) == 0 {
		return nil, ErrEmptyInput
	}

	run := &Run{
		id:      uuid.NewString(),
		p:       p,
		scenes:  models.NewScenes(prompts, p.opts.StyleSuffix, p.opts.Now()),
		running: true,
	}
	p.active = run

	p.logger.Info("run created", "run_id", run.id, "scenes", len(run.scenes))
	return run, nil
}

// Busy reports whether a run is reserved or executing
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()
	return active != nil && active.Running()
}

// Generator returns the backend in use (nil when not configured)
func (p *Pipeline) Generator() api.ImageGenerator {
	return p.gen
}
