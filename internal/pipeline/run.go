package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/angristan/storyreel/internal/api"
	"github.com/angristan/storyreel/internal/models"
)

// Update describes one observable change of a run.
// Scene updates carry a snapshot of the scene after the transition;
// the final update has Done set and carries the Summary.
type Update struct {
	RunID   string
	Index   int
	Scene   models.Scene
	Done    bool
	Summary Summary
}

// Summary is the outcome of a finished run
type Summary struct {
	Total     int
	Completed int
	Failed    int
}

// Warning returns the aggregate warning, or "" when every scene completed
func (s Summary) Warning() string {
	if s.Failed > 0 {
		return PartialFailureWarning
	}
	return ""
}

// Run is one pass of the pipeline over a submission's scenes
type Run struct {
	id string
	p  *Pipeline

	mu       sync.Mutex
	scenes   []*models.Scene
	running  bool
	executed bool
}

// ID returns the run identifier
func (r *Run) ID() string {
	return r.id
}

// Len returns the fixed number of scenes in the run
func (r *Run) Len() int {
	return len(r.scenes)
}

// Scenes returns a snapshot of all scenes
func (r *Run) Scenes() []models.Scene {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Scene, len(r.scenes))
	for i, s := range r.scenes {
		out[i] = *s.Clone()
	}
	return out
}

// Running reports whether the run has not finished yet
func (r *Run) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Execute generates every scene strictly in order. Each status change is
// passed to notify before the next one happens. A failed scene records
// the error message and the run moves on. Execute returns once every
// scene is terminal; calling it a second time is a no-op.
func (r *Run) Execute(ctx context.Context, notify func(Update)) Summary {
	if notify == nil {
		notify = func(Update) {}
	}

	r.mu.Lock()
	if r.executed {
		r.mu.Unlock()
		return Summary{}
	}
	r.executed = true
	r.mu.Unlock()

	logger := r.p.logger.With("run_id", r.id)
	logger.Info("run started", "scenes", len(r.scenes), "backend", r.p.gen.Name())

	summary := Summary{Total: len(r.scenes)}
	for i := range r.scenes {
		notify(r.apply(i, (*models.Scene).MarkGenerating, logger))

		start := time.Now()
		img, err := r.generate(ctx, r.scenes[i].FullPrompt)
		if err == nil && (img == nil || len(img.Data) == 0) {
			err = api.ErrNoImageData
		}

		var u Update
		if err != nil {
			msg := err.Error()
			logger.Warn("scene failed", "scene", i, "error", msg, "duration", time.Since(start).Round(time.Millisecond))
			u = r.apply(i, func(s *models.Scene) error { return s.MarkFailed(msg) }, logger)
		} else {
			logger.Info("scene completed", "scene", i, "bytes", len(img.Data), "duration", time.Since(start).Round(time.Millisecond))
			u = r.apply(i, func(s *models.Scene) error { return s.MarkCompleted(img) }, logger)
		}

		if u.Scene.Status == models.StatusCompleted {
			summary.Completed++
		} else {
			summary.Failed++
		}
		notify(u)
	}

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	if w := summary.Warning(); w != "" {
		logger.Warn("run finished with failures", "completed", summary.Completed, "failed", summary.Failed)
	} else {
		logger.Info("run finished", "completed", summary.Completed)
	}

	notify(Update{RunID: r.id, Index: -1, Done: true, Summary: summary})
	return summary
}

// generate waits for the rate limiter and calls the backend
func (r *Run) generate(ctx context.Context, prompt string) (*models.Image, error) {
	if r.p.limiter != nil {
		if err := r.p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return r.p.gen.Generate(ctx, prompt)
}

// apply mutates scene i under the lock and returns the resulting update.
// A rejected completion still leaves the scene terminal, as an error.
func (r *Run) apply(i int, mutate func(*models.Scene) error, logger *slog.Logger) Update {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.scenes[i]
	if err := mutate(s); err != nil {
		logger.Error("scene transition rejected", "scene", i, "error", err)
		if s.Status == models.StatusGenerating {
			if ferr := s.MarkFailed(err.Error()); ferr != nil {
				logger.Error("scene transition rejected", "scene", i, "error", ferr)
			}
		}
	}
	return Update{RunID: r.id, Index: i, Scene: *s.Clone()}
}
