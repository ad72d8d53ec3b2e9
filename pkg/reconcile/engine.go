// Package reconcile applies a parsed sidecar to a cataloged scene, one
// independently failable step at a time.
package reconcile

import (
	"context"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/stashsync/pkg/blobstore"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/gateway"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/shishobooks/stashsync/pkg/nfo"
)

const (
	StepTitle      = "title"
	StepDate       = "date"
	StepStudio     = "studio"
	StepTags       = "tags"
	StepGallery    = "gallery"
	StepDirector   = "director"
	StepCover      = "cover"
	StepCode       = "code"
	StepGroup      = "group"
	StepPerformers = "performers"
)

// CoverIngester stores a cover image and returns its content hash.
type CoverIngester interface {
	Ingest(ctx context.Context, src string) (string, error)
}

type Options struct {
	CoverFileName      string
	GalleryFolderToken string
}

// Target is what one run reconciles: a located scene, the sidecar parsed for
// it, and the folder both came from.
type Target struct {
	Scene  *models.Scene
	Movie  *nfo.Movie
	Folder string
}

type stepFunc func(ctx context.Context, gw *gateway.Gateway, t Target) error

type step struct {
	name string
	fn   stepFunc
}

type Engine struct {
	covers CoverIngester
	opts   Options
	steps  []step
}

func New(covers CoverIngester, opts Options) *Engine {
	if opts.CoverFileName == "" {
		opts.CoverFileName = "poster.jpg"
	}
	if opts.GalleryFolderToken == "" {
		opts.GalleryFolderToken = "fanart#"
	}

	e := &Engine{covers: covers, opts: opts}
	e.steps = []step{
		{StepTitle, e.syncTitle},
		{StepDate, e.syncDate},
		{StepStudio, e.syncStudio},
		{StepTags, e.syncTags},
		{StepGallery, e.syncGallery},
		{StepDirector, e.syncDirector},
		{StepCover, e.syncCover},
		{StepCode, e.syncCode},
		{StepGroup, e.syncGroup},
		{StepPerformers, e.syncPerformers},
	}
	return e
}

// Run executes every step against t in order. A step that fails with a
// StepError is recorded, its writes are rolled back to its savepoint, the
// in-memory scene is restored, and the next step runs. Any other error stops
// the run and is returned so the caller's transaction rolls back.
func (e *Engine) Run(ctx context.Context, gw *gateway.Gateway, t Target) (*Report, error) {
	if t.Scene == nil || t.Movie == nil {
		return nil, errcodes.Precondition("reconcile target needs a scene and a movie")
	}

	log := logger.FromContext(ctx)
	report := &Report{SceneID: t.Scene.ID}

	for _, s := range e.steps {
		snapshot := *t.Scene
		sctx := log.Data(logger.Data{"step": s.name}).WithContext(ctx)

		err := gw.Checkpoint(sctx, s.name, func(ctx context.Context) error {
			return s.fn(ctx, gw, t)
		})
		if err == nil {
			report.Steps = append(report.Steps, StepResult{Name: s.name})
			log.Info("step applied", logger.Data{"step": s.name})
			continue
		}

		*t.Scene = snapshot

		serr := classify(err)
		if serr == nil {
			return report, errors.Wrapf(err, "step %s", s.name)
		}
		report.Steps = append(report.Steps, StepResult{Name: s.name, Err: serr})
		log.Warn("step failed", logger.Data{"step": s.name, "reason": string(serr.Reason), "error": serr.Error()})
	}

	log.Info("reconciled scene", logger.Data{
		"scene_id":  report.SceneID,
		"succeeded": report.Succeeded(),
		"failed":    report.Failed(),
	})
	return report, nil
}

// classify turns the expected failures of a step into a StepError. It returns
// nil for errors that should abort the run.
func classify(err error) *StepError {
	var serr *StepError
	if errors.As(err, &serr) {
		return serr
	}

	switch errcodes.CodeOf(err) {
	case errcodes.CodeNotFound:
		return &StepError{Reason: ReasonNotFound, Err: err}
	case errcodes.CodePrecondition:
		return &StepError{Reason: ReasonPrecondition, Err: err}
	case errcodes.CodeIntegrityConflict:
		return &StepError{Reason: ReasonIntegrity, Err: err}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, blobstore.ErrNotImage) {
		return &StepError{Reason: ReasonIO, Err: err}
	}

	return nil
}
