package reconcile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/gateway"
	"github.com/shishobooks/stashsync/pkg/nfo"
	"github.com/uptrace/bun"
)

type ProcessorOptions struct {
	SidecarFileName string
	MediaExtensions []string
}

// Processor reconciles one title folder per call, each in its own
// transaction.
type Processor struct {
	db     *bun.DB
	engine *Engine
	parser *nfo.Parser
	opts   ProcessorOptions
	log    logger.Logger
}

func NewProcessor(db *bun.DB, engine *Engine, parser *nfo.Parser, opts ProcessorOptions, log logger.Logger) *Processor {
	if opts.SidecarFileName == "" {
		opts.SidecarFileName = "movie.nfo"
	}
	if len(opts.MediaExtensions) == 0 {
		opts.MediaExtensions = []string{".mp4", ".mkv", ".avi", ".mov"}
	}
	return &Processor{db, engine, parser, opts, log}
}

// ProcessFolder parses the folder's sidecar, finds the scene cataloged from
// its media file, and reconciles it. Failures before the engine runs, and
// faults that abort it, are returned; step failures are only in the report.
func (p *Processor) ProcessFolder(ctx context.Context, folder string) (*Report, error) {
	log := p.log.ID(uuid.New().String()).Root(logger.Data{"folder": folder})
	ctx = log.WithContext(ctx)

	info, err := os.Stat(folder)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !info.IsDir() {
		return nil, errcodes.Precondition("%s is not a folder", folder)
	}

	sidecar := filepath.Join(folder, p.opts.SidecarFileName)
	movie, err := p.parser.Parse(ctx, sidecar)
	if err != nil {
		return nil, err
	}
	log.Info("parsed sidecar", logger.Data{"code": movie.Code(), "title": movie.Title})

	media, err := FindMediaFile(folder, movie.Code(), p.opts.MediaExtensions)
	if err != nil {
		return nil, err
	}
	log.Info("found media file", logger.Data{"media": media})

	var report *Report
	err = gateway.Run(ctx, p.db, log, func(ctx context.Context, gw *gateway.Gateway) error {
		scene, err := LocateScene(ctx, gw, filepath.Base(media))
		if err != nil {
			return err
		}
		log.Info("located scene", logger.Data{"scene_id": scene.ID})

		report, err = p.engine.Run(ctx, gw, Target{Scene: scene, Movie: movie, Folder: folder})
		return err
	})
	if err != nil {
		return report, err
	}

	log.Info("all work done", logger.Data{
		"failed":       report.Failed(),
		"failed_steps": report.FailedSteps(),
		"steps":        report.Steps,
	})
	return report, nil
}
