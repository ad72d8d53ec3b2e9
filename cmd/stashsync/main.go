package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/shishobooks/stashsync/pkg/blobstore"
	"github.com/shishobooks/stashsync/pkg/config"
	"github.com/shishobooks/stashsync/pkg/database"
	"github.com/shishobooks/stashsync/pkg/nfo"
	"github.com/shishobooks/stashsync/pkg/reconcile"
	"github.com/shishobooks/stashsync/pkg/version"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:      "stashsync",
		Usage:     "apply a title folder's movie.nfo to the Stash catalog",
		ArgsUsage: "<folder>",
		Version:   version.Version,
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				_ = cli.ShowAppHelp(c)
				return errors.Errorf("expected exactly one folder, got %d arguments", c.NArg())
			}
			return run(c.Context, log, c.Args().First())
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

func run(ctx context.Context, log logger.Logger, folder string) error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "config error")
	}
	log = logger.NewWithLevel(cfg.LogLevel)
	log.Info("starting stashsync", logger.Data{"version": version.Version, "folder": folder})

	db, err := database.New(cfg, log)
	if err != nil {
		return errors.Wrap(err, "database error")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Err(err).Error("database close error")
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	graceful := signals.Setup()
	go func() {
		<-graceful
		log.Info("interrupted, rolling back")
		cancel()
	}()

	engine := reconcile.New(blobstore.New(cfg.BlobsDirectory), reconcile.Options{
		CoverFileName:      cfg.CoverFileName,
		GalleryFolderToken: cfg.GalleryFolderToken,
	})
	processor := reconcile.NewProcessor(db, engine, nfo.NewParser(), reconcile.ProcessorOptions{
		SidecarFileName: cfg.SidecarFileName,
		MediaExtensions: cfg.MediaExtensions,
	}, log)

	_, err = processor.ProcessFolder(ctx, folder)
	return err
}
