// Package gateway binds every catalog service to one transaction so a title is
// reconciled as a single unit of work.
package gateway

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/stashsync/pkg/blobs"
	"github.com/shishobooks/stashsync/pkg/files"
	"github.com/shishobooks/stashsync/pkg/galleries"
	"github.com/shishobooks/stashsync/pkg/groups"
	"github.com/shishobooks/stashsync/pkg/performers"
	"github.com/shishobooks/stashsync/pkg/scenes"
	"github.com/shishobooks/stashsync/pkg/studios"
	"github.com/shishobooks/stashsync/pkg/tags"
	"github.com/uptrace/bun"
)

type Gateway struct {
	db         bun.IDB
	log        logger.Logger
	savepoints int

	Blobs      *blobs.Service
	Files      *files.Service
	Galleries  *galleries.Service
	Groups     *groups.Service
	Performers *performers.Service
	Scenes     *scenes.Service
	Studios    *studios.Service
	Tags       *tags.Service
}

// New builds a gateway over db, which is usually a bun.Tx. Passing a *bun.DB
// gives autocommit semantics and turns Checkpoint into a plain call.
func New(db bun.IDB, log logger.Logger) *Gateway {
	return &Gateway{
		db:         db,
		log:        log,
		Blobs:      blobs.NewService(db),
		Files:      files.NewService(db),
		Galleries:  galleries.NewService(db),
		Groups:     groups.NewService(db),
		Performers: performers.NewService(db),
		Scenes:     scenes.NewService(db),
		Studios:    studios.NewService(db),
		Tags:       tags.NewService(db),
	}
}

// Run opens a transaction, hands a gateway bound to it to fn, and commits once
// if fn returns nil. Any error or panic from fn rolls the transaction back; a
// panic is re-raised afterwards.
func Run(ctx context.Context, db *bun.DB, log logger.Logger, fn func(ctx context.Context, gw *Gateway) error) (err error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Err(rbErr).Error("failed to roll back transaction")
		}
		if p := recover(); p != nil {
			log.Warn("rolled back after panic", logger.Data{"panic": fmt.Sprint(p)})
			panic(p)
		}
		if err != nil {
			log.Warn("rolled back transaction", logger.Data{"error": err.Error()})
		}
	}()

	if err = fn(ctx, New(tx, log)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	committed = true
	log.Debug("committed transaction")
	return nil
}

// Checkpoint runs fn inside a savepoint. When fn fails, everything it wrote is
// undone while earlier work in the transaction survives; the error is
// returned unchanged.
func (gw *Gateway) Checkpoint(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if _, ok := gw.db.(bun.Tx); !ok {
		return fn(ctx)
	}

	gw.savepoints++
	sp := fmt.Sprintf("step_%d", gw.savepoints)

	if _, err := gw.db.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return errors.Wrapf(err, "failed to open savepoint for %s", name)
	}

	if err := fn(ctx); err != nil {
		if _, rbErr := gw.db.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp); rbErr != nil {
			return errors.Wrapf(rbErr, "failed to roll back %s", name)
		}
		if _, relErr := gw.db.ExecContext(ctx, "RELEASE SAVEPOINT "+sp); relErr != nil {
			return errors.Wrapf(relErr, "failed to release savepoint for %s", name)
		}
		gw.log.Debug("rolled back to savepoint", logger.Data{"step": name, "savepoint": sp})
		return err
	}

	if _, err := gw.db.ExecContext(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
		return errors.Wrapf(err, "failed to release savepoint for %s", name)
	}
	return nil
}
