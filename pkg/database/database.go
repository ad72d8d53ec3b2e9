package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/stashsync/pkg/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type logQueryHook struct {
	log logger.Logger
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *logQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	data := logger.Data{"duration_ms": time.Since(event.StartTime).Milliseconds()}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		data["error"] = event.Err.Error()
	}
	qh.log.Debug(event.Query, data)
}

// New opens the catalog database at cfg.DatabaseFilePath. Every statement runs
// on a single connection, so the per-connection pragmas below apply to the
// whole run and a title's transaction is never interleaved with other work.
func New(cfg *config.Config, log logger.Logger) (*bun.DB, error) {
	drv := sqliteshim.Driver()
	drvCtx, ok := drv.(interface {
		OpenConnector(name string) (driver.Connector, error)
	})
	if !ok {
		return nil, errors.New("sqlite driver does not support OpenConnector")
	}
	connector, err := drvCtx.OpenConnector(cfg.DatabaseFilePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sqldb := sql.OpenDB(newRetryConnector(connector, cfg.DatabaseMaxRetries))
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if cfg.DatabaseDebug {
		db.AddQueryHook(&logQueryHook{log})
	}

	for i := 0; i < cfg.DatabaseConnectRetryCount; i++ {
		_, err = db.Exec("SELECT 1")
		if err != nil {
			log.Warn("database not reachable yet", logger.Data{"attempt": i + 1, "error": err.Error()})
			time.Sleep(cfg.DatabaseConnectRetryDelay)
			continue
		}
		break
	}
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}

	if err := Configure(context.Background(), db, cfg.DatabaseBusyTimeout); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Configure applies the pragmas the catalog expects: WAL so Stash can keep
// reading while a title is reconciled, a busy timeout for short lock
// contention, and foreign key enforcement.
func Configure(ctx context.Context, db bun.IDB, busyTimeout time.Duration) error {
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return errors.Wrap(err, "failed to enable WAL mode")
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=?", busyTimeout.Milliseconds()); err != nil {
		return errors.Wrap(err, "failed to set busy_timeout")
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		return errors.Wrap(err, "failed to enable foreign keys")
	}
	return nil
}
