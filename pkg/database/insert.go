package database

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/uptrace/bun"
)

// InsertIfAbsent inserts model unless a row with the same conflictColumns
// already exists. It reports whether a row was written. A unique violation
// that slips past the ON CONFLICT clause counts as already present; a missing
// referenced row is an errcodes Precondition error.
func InsertIfAbsent(ctx context.Context, db bun.IDB, model interface{}, conflictColumns string) (bool, error) {
	res, err := db.
		NewInsert().
		Model(model).
		On("CONFLICT (" + conflictColumns + ") DO NOTHING").
		Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return false, nil
		}
		if IsForeignKeyViolation(err) {
			return false, errors.Wrap(errcodes.Precondition("referenced row does not exist"), err.Error())
		}
		return false, errors.WithStack(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return n > 0, nil
}
