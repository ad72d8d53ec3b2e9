// Package resolver maps a natural key (a normalized name) to a catalog row,
// creating the row when none matches.
package resolver

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/textnorm"
)

// NaturalKeyStore is the narrow view of an entity service the resolver needs.
// FindIDByName returns an errcodes NotFound error when nothing matches and the
// lowest id when several rows do. CreateWithName returns an errcodes
// IntegrityConflict error when a concurrent writer created the name first.
type NaturalKeyStore interface {
	FindIDByName(ctx context.Context, name string) (int, error)
	CreateWithName(ctx context.Context, name string) (int, error)
}

type Result struct {
	ID      int
	Name    string
	Created bool
}

// ResolveOrCreate returns the id of the row whose name matches name, or
// creates a minimal row with the normalized name.
func ResolveOrCreate(ctx context.Context, store NaturalKeyStore, name string) (Result, error) {
	key := textnorm.Key(name)
	if key == "" {
		return Result{}, errcodes.Precondition("name is empty")
	}

	id, err := store.FindIDByName(ctx, key)
	if err == nil {
		return Result{ID: id, Name: key}, nil
	}
	if !errcodes.IsNotFound(err) {
		return Result{}, errors.WithStack(err)
	}

	id, err = store.CreateWithName(ctx, key)
	if err == nil {
		return Result{ID: id, Name: key, Created: true}, nil
	}
	if !errcodes.IsIntegrityConflict(err) {
		return Result{}, errors.WithStack(err)
	}

	// Lost a race with another writer; take the winner's row.
	id, err = store.FindIDByName(ctx, key)
	if err != nil {
		return Result{}, errors.WithStack(err)
	}
	return Result{ID: id, Name: key}, nil
}
