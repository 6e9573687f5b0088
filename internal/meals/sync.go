package meals

import (
	"context"
	"errors"

	pkgerrors "github.com/angelmondragon/reactmeals-backend/pkg/errors"
	"gorm.io/gorm"
)

// ErrEmptyCatalog is returned when the source lists no meals and the sync
// was not told to accept that.
var ErrEmptyCatalog = errors.New("meals: source returned an empty catalog")

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SyncResult summarizes a catalog import.
type SyncResult struct {
	Imported int
}

// SyncOptions tunes a catalog import.
type SyncOptions struct {
	// AllowEmpty lets an empty source wipe the meals table.
	AllowEmpty bool
}

// Sync copies the catalog from src into repo in one transaction, removing
// meals that the source no longer lists. The cache is invalidated afterwards.
func Sync(ctx context.Context, src Source, repo *Repository, tx TxRunner, cache *Cache, opts SyncOptions) (SyncResult, error) {
	list, err := src.Load(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	if len(list) == 0 && !opts.AllowEmpty {
		return SyncResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrEmptyCatalog, "refusing to replace the catalog with an empty one")
	}

	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}

	err = tx.WithTx(ctx, func(db *gorm.DB) error {
		scoped := repo.WithTx(db)
		if err := scoped.Upsert(ctx, list); err != nil {
			return err
		}
		return scoped.DeleteMissing(ctx, ids)
	})
	if err != nil {
		return SyncResult{}, err
	}

	if err := cache.Invalidate(ctx); err != nil {
		return SyncResult{Imported: len(list)}, err
	}
	return SyncResult{Imported: len(list)}, nil
}
