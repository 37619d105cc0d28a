package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pkgerrors "github.com/suvai/freshmart-backend/pkg/errors"
	"github.com/suvai/freshmart-backend/pkg/localstore"
	"github.com/suvai/freshmart-backend/pkg/logger"
)

const storageKeyPrefix = "freshmart_cart:"

// Repository persists cart line lists, one blob per session.
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
}

type localstoreRepo struct {
	store localstore.Store
	logg  *logger.Logger
}

// NewRepository builds a blob-store backed cart repository.
func NewRepository(store localstore.Store, logg *logger.Logger) (Repository, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &localstoreRepo{store: store, logg: logg}, nil
}

func storageKey(sessionID string) string {
	return storageKeyPrefix + sessionID
}

// Load reads the session's cart blob. A missing, unreadable, or corrupt blob
// degrades to an empty cart so the storefront never hard-fails on a read.
func (r *localstoreRepo) Load(ctx context.Context, sessionID string) ([]Line, error) {
	raw, err := r.store.Get(ctx, storageKey(sessionID))
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			r.logg.Warn(r.logg.WithSessionID(ctx, sessionID), "cart blob unreadable, starting empty: "+err.Error())
		}
		return []Line{}, nil
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		r.logg.Warn(r.logg.WithSessionID(ctx, sessionID), "cart blob corrupt, resetting to empty")
		return []Line{}, nil
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

// Save serializes the full line list and overwrites the session's blob.
func (r *localstoreRepo) Save(ctx context.Context, sessionID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize cart")
	}
	if err := r.store.Set(ctx, storageKey(sessionID), string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}
