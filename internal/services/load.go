package services

import (
	"context"
	"errors"

	apperrors "github.com/vladimiradmaev/mammafy-helper/internal/errors"
	"github.com/vladimiradmaev/mammafy-helper/internal/storage"
)

// load decodes the record under key into v and reports whether it was found.
// Failures are reported and leave v untouched so callers keep their defaults.
// A value that exists but cannot be decoded is copied aside first, since the
// next save of key would overwrite it.
func load(ctx context.Context, store storage.Store, errs *apperrors.Handler, key string, v interface{}) bool {
	ok, err := storage.LoadJSON(ctx, store, key, v)
	if err == nil {
		return ok
	}

	errs.Handle(ctx, apperrors.NewPersistenceError(err, key))
	if errors.Is(err, storage.ErrUndecodable) {
		if err := storage.Preserve(ctx, store, key); err != nil {
			errs.Handle(ctx, apperrors.NewPersistenceError(err, storage.UnreadableKey(key)))
		}
	}
	return false
}
