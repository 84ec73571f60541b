package draft

import (
	"context"

	"github.com/pestpro/pestpro-api/internal/form"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"go.uber.org/zap"
)

// Store holds at most one draft. Save overwrites whatever is there.
type Store interface {
	Save(ctx context.Context, d form.Data) error
	// Load removes the draft from the slot and returns it, or returns false
	// when the slot is empty. A second Load without a Save in between always
	// finds the slot empty.
	Load(ctx context.Context) (form.Data, bool, error)
	Clear(ctx context.Context) error
}

// Restore builds the initial values for a form page: the persisted draft is
// consumed and the query values are laid over it field by field.
func Restore(ctx context.Context, store Store, query string) (form.Data, error) {
	fromQuery, err := Decode(query)
	if err != nil {
		return form.Data{}, err
	}
	if store == nil {
		return fromQuery, nil
	}

	saved, ok, err := store.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load saved draft", zap.Error(err))
		return fromQuery, nil
	}
	if !ok {
		return fromQuery, nil
	}

	return form.Merge(saved, fromQuery), nil
}

// Handoff saves d as the draft and returns the query string to append to the
// destination form's URL.
func Handoff(ctx context.Context, store Store, d form.Data) (string, error) {
	if store != nil {
		if err := store.Save(ctx, d); err != nil {
			return "", err
		}
	}
	return Encode(d), nil
}
