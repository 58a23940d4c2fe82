package application

import (
	"context"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
)

// loadOwned loads the entity id and refuses the action unless actorID owns
// it. Nothing is modified before the check passes.
func loadOwned[T entity.Owned](ctx context.Context, load func(context.Context, string) (T, error), id, actorID, action string) (T, error) {
	v, err := load(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := authorize(v, actorID, action); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func authorize(v entity.Owned, actorID, action string) error {
	if actorID == "" {
		return errs.ErrUnauthenticated
	}
	if v.OwnerID() != actorID {
		return errs.Forbidden(action)
	}
	return nil
}
