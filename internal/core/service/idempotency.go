package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/legalvibes/practice-api/internal/api/metrics"
	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

// How long a request whose key is held by a running create waits for it.
var (
	idempotencyWait = 10 * time.Second
	idempotencyPoll = 50 * time.Millisecond
)

// idempotentCreate runs create at most once per owner, scope and key. A
// request that finds the key taken waits for the first one and replays its
// entity. Store failures are logged and the create proceeds unguarded.
func idempotentCreate[T domain.Owned](
	ctx context.Context,
	store ports.IdempotencyStore,
	log zerolog.Logger,
	ownerID, scope, key string,
	load func(ctx context.Context, id string) (T, error),
	create func() (T, error),
) (T, bool, error) {
	var zero T
	if key == "" || store == nil {
		v, err := create()
		return v, false, err
	}

	deadline := time.Now().Add(idempotencyWait)
	for {
		id, reserved, err := store.Reserve(ctx, ownerID, scope, key)
		if err != nil {
			log.Warn().Err(err).Str("user_id", ownerID).Str("scope", scope).Msg("idempotency reserve failed, creating anyway")
			v, err := create()
			return v, false, err
		}
		if reserved {
			return createReserved(ctx, store, log, ownerID, scope, key, create)
		}

		if id != "" {
			v, err := load(ctx, id)
			switch {
			case err == nil:
				metrics.IdempotentReplaysTotal.WithLabelValues(scope).Inc()
				log.Info().Str("entity_id", id).Str("scope", scope).Msg("idempotent replay")
				return v, true, nil
			case errors.Is(err, domain.ErrNotFound):
				log.Info().Str("entity_id", id).Str("scope", scope).Msg("idempotency key outlived its entity, creating anew")
				if err := store.Release(ctx, ownerID, scope, key); err != nil {
					v, err := create()
					return v, false, err
				}
				continue
			default:
				return zero, false, err
			}
		}

		if time.Now().After(deadline) {
			log.Warn().Str("user_id", ownerID).Str("scope", scope).Msg("idempotency key still held, giving up")
			return zero, false, domain.Conflict("A request with this idempotency key is still being processed")
		}
		select {
		case <-ctx.Done():
			return zero, false, ctx.Err()
		case <-time.After(idempotencyPoll):
		}
	}
}

func createReserved[T domain.Owned](
	ctx context.Context,
	store ports.IdempotencyStore,
	log zerolog.Logger,
	ownerID, scope, key string,
	create func() (T, error),
) (T, bool, error) {
	// The key must be settled even when the caller has gone away.
	bg := context.WithoutCancel(ctx)

	v, err := create()
	if err != nil {
		if rerr := store.Release(bg, ownerID, scope, key); rerr != nil {
			log.Warn().Err(rerr).Str("scope", scope).Msg("failed to release idempotency key")
		}
		var zero T
		return zero, false, err
	}
	if err := store.Complete(bg, ownerID, scope, key, v.GetID()); err != nil {
		log.Warn().Err(err).Str("entity_id", v.GetID()).Str("scope", scope).Msg("failed to remember idempotency key")
	}
	return v, false, nil
}
