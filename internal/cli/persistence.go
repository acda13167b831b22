package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/ports"
)

// lockTTL bounds how long a crashed CLI can keep a run locked in redis.
const lockTTL = time.Hour

type persistence struct {
	options []arbor.Option
	resumed bool
	close   func()
}

// setupPersistence selects the input store for a run: redis when an address
// is given, a directory of JSON files otherwise. Runs without an ID are not
// persisted.
func setupPersistence(ctx context.Context, opts RunOptions, logger *slog.Logger) (*persistence, error) {
	p := &persistence{close: func() {}}
	if opts.RunID == "" {
		return p, nil
	}

	var store ports.InputStore
	if opts.RedisAddr != "" {
		rs := redis.New(opts.RedisAddr, "", 0)
		if err := rs.Client().Ping(ctx).Err(); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		p.close = func() {
			if err := rs.Close(); err != nil {
				logger.Warn("failed to close redis client", "err", err)
			}
		}
		p.options = append(p.options, arbor.WithLocker(redis.NewLocker(rs.Client(), ""), lockTTL))
		store = rs
	} else {
		store = file.New(opts.StoreDir)
	}

	mws, err := storeMiddleware(opts)
	if err != nil {
		p.close()
		return nil, err
	}
	store = middleware.Wrap(store, mws...)
	p.options = append(p.options, arbor.WithStore(store), arbor.WithRunID(opts.RunID))

	if opts.Fresh {
		if err := store.Delete(ctx, opts.RunID); err != nil {
			p.close()
			return nil, fmt.Errorf("failed to reset run '%s': %w", opts.RunID, err)
		}
		return p, nil
	}

	_, err = store.Load(ctx, opts.RunID)
	switch {
	case err == nil:
		p.resumed = true
	case !errors.Is(err, domain.ErrSnapshotNotFound):
		p.close()
		return nil, fmt.Errorf("failed to load run '%s': %w", opts.RunID, err)
	}
	return p, nil
}

// storeMiddleware masks before it encrypts, so masked values never reach the store.
func storeMiddleware(opts RunOptions) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(opts.MaskPatterns) > 0 {
		pii, err := middleware.NewPIIMiddleware(opts.MaskPatterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if len(opts.EncryptionKey) > 0 {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: opts.EncryptionKey})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return mws, nil
}
