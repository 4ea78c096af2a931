// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
)

// NewPool opens a pgx connection pool for the given database URL and
// verifies connectivity with a ping. The pool is owned by the caller and
// injected into repositories; there is no ambient global connection.
// Pool sizing comes from the URL (pool_max_conns etc.) or pgxpool defaults,
// which tolerate the deliberately slow password-hash step under load.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("POOL_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("POOL_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, oops.Code("POOL_PING_FAILED").With("operation", "ping database").Wrap(err)
	}
	return pool, nil
}
