// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package source

import (
	"context"
	"sync/atomic"
)

type traceKey struct{}

// Trace counts the loads made under one request context.
type Trace struct {
	loads  atomic.Int64
	misses atomic.Int64
}

// WithTrace returns a context whose Load calls are counted in the returned
// Trace.
func WithTrace(ctx context.Context) (context.Context, *Trace) {
	t := &Trace{}
	return context.WithValue(ctx, traceKey{}, t), t
}

// AllCached reports whether at least one table was loaded and every load
// was a cache hit.
func (t *Trace) AllCached() bool {
	return t.loads.Load() > 0 && t.misses.Load() == 0
}

func record(ctx context.Context, hit bool) {
	t, ok := ctx.Value(traceKey{}).(*Trace)
	if !ok {
		return
	}
	t.loads.Add(1)
	if !hit {
		t.misses.Add(1)
	}
}
