// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label

import "context"

// NoopCache is the [Cache] used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, Namespace) ([]*Label, bool) { return nil, false }
func (NoopCache) Set(context.Context, Namespace, []*Label)        {}
func (NoopCache) Invalidate(context.Context, Namespace)           {}
