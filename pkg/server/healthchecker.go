package server

import "context"

// HealthChecker answers the server's health endpoint. Wire the index
// gateway in to report backend reachability, or HealthCheckerFunc for
// anything ad hoc.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type HealthCheckerFunc func(ctx context.Context) bool

func (f HealthCheckerFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}
