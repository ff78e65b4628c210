package inkwell

import (
	"context"
	"sync"
)

// OpType identifies the kind of store operation being performed.
type OpType string

const (
	OpCreate     OpType = "create"
	OpFind       OpType = "find"
	OpCount      OpType = "count"
	OpUpdate     OpType = "update"
	OpDelete     OpType = "delete"
	OpAggregate  OpType = "aggregate"
	OpUpdateMany OpType = "update_many"
)

// OpInfo provides context about the current operation to middleware.
type OpInfo struct {
	Operation  OpType
	Collection string
	ModelName  string
	Model      interface{} // the model being operated on, or nil
	Filter     interface{} // the query filter, if applicable
}

// MiddlewareFunc is a function that wraps a store operation.
// Call next(ctx) to continue the middleware chain, or return an error to abort.
type MiddlewareFunc func(ctx context.Context, op *OpInfo, next func(context.Context) error) error

var mwMu sync.RWMutex

// Use appends middleware to the store. Middleware executes in registration order.
func (s *Store) Use(fns ...MiddlewareFunc) {
	if s == nil || len(fns) == 0 {
		return
	}
	mwMu.Lock()
	defer mwMu.Unlock()
	s.mw = append(s.mw, fns...)
}

// ClearMiddleware removes all middleware from the store.
func (s *Store) ClearMiddleware() {
	if s == nil {
		return
	}
	mwMu.Lock()
	defer mwMu.Unlock()
	s.mw = nil
}

// run builds and executes the middleware chain for an operation.
// If no middleware is registered, fn is called directly.
func (s *Store) run(ctx context.Context, info *OpInfo, fn func(context.Context) error) error {
	var chain []MiddlewareFunc
	if s != nil {
		mwMu.RLock()
		chain = make([]MiddlewareFunc, len(s.mw))
		copy(chain, s.mw)
		mwMu.RUnlock()
	}

	if len(chain) == 0 {
		return fn(ctx)
	}

	var build func(int) func(context.Context) error
	build = func(i int) func(context.Context) error {
		if i == len(chain) {
			return fn
		}
		return func(ctx context.Context) error {
			return chain[i](ctx, info, build(i+1))
		}
	}

	return build(0)(ctx)
}
