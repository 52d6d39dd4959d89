package domain

import (
	"context"
	"sync"
)

// TxManager runs fn inside one transaction. The transaction travels in the
// context handed to fn; repositories pick it up from there.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type afterCommitKey struct{}

// AfterCommitHooks collects callbacks that must only run once the surrounding
// transaction has committed.
type AfterCommitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// WithAfterCommit attaches a fresh hook list to ctx.
func WithAfterCommit(ctx context.Context) (context.Context, *AfterCommitHooks) {
	hooks := &AfterCommitHooks{}
	return context.WithValue(ctx, afterCommitKey{}, hooks), hooks
}

// AfterCommit defers fn until the transaction carried by ctx commits. Outside
// a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	hooks, ok := ctx.Value(afterCommitKey{}).(*AfterCommitHooks)
	if !ok {
		fn(ctx)
		return
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}

// Run executes the collected callbacks in registration order.
func (h *AfterCommitHooks) Run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()
	for _, fn := range fns {
		fn(ctx)
	}
}
