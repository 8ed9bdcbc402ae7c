package configstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ApplyHook validates or repairs an owner's configuration on ApplyChanges.
type ApplyHook func(ctx context.Context, owner string) error

// hooks is the apply hook list shared by both store implementations.
type hooks struct {
	mu    sync.RWMutex
	hooks []ApplyHook
}

// OnApply registers a hook run by ApplyChanges, after previously registered hooks.
func (h *hooks) OnApply(hook ApplyHook) {
	h.mu.Lock()
	h.hooks = append(h.hooks, hook)
	h.mu.Unlock()
}

// run calls every hook in order and stops at the first failure.
func (h *hooks) run(ctx context.Context, owner string) error {
	h.mu.RLock()
	list := make([]ApplyHook, len(h.hooks))
	copy(list, h.hooks)
	h.mu.RUnlock()

	for i, hook := range list {
		if err := hook(ctx, owner); err != nil {
			return fmt.Errorf("apply hook %d for %s: %w", i, owner, err)
		}
	}
	return nil
}

// validKey rejects empty owners and keys.
func validKey(owner, key string) error {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: owner=%q key=%q", ErrInvalidKey, owner, key)
	}
	return nil
}
