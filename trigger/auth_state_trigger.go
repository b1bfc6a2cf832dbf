package trigger

import (
	"context"
	"log/slog"
	"sync"

	"genai-news/auth"
	"genai-news/usecase/refresh"
)

type AuthStateProvider interface {
	Subscribe(fn func(auth.AuthState)) (unsubscribe func())
}

// AuthStateTrigger fires once when a user becomes authenticated. It fires
// again only after a sign-out or for a different user.
type AuthStateTrigger struct {
	provider AuthStateProvider
	logger   *slog.Logger

	mu          sync.Mutex
	lastUserID  string
	unsubscribe func()
	wg          sync.WaitGroup
}

func NewAuthStateTrigger(provider AuthStateProvider, logger *slog.Logger) *AuthStateTrigger {
	return &AuthStateTrigger{provider: provider, logger: logger}
}

func (t *AuthStateTrigger) Name() string { return "auth_state" }

func (t *AuthStateTrigger) Start(ctx context.Context, fire FireFunc) error {
	unsubscribe := t.provider.Subscribe(func(state auth.AuthState) {
		if !t.shouldFire(state) {
			return
		}
		t.logger.InfoContext(ctx, "authenticated user observed, refreshing", "user_id", state.User.ID)

		// the broker delivers synchronously, so the refresh runs elsewhere
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			fire(ctx, refresh.ReasonAuth)
		}()
	})

	t.mu.Lock()
	t.unsubscribe = unsubscribe
	t.mu.Unlock()
	return nil
}

func (t *AuthStateTrigger) shouldFire(state auth.AuthState) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state.IsLoading {
		return false
	}
	if state.User == nil {
		t.lastUserID = ""
		return false
	}
	if state.User.ID == t.lastUserID {
		return false
	}
	t.lastUserID = state.User.ID
	return true
}

// Stop unsubscribes and waits for refreshes it started.
func (t *AuthStateTrigger) Stop() {
	t.mu.Lock()
	unsubscribe := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	t.wg.Wait()
}
