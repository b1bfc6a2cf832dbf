package auth

import (
	"sync"
)

// AuthState is the current authentication status. User is nil when signed out.
type AuthState struct {
	User      *User
	IsLoading bool
}

// StateBroker fans authentication state changes out to subscribers.
// Listeners run synchronously, in publish order, outside the state lock.
// A listener must not call Publish or Subscribe.
type StateBroker struct {
	mu      sync.Mutex
	state   AuthState
	subs    map[uint64]func(AuthState)
	nextID  uint64
	deliver sync.Mutex
}

// NewStateBroker starts in the loading state with no user.
func NewStateBroker() *StateBroker {
	return &StateBroker{
		state: AuthState{IsLoading: true},
		subs:  make(map[uint64]func(AuthState)),
	}
}

// Subscribe registers fn, replays the current state to it, and returns a
// function that removes the subscription.
func (b *StateBroker) Subscribe(fn func(AuthState)) (unsubscribe func()) {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	current := b.state
	b.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish stores state and notifies every subscriber.
func (b *StateBroker) Publish(state AuthState) {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	b.state = state
	listeners := make([]func(AuthState), 0, len(b.subs))
	for _, fn := range b.subs {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

func (b *StateBroker) Current() AuthState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *StateBroker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
