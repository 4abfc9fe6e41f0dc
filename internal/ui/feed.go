package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marsview/internal/state"
)

// changeMsg carries the newest store change into the Bubble Tea loop.
type changeMsg state.Change

// storeFeed bridges store notifications into tea messages. Subscribers run on
// the writing goroutine, which may be Update itself, so push never blocks:
// it keeps only the newest change and signals a waiting command.
type storeFeed struct {
	mu     sync.Mutex
	latest state.Change
	has    bool

	signal      chan struct{}
	done        chan struct{}
	once        sync.Once
	unsubscribe func()
}

func newStoreFeed(store *state.Store) *storeFeed {
	f := &storeFeed{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	f.unsubscribe = store.Subscribe(f.push)
	return f
}

func (f *storeFeed) push(c state.Change) {
	f.mu.Lock()
	if !f.has || c.Version > f.latest.Version {
		f.latest = c
		f.has = true
	}
	f.mu.Unlock()

	select {
	case f.signal <- struct{}{}:
	default:
	}
}

// next returns a command that waits for the next change.
func (f *storeFeed) next() tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case <-f.signal:
			case <-f.done:
				return nil
			}
			// A signal can outlive the change it announced.
			if c, ok := f.take(); ok {
				return changeMsg(c)
			}
		}
	}
}

func (f *storeFeed) take() (state.Change, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.has {
		return state.Change{}, false
	}
	f.has = false
	return f.latest, true
}

func (f *storeFeed) close() {
	if f == nil {
		return
	}
	f.once.Do(func() {
		f.unsubscribe()
		close(f.done)
	})
}
