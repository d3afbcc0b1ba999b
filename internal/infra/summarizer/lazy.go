package summarizer

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader constructs a Summarizer. It may be slow (dialing a backend, warming a model).
type Loader func(ctx context.Context) (Summarizer, error)

// ErrNoLoader is returned by a Lazy created without a Loader.
var ErrNoLoader = errors.New("summarizer loader is nil")

// Lazy is a shared model handle loaded on first use. Concurrent first callers wait
// on a single load; a successful load is kept for the life of the process, a failed
// one is not, so the next call tries again.
type Lazy struct {
	load  Loader
	group singleflight.Group

	mu     sync.RWMutex
	loaded Summarizer
}

// NewLazy wraps load.
func NewLazy(load Loader) *Lazy {
	return &Lazy{load: load}
}

// Get returns the loaded Summarizer, loading it if needed.
func (l *Lazy) Get(ctx context.Context) (Summarizer, error) {
	l.mu.RLock()
	s := l.loaded
	l.mu.RUnlock()
	if s != nil {
		return s, nil
	}
	if l.load == nil {
		return nil, ErrNoLoader
	}

	v, err, _ := l.group.Do("load", func() (interface{}, error) {
		l.mu.RLock()
		s := l.loaded
		l.mu.RUnlock()
		if s != nil {
			return s, nil
		}

		// Detach from the first caller's cancellation; other callers share this load.
		s, err := l.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, ErrNoLoader
		}

		l.mu.Lock()
		l.loaded = s
		l.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Summarizer), nil
}

// Loaded reports whether the handle holds a model.
func (l *Lazy) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded != nil
}

// Summarize loads the model if needed and delegates to it.
func (l *Lazy) Summarize(ctx context.Context, text string) (string, error) {
	s, err := l.Get(ctx)
	if err != nil {
		return "", err
	}
	return s.Summarize(ctx, text)
}

// Info describes the loaded model, or returns a zero Info before the first load.
func (l *Lazy) Info() Info {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.loaded == nil {
		return Info{}
	}
	return Describe(l.loaded)
}

// Ready loads the model if needed and reports the load error, for readiness probes.
func (l *Lazy) Ready(ctx context.Context) error {
	_, err := l.Get(ctx)
	return err
}

// Status reports whether the model is loaded and, if so, its backend and breaker state.
// It never triggers a load.
func (l *Lazy) Status() Status {
	l.mu.RLock()
	s := l.loaded
	l.mu.RUnlock()
	if s == nil {
		return Status{}
	}
	info := Describe(s)
	st := Status{Loaded: true, Provider: info.Provider, Model: info.Model}
	if b, ok := s.(breakerReporter); ok {
		st.Breaker = b.BreakerState()
	}
	return st
}
