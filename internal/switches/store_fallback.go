package switches

import (
	"context"
	"log/slog"
	"sync"

	"pihooks/pkg/platform/circuit"
)

// FallbackSource serves the last good snapshot while a remote source is
// failing. The breaker decides when the remote is trusted again.
type FallbackSource struct {
	primary Source
	breaker *circuit.Breaker
	logger  *slog.Logger

	mu      sync.RWMutex
	last    Snapshot
	hasLast bool
}

func NewFallback(primary Source, breaker *circuit.Breaker, logger *slog.Logger) *FallbackSource {
	if breaker == nil {
		breaker = circuit.New("switches")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackSource{primary: primary, breaker: breaker, logger: logger}
}

func (s *FallbackSource) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, err := s.primary.Snapshot(ctx)
	if err != nil {
		useFallback, change := s.breaker.RecordFailure()
		if change.Opened {
			s.logger.WarnContext(ctx, "switch store circuit opened", "breaker", s.breaker.Name(), "error", err)
		}
		if last, ok := s.cached(); useFallback && ok {
			return last, nil
		}
		return Snapshot{}, err
	}

	usePrimary, change := s.breaker.RecordSuccess()
	if change.Closed {
		s.logger.InfoContext(ctx, "switch store circuit closed", "breaker", s.breaker.Name())
	}
	if !usePrimary {
		if last, ok := s.cached(); ok {
			return last, nil
		}
	}

	s.mu.Lock()
	s.last, s.hasLast = snap, true
	s.mu.Unlock()
	return snap, nil
}

func (s *FallbackSource) cached() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.hasLast
}
