package server

import (
	"context"
	"time"

	"github.com/hyperjump/shokugyo/internal/metrics"
	"github.com/hyperjump/shokugyo/internal/search"
	"go.uber.org/zap"
)

// retireDelay is how long a replaced engine stays open for requests still using it.
const retireDelay = 10 * time.Second

// BuildFunc constructs a fresh engine, typically from the catalog file.
type BuildFunc func(ctx context.Context) (*search.Engine, error)

// Reload builds a new engine and swaps it in. On failure the current engine keeps
// serving and the error is returned.
func (s *Server) Reload(ctx context.Context, build BuildFunc) error {
	next, err := build(ctx)
	metrics.ObserveReload(err)
	if err != nil {
		s.logger.Warn("Catalog reload failed; keeping current catalog", zap.Error(err))
		return err
	}
	prev := s.SwapEngine(next)
	s.logger.Info("Catalog reloaded", zap.Int("occupations", next.Stats().Occupations))
	if prev != nil && prev != next {
		time.AfterFunc(retireDelay, func() { _ = prev.Close() })
	}
	return nil
}
