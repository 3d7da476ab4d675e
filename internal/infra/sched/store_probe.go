package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"stock-lookup-bot/internal/infra/metrics"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreProbe periodically pings the document store and keeps the store_up gauge current.
// It logs only on state changes.
type StoreProbe struct {
	interval time.Duration
	timeout  time.Duration
	store    Pinger
	log      *zerolog.Logger

	up bool
}

func NewStoreProbe(interval time.Duration, store Pinger, logger *zerolog.Logger) *StoreProbe {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	probeLog := logger.With().Str("component", "StoreProbe").Logger()
	timeout := interval / 2
	if timeout <= 0 || timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &StoreProbe{interval: interval, timeout: timeout, store: store, log: &probeLog, up: true}
}

func (p *StoreProbe) Run(ctx context.Context) error {
	p.log.Info().Dur("interval", p.interval).Msg("Starting store probe")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("Stopping store probe")
			return ctx.Err()
		case <-ticker.C:
			p.check(ctx)
		}
	}
}

func (p *StoreProbe) check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.store.Ping(pctx)
	up := err == nil
	metrics.SetStoreUp(up)
	switch {
	case !up && p.up:
		p.log.Error().Err(err).Msg("document store unreachable")
	case up && !p.up:
		p.log.Info().Msg("document store reachable again")
	}
	p.up = up
	return up
}
