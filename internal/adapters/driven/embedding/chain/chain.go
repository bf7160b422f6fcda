// Package chain arbitrates between embedding providers. Candidates are
// probed once, in priority order, and the first working provider is
// adopted for the process lifetime; a runtime failure degrades to the
// next untried candidate and then sticks with whichever succeeded.
package chain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/docwizard/docwizard/internal/core/domain"
	"github.com/docwizard/docwizard/internal/core/ports/driven"
	"github.com/docwizard/docwizard/internal/logger"
)

// Ensure Chain implements the interface, so it can stand in for a single
// provider anywhere one is expected.
var _ driven.EmbeddingService = (*Chain)(nil)

// DefaultProbeTimeout bounds each startup probe. A candidate that cannot
// answer in time is skipped, not treated as fatal.
const DefaultProbeTimeout = 5 * time.Second

// probeText is the short fixed string embedded while probing candidates.
const probeText = "docwizard readiness probe"

// Chain is an EmbeddingService backed by an ordered list of candidate
// providers.
type Chain struct {
	mu         sync.Mutex
	active     driven.EmbeddingService
	pending    []driven.EmbeddingService
	dimensions int
}

// Option configures chain construction.
type Option func(*options)

type options struct {
	probeTimeout time.Duration
}

// WithProbeTimeout overrides the per-candidate probe timeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.probeTimeout = d
		}
	}
}

// New probes candidates strictly in order and adopts the first that
// embeds the probe string. Candidates with absent or invalid credentials
// should be excluded by the caller before construction. Returns
// domain.ErrEmbeddingExhausted if every candidate fails, which is only
// possible when the deterministic fallback is missing or broken.
func New(ctx context.Context, candidates []driven.EmbeddingService, opts ...Option) (*Chain, error) {
	o := options{probeTimeout: DefaultProbeTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	for i, cand := range candidates {
		if err := probe(ctx, cand, o.probeTimeout); err != nil {
			logger.Warn("embedding probe failed for %s: %v", cand.ModelName(), err)
			cand.Close()
			continue
		}
		logger.Info("adopted embedding provider %s (%d dims)", cand.ModelName(), cand.Dimensions())
		return &Chain{
			active:     cand,
			pending:    candidates[i+1:],
			dimensions: cand.Dimensions(),
		}, nil
	}

	return nil, domain.ErrEmbeddingExhausted
}

// probe embeds the fixed probe string under a bounded timeout and
// requires a non-empty vector of the advertised dimensionality.
func probe(ctx context.Context, svc driven.EmbeddingService, timeout time.Duration) error {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	vec, err := svc.Embed(probeCtx, probeText)
	if err != nil {
		return err
	}
	if len(vec) == 0 {
		return fmt.Errorf("probe returned empty vector")
	}
	if len(vec) != svc.Dimensions() {
		return fmt.Errorf("probe returned %d dims, provider advertises %d", len(vec), svc.Dimensions())
	}
	return nil
}

// Embed generates a vector embedding for the given text.
func (c *Chain) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch embeds the batch with the adopted provider. A failure
// (including timeout) degrades to the next untried candidate for this
// batch; the chain then sticks with whichever provider succeeded.
func (c *Chain) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	active := c.activeProvider()
	out, err := active.EmbedBatch(ctx, texts)
	if err == nil {
		if err = c.checkDimensions(out, len(texts)); err == nil {
			return out, nil
		}
	}
	logger.Warn("embedding batch failed on %s: %v", active.ModelName(), err)

	return c.degrade(ctx, texts, active)
}

// degrade retries the batch against untried candidates, in order, and
// adopts the first that succeeds. Serialized so that concurrent failures
// do not race on the adoption decision.
func (c *Chain) degrade(ctx context.Context, texts []string, failed driven.EmbeddingService) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have already degraded past the failed provider.
	if c.active != failed {
		out, err := c.active.EmbedBatch(ctx, texts)
		if err == nil {
			if err = c.checkDimensions(out, len(texts)); err == nil {
				return out, nil
			}
		}
	}

	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]

		out, err := next.EmbedBatch(ctx, texts)
		if err == nil {
			err = c.checkDimensions(out, len(texts))
		}
		if err != nil {
			logger.Warn("embedding fallback %s failed: %v", next.ModelName(), err)
			next.Close()
			continue
		}

		logger.Info("degraded embedding provider to %s", next.ModelName())
		c.active.Close()
		c.active = next
		return out, nil
	}

	return nil, domain.ErrEmbeddingExhausted
}

// checkDimensions rejects batches with missing or mismatched vectors, so
// one document is never indexed with mixed dimensionality.
func (c *Chain) checkDimensions(out [][]float32, want int) error {
	if len(out) != want {
		return fmt.Errorf("expected %d embeddings, got %d", want, len(out))
	}
	for i, vec := range out {
		if len(vec) != c.dimensions {
			return fmt.Errorf("embedding %d has %d dims, chain requires %d", i, len(vec), c.dimensions)
		}
	}
	return nil
}

func (c *Chain) activeProvider() driven.EmbeddingService {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Dimensions returns the chain's fixed vector size.
func (c *Chain) Dimensions() int {
	return c.dimensions
}

// ModelName returns the adopted provider's model name.
func (c *Chain) ModelName() string {
	return c.activeProvider().ModelName()
}

// Ping forwards to the adopted provider.
func (c *Chain) Ping(ctx context.Context) error {
	return c.activeProvider().Ping(ctx)
}

// Close releases the adopted provider and all untried candidates.
func (c *Chain) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.active.Close()
	for _, cand := range c.pending {
		cand.Close()
	}
	c.pending = nil
	return err
}
