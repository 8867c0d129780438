package catalog

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/kbukum/searchlab/errors"
	"github.com/kbukum/searchlab/provider"
	"github.com/kbukum/searchlab/search"
	"github.com/kbukum/searchlab/validation"
)

// Name identifies the catalog provider in logs, spans and metrics.
const Name = "catalog"

// Provider serves lookups from an in-memory item list with simulated
// latency and induced failures. It is safe for concurrent use.
type Provider struct {
	cfg   Config
	items []search.Item

	mu  sync.Mutex
	rnd *rand.Rand

	// sleep waits for d or until ctx is done.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ provider.RequestResponse[search.LookupRequest, search.PagedResult] = (*Provider)(nil)

// NewProvider returns a provider over the fixed catalog.
func NewProvider(cfg Config) *Provider {
	return NewProviderWithItems(cfg, Items())
}

// NewProviderWithItems returns a provider over the given items.
func NewProviderWithItems(cfg Config, items []search.Item) *Provider {
	cfg.ApplyDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Provider{
		cfg:   cfg,
		items: items,
		rnd:   rand.New(rand.NewSource(seed)),
		sleep: sleepContext,
	}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) IsAvailable(_ context.Context) bool { return true }

// Execute waits a random latency, then fails with probability FailureRate
// or returns the requested page. Cancellation returns ctx.Err().
func (p *Provider) Execute(ctx context.Context, req search.LookupRequest) (search.PagedResult, error) {
	if err := validation.New().
		Required("term", req.Term).
		Min("page", req.Page, 1).
		Min("page_size", req.PageSize, 1).
		Error(); err != nil {
		return search.PagedResult{}, err
	}

	latency, fail := p.roll()
	if err := p.sleep(ctx, latency); err != nil {
		return search.PagedResult{}, err
	}
	if fail {
		return search.PagedResult{}, errors.LookupFailed(req.Term)
	}
	return SearchPaged(p.items, req.Term, req.Page, req.PageSize), nil
}

// roll draws the latency and failure outcome for one call.
func (p *Provider) roll() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	latency := p.cfg.LatencyMin
	if span := p.cfg.LatencyMax - p.cfg.LatencyMin; span > 0 {
		latency += time.Duration(p.rnd.Int63n(int64(span) + 1))
	}
	return latency, p.rnd.Float64() < p.cfg.FailureRate
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
