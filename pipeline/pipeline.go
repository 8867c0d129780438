package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/kbukum/searchlab/component"
	"github.com/kbukum/searchlab/logger"
	"github.com/kbukum/searchlab/observability"
	"github.com/kbukum/searchlab/provider"
	"github.com/kbukum/searchlab/query"
	"github.com/kbukum/searchlab/resilience"
	"github.com/kbukum/searchlab/scheduler"
	"github.com/kbukum/searchlab/search"
	"github.com/kbukum/searchlab/strategy"
)

// Lookup is the provider the pipeline searches with.
type Lookup = provider.RequestResponse[search.LookupRequest, search.PagedResult]

// dispatchKey identifies a query for deduplication.
type dispatchKey struct {
	term string
	page int
}

// Pipeline turns query changes into search state. Apart from Start, Stop
// and Health, methods must be called on the scheduler goroutine (or before
// Start).
type Pipeline struct {
	src     *query.Source
	lookup  Lookup
	sched   scheduler.Scheduler
	cfg     Config
	strat   strategy.Strategy
	retry   resilience.RetryConfig
	log     *logger.Logger
	metrics *observability.PipelineMetrics

	running     atomic.Bool
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	state          search.State
	phase          Phase
	fetched        []search.Item
	filter         search.FilterMode
	lastTerm       string
	pending        search.Query
	debounce       scheduler.Timer
	lastDispatched *dispatchKey
	settled        bool

	observers    []stateObserver
	nextObserver int
	emitted      uint64
}

type stateObserver struct {
	id int
	fn func(search.State)
}

var _ component.Component = (*Pipeline)(nil)

// New builds a pipeline over src that searches with lk and schedules
// on sched. It does nothing until Start.
func New(src *query.Source, lk Lookup, sched scheduler.Scheduler, opts ...Option) (*Pipeline, error) {
	switch {
	case src == nil:
		return nil, errNilDependency("source")
	case lk == nil:
		return nil, errNilDependency("lookup")
	case sched == nil:
		return nil, errNilDependency("scheduler")
	}

	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	o.cfg.ApplyDefaults()
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}

	if o.strategy == nil {
		kind, _ := strategy.ParseKind(o.cfg.Strategy)
		s, err := strategy.New(kind)
		if err != nil {
			return nil, err
		}
		o.strategy = s
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	if o.metrics == nil {
		m, err := observability.NewPipelineMetrics(observability.Meter("github.com/kbukum/searchlab/pipeline"))
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}

	p := &Pipeline{
		src:     src,
		lookup:  lk,
		sched:   sched,
		cfg:     o.cfg,
		strat:   o.strategy,
		retry:   lookupRetry(o.cfg),
		metrics: o.metrics,
		log: o.log.WithComponent("pipeline").WithFields(map[string]interface{}{
			logger.FieldStrategy: string(o.strategy.Name()),
		}),
		ctx:    context.Background(),
		cancel: func() {},
	}
	p.state = p.clearedState(src.Current())
	return p, nil
}

// lookupRetry is the fixed retry policy for lookups. Every provider failure
// is retried; cancellations the pipeline caused never reach the retrier.
func lookupRetry(cfg Config) resilience.RetryConfig {
	rc := resilience.FixedRetryConfig(cfg.MaxAttempts, cfg.RetryDelay)
	rc.RetryIf = resilience.RetryAlways
	return rc
}

// Name implements component.Component.
func (p *Pipeline) Name() string { return "pipeline" }

// Start subscribes to the source and processes its current query.
func (p *Pipeline) Start(ctx context.Context) error {
	return p.sched.Call(ctx, func() { p.start(ctx) })
}

// Stop unsubscribes, stops every timer, cancels every lookup and silences
// the pipeline. Late provider results are discarded.
func (p *Pipeline) Stop(ctx context.Context) error {
	return p.sched.Call(ctx, p.stop)
}

// Health implements component.Component.
func (p *Pipeline) Health(_ context.Context) component.Health {
	h := component.Health{Name: p.Name(), Status: component.StatusHealthy}
	if !p.running.Load() {
		h.Status = component.StatusUnhealthy
		h.Message = "stopped"
		return h
	}
	h.Message = "strategy " + string(p.strat.Name())
	return h
}

func (p *Pipeline) start(ctx context.Context) {
	if p.running.Load() {
		return
	}
	p.running.Store(true)
	p.ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))

	current := p.src.Current()
	p.filter = current.Filter
	p.lastTerm = ""
	p.unsubscribe = p.src.Subscribe(p.onQuery)
	p.log.Debug("pipeline started", map[string]interface{}{
		logger.FieldTerm: current.Term,
		logger.FieldPage: current.Page,
	})
	p.process(current)
}

func (p *Pipeline) stop() {
	if !p.running.Load() {
		return
	}
	p.running.Store(false)
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.stopDebounce()
	p.strat.CancelAll()
	p.cancel()
	p.lastDispatched = nil
	p.state.Loading = false
	p.phase = PhaseIdle
	p.log.Debug("pipeline stopped")
}

// Subscribe registers fn for every published state. The returned function
// removes it.
func (p *Pipeline) Subscribe(fn func(search.State)) (unsubscribe func()) {
	p.nextObserver++
	id := p.nextObserver
	p.observers = append(p.observers, stateObserver{id: id, fn: fn})
	return func() {
		for i, o := range p.observers {
			if o.id == id {
				p.observers = append(p.observers[:i], p.observers[i+1:]...)
				return
			}
		}
	}
}

// State returns the last published snapshot.
func (p *Pipeline) State() search.State { return snapshot(p.state) }

// Phase returns the current phase.
func (p *Pipeline) Phase() Phase { return p.phase }

// Strategy returns the active concurrency strategy.
func (p *Pipeline) Strategy() strategy.Kind { return p.strat.Name() }

// NextPage moves the source to the page after the displayed one. It
// reports false when there is no next page.
func (p *Pipeline) NextPage() bool {
	if !p.state.HasNext {
		return false
	}
	p.src.SetPage(p.state.Page + 1)
	return true
}

// PrevPage moves the source to the page before the displayed one. It
// reports false on the first page.
func (p *Pipeline) PrevPage() bool {
	if !p.state.HasPrev {
		return false
	}
	p.src.SetPage(p.state.Page - 1)
	return true
}

func (p *Pipeline) onQuery(q search.Query) {
	if !p.running.Load() {
		return
	}
	p.process(q)
}

func (p *Pipeline) process(q search.Query) {
	q.Term = strings.TrimSpace(q.Term)
	prevTerm := p.lastTerm
	p.lastTerm = q.Term

	if q.Filter != p.filter {
		p.filter = q.Filter
		p.state.Filter = q.Filter
		p.state.Results = search.ApplyFilter(p.fetched, q.Filter)
		p.emit()
	}

	if utf8.RuneCountInString(q.Term) < max(p.cfg.MinTermLength, 1) {
		p.clear(q)
		return
	}

	p.stopDebounce()
	if !p.cfg.debouncesNavigation() && q.Term == prevTerm {
		p.dispatch(q)
		return
	}
	p.pending = q
	p.debounce = p.sched.After(p.cfg.Debounce, p.fireDebounce)
	p.phase = PhaseDebouncing
}

// clear handles an empty or too-short term: everything pending is dropped
// and a cleared state is published synchronously.
func (p *Pipeline) clear(q search.Query) {
	p.stopDebounce()
	p.strat.CancelAll()
	p.lastDispatched = nil
	p.fetched = nil
	p.settled = false
	p.state = p.clearedState(q)
	p.phase = PhaseIdle
	p.emit()
}

func (p *Pipeline) clearedState(q search.Query) search.State {
	return search.State{
		Results: []search.Item{},
		Page:    max(q.Page, 1),
		Filter:  q.Filter,
	}.Pagination(p.cfg.PageSize)
}

func (p *Pipeline) stopDebounce() {
	scheduler.StopTimer(p.debounce)
	p.debounce = nil
}

func (p *Pipeline) fireDebounce() {
	p.debounce = nil
	p.dispatch(p.pending)
}

func (p *Pipeline) dispatch(q search.Query) {
	key := dispatchKey{term: q.Term, page: q.Page}
	if p.lastDispatched != nil && *p.lastDispatched == key {
		p.metrics.QueryDeduplicated(p.ctx, string(p.strat.Name()))
		p.log.Debug("query deduplicated", map[string]interface{}{
			logger.FieldTerm: q.Term,
			logger.FieldPage: q.Page,
		})
		p.phase = p.restingPhase()
		return
	}
	p.lastDispatched = &key

	l := p.newLookup(q)
	ticket := p.strat.Issue(l.task)
	if ticket.Dropped() {
		p.metrics.LookupDropped(p.ctx, string(p.strat.Name()))
		l.log.Debug("lookup dropped while busy")
	}
	p.phase = p.restingPhase()
}

// restingPhase derives the phase from pending work.
func (p *Pipeline) restingPhase() Phase {
	switch {
	case p.debounce != nil:
		return PhaseDebouncing
	case p.strat.Busy():
		return PhaseLoading
	case p.settled:
		return PhaseSettled
	default:
		return PhaseIdle
	}
}

// emit publishes the current state with derived paging fields.
func (p *Pipeline) emit() {
	if !p.running.Load() {
		return
	}
	p.state = p.state.Pagination(p.cfg.PageSize)
	p.emitted++
	s := snapshot(p.state)
	for _, o := range append([]stateObserver(nil), p.observers...) {
		o.fn(s)
	}
}

func snapshot(s search.State) search.State {
	s.Results = append([]search.Item{}, s.Results...)
	return s
}
