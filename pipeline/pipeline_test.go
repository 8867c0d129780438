package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/searchlab/component"
	apperrors "github.com/kbukum/searchlab/errors"
	"github.com/kbukum/searchlab/query"
	"github.com/kbukum/searchlab/scheduler/schedulertest"
	"github.com/kbukum/searchlab/search"
	"github.com/kbukum/searchlab/strategy"
)

type outcome struct {
	res search.PagedResult
	err error
}

// call is one provider invocation held open until the test replies.
type call struct {
	req   search.LookupRequest
	ctx   context.Context
	reply chan outcome
}

// fakeLookup blocks every Execute until the test replies or the call's
// context is cancelled.
type fakeLookup struct {
	calls chan *call
	count atomic.Int32
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{calls: make(chan *call, 32)}
}

func (f *fakeLookup) Name() string                       { return "fake" }
func (f *fakeLookup) IsAvailable(_ context.Context) bool { return true }

func (f *fakeLookup) Execute(ctx context.Context, req search.LookupRequest) (search.PagedResult, error) {
	f.count.Add(1)
	c := &call{req: req, ctx: ctx, reply: make(chan outcome, 1)}
	f.calls <- c
	select {
	case o := <-c.reply:
		return o.res, o.err
	case <-ctx.Done():
		return search.PagedResult{}, ctx.Err()
	}
}

type harness struct {
	t      *testing.T
	sched  *schedulertest.Scheduler
	src    *query.Source
	fake   *fakeLookup
	p      *Pipeline
	states []search.State
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		sched: schedulertest.New(),
		src:   query.NewSource(),
		fake:  newFakeLookup(),
	}
	p, err := New(h.src, h.fake, h.sched, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.p = p
	p.Subscribe(func(s search.State) { h.states = append(h.states, s) })
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = p.Stop(context.Background()) })
	return h
}

func withStrategy(kind strategy.Kind) Option {
	return WithConfig(Config{Strategy: string(kind)})
}

// next waits for the next provider call.
func (h *harness) next() *call {
	h.t.Helper()
	select {
	case c := <-h.fake.calls:
		return c
	case <-time.After(schedulertest.DefaultWait):
		h.t.Fatal("timed out waiting for a provider call")
		return nil
	}
}

// executed returns how many times the provider was called.
func (h *harness) executed() int { return int(h.fake.count.Load()) }

// respond delivers an outcome and runs the posted settlement.
func (h *harness) respond(c *call, o outcome) {
	h.t.Helper()
	c.reply <- o
	h.sched.RunPosted(h.t, 1)
}

func (h *harness) succeed(c *call, res search.PagedResult) { h.respond(c, outcome{res: res}) }

func (h *harness) fail(c *call) {
	h.respond(c, outcome{err: apperrors.LookupFailed(c.req.Term)})
}

func (h *harness) last() search.State {
	h.t.Helper()
	if len(h.states) == 0 {
		h.t.Fatal("no state published")
	}
	return h.states[len(h.states)-1]
}

// search types a term and lets the debounce elapse.
func (h *harness) search(term string) *call {
	h.t.Helper()
	h.src.SetTerm(term)
	h.sched.Advance(DefaultDebounce)
	return h.next()
}

func item(id int, title, description string) search.Item {
	return search.Item{ID: id, Title: title, Description: description}
}

func page(total int, items ...search.Item) search.PagedResult {
	return search.PagedResult{Items: items, Total: total}
}

func ids(items []search.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func assertIDs(t *testing.T, got []search.Item, want ...int) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("result ids = %v, want %v", g, want)
	}
	for i := range g {
		if g[i] != want[i] {
			t.Fatalf("result ids = %v, want %v", g, want)
		}
	}
}

func assertCleared(t *testing.T, s search.State) {
	t.Helper()
	if s.Loading || s.Error != "" || len(s.Results) != 0 || s.Total != 0 {
		t.Fatalf("expected cleared state, got %+v", s)
	}
}

var (
	rxjsPage    = page(2, item(2, "RxJS switchMap", "cancel"), item(3, "RxJS mergeMap", "parallel"))
	angularPage = page(3, item(1, "Angular Signals", "state"), item(4, "Angular HttpClient", "http"), item(7, "Architecture", "Angular projects"))
)

func TestShortTermsNeverLookup(t *testing.T) {
	terms := []string{"", "   ", "a", " b ", "é", "\t\n"}
	for _, term := range terms {
		t.Run(term, func(t *testing.T) {
			h := newHarness(t)
			h.src.SetTerm(term)
			h.sched.Advance(5 * time.Second)

			if h.executed() != 0 {
				t.Errorf("expected no provider calls, got %d", h.executed())
			}
			assertCleared(t, h.last())
			if h.p.Phase() != PhaseIdle {
				t.Errorf("expected idle phase, got %s", h.p.Phase())
			}
		})
	}
}

func TestStartPublishesClearedState(t *testing.T) {
	h := newHarness(t)
	if len(h.states) != 1 {
		t.Fatalf("expected one initial state, got %d", len(h.states))
	}
	s := h.states[0]
	assertCleared(t, s)
	if s.Page != 1 || s.TotalPages != 1 || s.HasNext || s.HasPrev || s.Filter != search.FilterAll {
		t.Errorf("unexpected initial paging: %+v", s)
	}
}

func TestDebounceDispatchesOnlyLastQuery(t *testing.T) {
	h := newHarness(t)

	h.src.SetTerm("an")
	h.sched.Advance(300 * time.Millisecond)
	h.src.SetTerm("ang")
	h.sched.Advance(300 * time.Millisecond)
	h.src.SetTerm("angular")
	h.sched.Advance(399 * time.Millisecond)
	if h.executed() != 0 {
		t.Fatalf("lookup issued before the quiet period elapsed")
	}
	if h.p.Phase() != PhaseDebouncing {
		t.Errorf("expected debouncing, got %s", h.p.Phase())
	}

	h.sched.Advance(time.Millisecond)
	c := h.next()
	if c.req != (search.LookupRequest{Term: "angular", Page: 1, PageSize: DefaultPageSize}) {
		t.Errorf("unexpected request %+v", c.req)
	}
	if h.executed() != 1 {
		t.Errorf("expected exactly one lookup, got %d", h.executed())
	}
	if h.sched.Elapsed() != time.Second {
		t.Errorf("dispatched at %v, want 1s", h.sched.Elapsed())
	}
}

func TestTermIsTrimmed(t *testing.T) {
	h := newHarness(t)
	c := h.search("  rxjs  ")
	if c.req.Term != "rxjs" {
		t.Errorf("expected trimmed term, got %q", c.req.Term)
	}
}

func TestDeduplicatesIdenticalQueries(t *testing.T) {
	h := newHarness(t)
	h.succeed(h.search("rxjs"), rxjsPage)

	// Same normalized term.
	h.src.SetTerm("rxjs ")
	h.sched.Advance(time.Second)

	// Edited away and back within the quiet period.
	h.src.SetTerm("rxj")
	h.sched.Advance(100 * time.Millisecond)
	h.src.SetTerm("rxjs")
	h.sched.Advance(time.Second)

	if h.executed() != 1 {
		t.Errorf("expected a single lookup, got %d", h.executed())
	}
	if h.p.Phase() != PhaseSettled {
		t.Errorf("expected settled, got %s", h.p.Phase())
	}
	assertIDs(t, h.last().Results, 2, 3)
}

func TestLookupLifecycleState(t *testing.T) {
	h := newHarness(t)
	c := h.search("rxjs")

	loading := h.last()
	if !loading.Loading || loading.Error != "" {
		t.Fatalf("expected loading state, got %+v", loading)
	}
	if h.p.Phase() != PhaseLoading {
		t.Errorf("expected loading phase, got %s", h.p.Phase())
	}

	h.succeed(c, rxjsPage)
	s := h.last()
	if s.Loading || s.Error != "" || s.Total != 2 || s.Page != 1 {
		t.Fatalf("unexpected settled state %+v", s)
	}
	assertIDs(t, s.Results, 2, 3)
	if s.TotalPages != 1 || s.HasNext || s.HasPrev {
		t.Errorf("unexpected paging %+v", s)
	}
	if h.p.Phase() != PhaseSettled {
		t.Errorf("expected settled phase, got %s", h.p.Phase())
	}
}

func TestCancelLatestSuppressesSupersededLookup(t *testing.T) {
	h := newHarness(t)
	a := h.search("angular")
	b := h.search("rxjs")

	if a.ctx.Err() == nil {
		t.Fatal("superseded lookup context must be cancelled")
	}
	issued := len(h.states)

	// However the superseded call resolves, it must not be observed.
	a.reply <- outcome{res: angularPage}
	h.succeed(b, rxjsPage)

	for _, s := range h.states[issued:] {
		for _, it := range s.Results {
			if it.ID == 1 || it.ID == 4 || it.ID == 7 {
				t.Fatalf("stale result leaked into state %+v", s)
			}
		}
	}
	assertIDs(t, h.last().Results, 2, 3)
	if h.last().Loading {
		t.Error("loading must clear once the newest lookup settles")
	}
}

func TestCancelLatestDropsResultAlreadyDelivered(t *testing.T) {
	h := newHarness(t, WithConfig(Config{DebounceNavigation: Bool(false)}))
	a := h.search("angular")

	// a's result reaches the scheduler queue but has not run yet.
	a.reply <- outcome{res: angularPage}
	h.sched.WaitQueued(t, 1)

	h.src.SetPage(2)
	b := h.next()
	if b.req.Page != 2 {
		t.Fatalf("expected page 2 request, got %+v", b.req)
	}

	h.sched.Flush()
	s := h.last()
	if !s.Loading || len(s.Results) != 0 || s.Page != 2 {
		t.Fatalf("superseded result must be discarded, got %+v", s)
	}

	h.succeed(b, page(3))
	if got := h.last(); got.Loading || got.Total != 3 || len(got.Results) != 0 {
		t.Errorf("unexpected final state %+v", got)
	}
}

func TestRetrySucceedsAfterTwoFailures(t *testing.T) {
	h := newHarness(t)

	c1 := h.search("rxjs")
	at := []time.Duration{h.sched.Elapsed()}
	h.fail(c1)

	if s := h.last(); !s.Loading || s.Error != "" {
		t.Fatalf("a retrying lookup is still in flight: %+v", s)
	}
	h.sched.Advance(499 * time.Millisecond)
	if h.executed() != 1 {
		t.Fatalf("retry fired before the delay elapsed")
	}

	h.sched.Advance(time.Millisecond)
	c2 := h.next()
	at = append(at, h.sched.Elapsed())
	h.fail(c2)

	h.sched.Advance(500 * time.Millisecond)
	c3 := h.next()
	at = append(at, h.sched.Elapsed())
	h.succeed(c3, rxjsPage)

	if h.executed() != 3 {
		t.Errorf("expected 3 calls, got %d", h.executed())
	}
	for i := 1; i < len(at); i++ {
		if gap := at[i] - at[i-1]; gap < 500*time.Millisecond {
			t.Errorf("attempts %d and %d only %v apart", i, i+1, gap)
		}
	}
	for _, s := range h.states {
		if s.Error != "" {
			t.Fatalf("no error may surface while retries remain: %+v", s)
		}
	}
	s := h.last()
	if s.Loading || s.Error != "" || s.Total != 2 {
		t.Errorf("unexpected final state %+v", s)
	}
	assertIDs(t, s.Results, 2, 3)
}

func TestRetryExhaustionRecovers(t *testing.T) {
	h := newHarness(t)

	h.fail(h.search("rxjs"))
	h.sched.Advance(500 * time.Millisecond)
	h.fail(h.next())
	h.sched.Advance(500 * time.Millisecond)
	h.fail(h.next())

	s := h.last()
	if s.Loading || s.Error != DefaultErrorMessage || len(s.Results) != 0 || s.Total != 0 {
		t.Fatalf("expected recovered error state, got %+v", s)
	}
	h.sched.Advance(10 * time.Second)
	if h.executed() != 3 {
		t.Errorf("expected exactly 3 calls, got %d", h.executed())
	}

	// The pipeline keeps working after a failure.
	c := h.search("angular")
	if s := h.last(); !s.Loading || s.Error != "" {
		t.Fatalf("starting a lookup must clear the error: %+v", s)
	}
	h.succeed(c, angularPage)
	if s := h.last(); s.Error != "" || s.Total != 3 {
		t.Errorf("unexpected state after recovery %+v", s)
	}
}

func TestEveryProviderFailureIsRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"lookup failure", apperrors.LookupFailed("rxjs")},
		{"non-retryable app error", apperrors.InvalidInput("term", "rejected")},
		{"provider deadline", context.DeadlineExceeded},
		{"plain error", errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.respond(h.search("rxjs"), outcome{err: tt.err})
			for i := 2; i <= DefaultMaxAttempts; i++ {
				if s := h.last(); !s.Loading || s.Error != "" {
					t.Fatalf("attempt %d: lookup must still be retrying, got %+v", i, s)
				}
				h.sched.Advance(DefaultRetryDelay)
				h.respond(h.next(), outcome{err: tt.err})
			}

			if s := h.last(); s.Loading || s.Error != DefaultErrorMessage {
				t.Fatalf("expected error state, got %+v", s)
			}
			h.sched.Advance(5 * time.Second)
			if h.executed() != DefaultMaxAttempts {
				t.Errorf("expected %d calls, got %d", DefaultMaxAttempts, h.executed())
			}
		})
	}
}

func TestCustomErrorMessage(t *testing.T) {
	h := newHarness(t, WithConfig(Config{MaxAttempts: 1, ErrorMessage: "nope"}))
	h.fail(h.search("rxjs"))
	if got := h.last().Error; got != "nope" {
		t.Errorf("error = %q, want nope", got)
	}
}

func TestShortTermCancelsInFlightSynchronously(t *testing.T) {
	h := newHarness(t)
	c := h.search("rxjs")

	h.src.SetTerm("r")
	assertCleared(t, h.last())
	if c.ctx.Err() == nil {
		t.Fatal("in-flight lookup must be cancelled")
	}
	if h.p.Phase() != PhaseIdle {
		t.Errorf("expected idle, got %s", h.p.Phase())
	}

	// Typing the old term again is not a duplicate after a clear.
	h.succeed(h.search("rxjs"), rxjsPage)
	assertIDs(t, h.last().Results, 2, 3)
}

func TestShortTermCancelsPendingRetry(t *testing.T) {
	h := newHarness(t)
	h.fail(h.search("rxjs"))
	if h.sched.Pending() != 1 {
		t.Fatalf("expected a pending retry timer, got %d", h.sched.Pending())
	}

	h.src.SetTerm("")
	if h.sched.Pending() != 0 {
		t.Errorf("retry timer must be stopped, %d pending", h.sched.Pending())
	}
	h.sched.Advance(5 * time.Second)
	if h.executed() != 1 {
		t.Errorf("cancelled retry fired: %d calls", h.executed())
	}
	assertCleared(t, h.last())
}

func TestFilterDerivation(t *testing.T) {
	h := newHarness(t)
	fetched := page(3,
		item(1, "RxJS basics", "intro"),
		item(2, "Signals", "Angular state"),
		item(3, "Forms", "plain"),
	)
	h.succeed(h.search("xx"), fetched)

	h.src.SetFilter(search.FilterTitle)
	s := h.last()
	assertIDs(t, s.Results, 1)
	if s.Total != 3 || s.Filter != search.FilterTitle {
		t.Errorf("filter must not change total: %+v", s)
	}

	h.src.SetFilter(search.FilterDescription)
	assertIDs(t, h.last().Results, 2)

	h.src.SetFilter(search.FilterAll)
	assertIDs(t, h.last().Results, 1, 2, 3)

	h.sched.Advance(time.Second)
	if h.executed() != 1 {
		t.Errorf("filter changes must not fetch, got %d calls", h.executed())
	}
}

func TestFilterAppliedToIncomingResults(t *testing.T) {
	h := newHarness(t)
	c := h.search("angular")
	h.src.SetFilter(search.FilterTitle)
	h.sched.Advance(time.Second)

	h.succeed(c, angularPage)
	s := h.last()
	assertIDs(t, s.Results, 1, 4)
	if s.Total != 3 {
		t.Errorf("total = %d, want 3", s.Total)
	}
}

func TestQueueSequentialStrategy(t *testing.T) {
	h := newHarness(t, withStrategy(strategy.KindQueueSequential))
	a := h.search("angular")
	h.src.SetTerm("rxjs")
	h.sched.Advance(DefaultDebounce)
	if h.executed() != 1 {
		t.Fatalf("second lookup must wait in the queue, %d calls", h.executed())
	}

	h.succeed(a, angularPage)
	s := h.last()
	assertIDs(t, s.Results, 1, 4, 7)
	if !s.Loading {
		t.Error("queued lookup keeps the pipeline loading")
	}

	b := h.next()
	if b.req.Term != "rxjs" {
		t.Fatalf("expected queued rxjs lookup, got %+v", b.req)
	}
	h.succeed(b, rxjsPage)
	s = h.last()
	assertIDs(t, s.Results, 2, 3)
	if s.Loading {
		t.Error("expected idle after the queue drains")
	}
}

func TestParallelMergeStrategy(t *testing.T) {
	h := newHarness(t, withStrategy(strategy.KindParallelMerge))
	a := h.search("angular")
	b := h.search("rxjs")
	if a.ctx.Err() != nil {
		t.Fatal("parallel merge must not cancel earlier lookups")
	}

	h.succeed(b, rxjsPage)
	s := h.last()
	assertIDs(t, s.Results, 2, 3)
	if !s.Loading {
		t.Error("a is still in flight")
	}

	// Completion order wins, even for an older query.
	h.succeed(a, angularPage)
	s = h.last()
	assertIDs(t, s.Results, 1, 4, 7)
	if s.Loading {
		t.Error("expected loading cleared")
	}
}

func TestIgnoreWhileBusyStrategy(t *testing.T) {
	h := newHarness(t, withStrategy(strategy.KindIgnoreWhileBusy))
	a := h.search("angular")

	h.src.SetTerm("rxjs")
	h.sched.Advance(DefaultDebounce)
	if h.executed() != 1 {
		t.Fatalf("busy pipeline must drop the new query, %d calls", h.executed())
	}

	h.succeed(a, angularPage)
	s := h.last()
	assertIDs(t, s.Results, 1, 4, 7)
	if s.Loading {
		t.Error("expected idle")
	}

	h.succeed(h.search("signals"), page(1, item(1, "Angular Signals", "state")))
	assertIDs(t, h.last().Results, 1)
}

func TestNextAndPrevPage(t *testing.T) {
	h := newHarness(t)
	h.succeed(h.search("ar"), page(7, item(1, "a", ""), item(2, "b", ""), item(3, "c", "")))

	s := h.last()
	if s.TotalPages != 3 || !s.HasNext || s.HasPrev {
		t.Fatalf("unexpected paging %+v", s)
	}
	if h.p.PrevPage() {
		t.Error("PrevPage must refuse on the first page")
	}

	if !h.p.NextPage() {
		t.Fatal("NextPage refused")
	}
	h.sched.Advance(DefaultDebounce - time.Millisecond)
	if h.executed() != 1 {
		t.Fatal("page change must be debounced by default")
	}
	h.sched.Advance(time.Millisecond)
	c := h.next()
	if c.req.Page != 2 || c.req.Term != "ar" {
		t.Fatalf("unexpected request %+v", c.req)
	}
	h.succeed(c, page(7, item(4, "d", ""), item(5, "e", ""), item(6, "f", "")))
	if s := h.last(); s.Page != 2 || !s.HasPrev || !s.HasNext {
		t.Fatalf("unexpected paging on page 2: %+v", s)
	}

	h.p.NextPage()
	h.sched.Advance(DefaultDebounce)
	h.succeed(h.next(), page(7, item(7, "g", "")))
	if s := h.last(); s.Page != 3 || s.HasNext {
		t.Fatalf("unexpected paging on page 3: %+v", s)
	}
	if h.p.NextPage() {
		t.Error("NextPage must refuse on the last page")
	}

	h.p.PrevPage()
	h.sched.Advance(DefaultDebounce)
	if c := h.next(); c.req.Page != 2 {
		t.Errorf("expected page 2, got %d", c.req.Page)
	}
}

func TestImmediateNavigation(t *testing.T) {
	h := newHarness(t, WithConfig(Config{DebounceNavigation: Bool(false)}))
	h.succeed(h.search("ar"), page(7, item(1, "a", "")))

	before := h.sched.Elapsed()
	h.p.NextPage()
	c := h.next()
	if c.req.Page != 2 {
		t.Fatalf("expected page 2, got %+v", c.req)
	}
	if h.sched.Elapsed() != before {
		t.Error("navigation must dispatch without waiting")
	}

	// Term edits are still debounced.
	h.src.SetTerm("arc")
	if h.p.Phase() != PhaseDebouncing {
		t.Errorf("expected debouncing, got %s", h.p.Phase())
	}
}

func TestStopReleasesEverything(t *testing.T) {
	h := newHarness(t)
	h.fail(h.search("rxjs"))
	h.src.SetTerm("angular")
	if h.sched.Pending() != 2 {
		t.Fatalf("expected retry and debounce timers, got %d", h.sched.Pending())
	}

	if err := h.p.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if h.sched.Pending() != 0 {
		t.Errorf("timers left after Stop: %d", h.sched.Pending())
	}

	published := len(h.states)
	h.src.SetTerm("signals")
	h.sched.Advance(10 * time.Second)
	if len(h.states) != published {
		t.Error("stopped pipeline must not publish")
	}
	if h.executed() != 1 {
		t.Errorf("stopped pipeline called the provider: %d", h.executed())
	}
	if h.p.Health(context.Background()).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy after Stop")
	}
}

func TestStopCancelsInFlightLookup(t *testing.T) {
	h := newHarness(t)
	c := h.search("rxjs")
	if err := h.p.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if c.ctx.Err() == nil {
		t.Error("in-flight lookup must be cancelled on Stop")
	}
	if h.p.Phase() != PhaseIdle {
		t.Errorf("expected idle, got %s", h.p.Phase())
	}
}

func TestRestartAfterStopLooksUpAgain(t *testing.T) {
	h := newHarness(t)
	h.search("rxjs")
	if err := h.p.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if h.p.State().Loading {
		t.Error("Stop must clear loading")
	}

	if err := h.p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.sched.Advance(DefaultDebounce)
	c := h.next()
	if c.req.Term != "rxjs" {
		t.Fatalf("unexpected request %+v", c.req)
	}
	h.succeed(c, rxjsPage)

	s := h.last()
	if s.Loading || s.Error != "" {
		t.Fatalf("unexpected state after restart %+v", s)
	}
	assertIDs(t, s.Results, 2, 3)
	if h.executed() != 2 {
		t.Errorf("expected 2 calls, got %d", h.executed())
	}
	if h.p.Phase() != PhaseSettled {
		t.Errorf("expected settled, got %s", h.p.Phase())
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	h := newHarness(t)
	var seen int
	unsubscribe := h.p.Subscribe(func(search.State) { seen++ })

	c := h.search("rxjs")
	unsubscribe()
	h.succeed(c, rxjsPage)

	if seen != 1 {
		t.Errorf("expected only the loading state before unsubscribe, got %d", seen)
	}
	got := h.p.State()
	got.Results[0].Title = "mutated"
	if h.p.State().Results[0].Title == "mutated" {
		t.Error("State must return a copy")
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	health := h.p.Health(context.Background())
	if health.Status != component.StatusHealthy || health.Name != "pipeline" {
		t.Errorf("unexpected health %+v", health)
	}
	if h.p.Strategy() != strategy.KindCancelLatest {
		t.Errorf("default strategy = %s", h.p.Strategy())
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	sched := schedulertest.New()
	src := query.NewSource()
	fake := newFakeLookup()

	tests := []struct {
		name string
		fn   func() (*Pipeline, error)
		code apperrors.ErrorCode
	}{
		{"nil source", func() (*Pipeline, error) { return New(nil, fake, sched) }, apperrors.ErrCodeInvalidInput},
		{"nil lookup", func() (*Pipeline, error) { return New(src, nil, sched) }, apperrors.ErrCodeInvalidInput},
		{"nil scheduler", func() (*Pipeline, error) { return New(src, fake, nil) }, apperrors.ErrCodeInvalidInput},
		{"unknown strategy", func() (*Pipeline, error) {
			return New(src, fake, sched, WithConfig(Config{Strategy: "zip"}))
		}, apperrors.ErrCodeInvalidInput},
		{"negative page size", func() (*Pipeline, error) {
			return New(src, fake, sched, WithConfig(Config{PageSize: -1}))
		}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.fn()
			if err == nil || p != nil {
				t.Fatalf("expected error, got %v", err)
			}
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Code != tt.code {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Debounce != 400*time.Millisecond || cfg.MinTermLength != 2 || cfg.PageSize != 3 ||
		cfg.MaxAttempts != 3 || cfg.RetryDelay != 500*time.Millisecond ||
		cfg.Strategy != string(strategy.KindCancelLatest) || cfg.ErrorMessage != DefaultErrorMessage {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.debouncesNavigation() {
		t.Error("navigation is debounced by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestPhaseString(t *testing.T) {
	for phase, want := range map[Phase]string{
		PhaseIdle:       "idle",
		PhaseDebouncing: "debouncing",
		PhaseLoading:    "loading",
		PhaseSettled:    "settled",
		Phase(42):       "unknown",
	} {
		if phase.String() != want {
			t.Errorf("%d.String() = %q, want %q", phase, phase.String(), want)
		}
	}
}
