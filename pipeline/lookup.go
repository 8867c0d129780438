package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/searchlab/logger"
	"github.com/kbukum/searchlab/observability"
	"github.com/kbukum/searchlab/resilience"
	"github.com/kbukum/searchlab/search"
)

// lookup is one issued query: every attempt, the retry delays between
// them, and the final settlement.
type lookup struct {
	p     *Pipeline
	id    string
	query search.Query
	log   *logger.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	span    trace.Span
	retrier *resilience.Retrier
	done    func()
	started time.Time
	result  search.PagedResult

	cancelled bool
	finished  bool
}

func (p *Pipeline) newLookup(q search.Query) *lookup {
	id := uuid.NewString()
	return &lookup{
		p:     p,
		id:    id,
		query: q,
		log: p.log.WithFields(map[string]interface{}{
			logger.FieldLookupID: id,
			logger.FieldTerm:     q.Term,
			logger.FieldPage:     q.Page,
		}),
	}
}

// task is the strategy.Task for this lookup.
func (l *lookup) task(done func()) (cancel func()) {
	p := l.p
	l.done = done
	l.started = p.sched.Now()
	l.ctx, l.cancel = context.WithCancel(p.ctx)
	l.ctx, l.span = observability.StartSpan(l.ctx, observability.SpanLookup, trace.WithAttributes(
		attribute.String(observability.AttrLookupID, l.id),
		attribute.String(observability.AttrTerm, l.query.Term),
		attribute.Int(observability.AttrPage, l.query.Page),
		attribute.Int(observability.AttrPageSize, p.cfg.PageSize),
		attribute.String(observability.AttrStrategy, string(p.strat.Name())),
	))

	p.state.Loading = true
	p.state.Error = ""
	p.state.Page = l.query.Page
	p.phase = PhaseLoading
	p.metrics.LookupIssued(p.ctx, string(p.strat.Name()))
	l.log.Debug("lookup started")
	p.emit()

	cfg := p.retry
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		p.metrics.LookupRetried(p.ctx, string(p.strat.Name()))
		l.log.Warn("lookup attempt failed, retrying", map[string]interface{}{
			logger.FieldAttempt:  attempt,
			logger.FieldError:    err.Error(),
			logger.FieldDuration: backoff.Milliseconds(),
		})
	}
	l.retrier = resilience.NewRetrier(p.sched, cfg, l.attempt, l.settle)
	l.retrier.Start()

	return l.abort
}

// attempt calls the provider on its own goroutine and reports the outcome
// back on the scheduler. Nothing is posted once the lookup is cancelled.
func (l *lookup) attempt(n int, report func(error)) {
	p := l.p
	ctx := l.ctx
	req := search.LookupRequest{Term: l.query.Term, Page: l.query.Page, PageSize: p.cfg.PageSize}
	observability.SetSpanAttribute(ctx, observability.AttrAttempt, n)

	go func() {
		res, err := p.lookup.Execute(ctx, req)
		if ctx.Err() != nil {
			return
		}
		p.sched.Post(func() {
			if l.cancelled {
				return
			}
			if err == nil {
				l.result = res
			}
			report(err)
		})
	}()
}

// settle applies the final outcome to the pipeline state.
func (l *lookup) settle(attempts int, err error) {
	p := l.p
	if l.cancelled || l.finished {
		return
	}
	l.finished = true
	elapsed := p.sched.Now().Sub(l.started)

	if err != nil {
		p.fetched = nil
		p.state.Results = []search.Item{}
		p.state.Total = 0
		p.state.Error = p.cfg.ErrorMessage
		l.span.RecordError(err)
		l.span.SetStatus(codes.Error, err.Error())
		l.log.Warn("lookup failed, recovered to empty result", map[string]interface{}{
			logger.FieldAttempt: attempts,
			logger.FieldError:   err.Error(),
		})
	} else {
		p.fetched = l.result.Items
		p.state.Results = search.ApplyFilter(l.result.Items, p.filter)
		p.state.Total = l.result.Total
		p.state.Error = ""
		l.span.SetStatus(codes.Ok, "")
		l.log.Debug("lookup settled", map[string]interface{}{
			logger.FieldAttempt:  attempts,
			logger.FieldDuration: elapsed.Milliseconds(),
		})
	}
	p.state.Page = l.query.Page
	p.settled = true
	p.metrics.LookupSettled(p.ctx, string(p.strat.Name()), err == nil, elapsed)
	l.span.SetAttributes(attribute.Int(observability.AttrAttempt, attempts))
	l.span.End()
	l.cancel()

	// A queued lookup may start inside done and publish its own loading
	// state, which already carries this result.
	emitted := p.emitted
	l.done()
	if p.emitted != emitted {
		return
	}
	p.state.Loading = p.strat.Busy()
	p.phase = p.restingPhase()
	p.emit()
}

// abort is the strategy's cancel hook. Cancellation is silent: it never
// touches the published state.
func (l *lookup) abort() {
	p := l.p
	if l.cancelled || l.finished {
		return
	}
	l.cancelled = true
	l.retrier.Cancel()
	l.cancel()

	l.span.SetAttributes(attribute.String(observability.AttrStatus, "cancelled"))
	l.span.End()
	p.metrics.LookupCancelled(p.ctx, string(p.strat.Name()))
	l.log.Debug("lookup cancelled")
}
