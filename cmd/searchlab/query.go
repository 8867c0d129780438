package main

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/kbukum/searchlab/errors"
	"github.com/kbukum/searchlab/logger"
	"github.com/kbukum/searchlab/pipeline"
	"github.com/kbukum/searchlab/provider"
	"github.com/kbukum/searchlab/resilience"
	"github.com/kbukum/searchlab/search"
)

// queryOutput is the JSON document printed by -query.
type queryOutput struct {
	Term       string            `json:"term"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Filter     search.FilterMode `json:"filter"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
	Results    []search.Item     `json:"results"`
}

// queryRetry is the pipeline's fixed retry policy with retries logged.
func queryRetry(cfg pipeline.Config, log *logger.Logger) resilience.RetryConfig {
	rc := resilience.FixedRetryConfig(cfg.MaxAttempts, cfg.RetryDelay)
	rc.RetryIf = resilience.RetryAlways
	rc.OnRetry = func(attempt int, err error, backoff time.Duration) {
		log.Warn("lookup attempt failed, retrying", map[string]interface{}{
			logger.FieldAttempt:  attempt,
			logger.FieldError:    err.Error(),
			logger.FieldDuration: backoff.Milliseconds(),
		})
	}
	return rc
}

// runQuery performs one blocking lookup with retries and writes the
// filtered page as JSON. Application errors are also written, as an error
// document, before being returned.
func runQuery(ctx context.Context, lookup pipeline.Lookup, cfg pipeline.Config, q search.Query, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	term := strings.TrimSpace(q.Term)
	if len([]rune(term)) < max(cfg.MinTermLength, 1) {
		return printError(enc, errors.InvalidInput("query", "term is shorter than the minimum length"))
	}
	res, err := lookup.Execute(ctx, search.LookupRequest{Term: term, Page: q.Page, PageSize: cfg.PageSize})
	if err != nil {
		return printError(enc, err)
	}

	return enc.Encode(queryOutput{
		Term:       term,
		Page:       q.Page,
		PageSize:   cfg.PageSize,
		Filter:     q.Filter,
		Total:      res.Total,
		TotalPages: search.TotalPages(res.Total, cfg.PageSize),
		Results:    search.ApplyFilter(res.Items, q.Filter),
	})
}

func printError(enc *json.Encoder, err error) error {
	if appErr, ok := errors.AsAppError(err); ok {
		_ = enc.Encode(appErr.ToResponse())
	}
	return err
}

// withQueryRetry is the middleware the -query path adds around the
// instrumented lookup.
func withQueryRetry(cfg pipeline.Config, log *logger.Logger) provider.Middleware[search.LookupRequest, search.PagedResult] {
	return provider.WithRetry[search.LookupRequest, search.PagedResult](queryRetry(cfg, log))
}
